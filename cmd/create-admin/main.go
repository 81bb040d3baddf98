package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stepwise/stepwise-backend/internal/config"
	"github.com/stepwise/stepwise-backend/internal/database"
	"github.com/stepwise/stepwise-backend/internal/logger"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
	"github.com/stepwise/stepwise-backend/internal/service"
	"github.com/stepwise/stepwise-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	authService := service.NewAuthService(cfg)
	accountService := service.NewAccountService(accountRepo, authService)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin Account ===")

	// Username
	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if !validator.CheckPasswordPolicy(password) {
		fmt.Println("Error: Password needs at least 8 characters with an uppercase letter, a digit, and a symbol")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	account, _, err := accountService.Register(ctx, &model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin account")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", account.Username, account.Email, account.ID)
}
