package model

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an account's access level.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Account represents a registered user.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a new account.
// Role is optional and defaults to student.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,strongpassword,max=128"`
	Role     Role   `json:"role" binding:"omitempty,oneof=student admin"`
}

// LoginRequest is the payload for authentication. Identifier matches
// either the account email or the username.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,min=2,max=255"`
	Password   string `json:"password" binding:"required,max=128"`
}

// AuthResponse is returned after successful registration or login.
type AuthResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}
