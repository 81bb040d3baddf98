package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
)

// AccountStore is the persistence surface AccountService needs. Implemented
// by repository.AccountRepository; tests substitute an in-memory fake.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.Account, error)
}

// ErrDuplicateAccount is returned when the email or username is taken.
var ErrDuplicateAccount = errors.New("email or username already registered")

// AccountService handles registration, authentication, and profiles.
// Password-policy enforcement happens at request binding (strongpassword
// tag); this layer assumes the plaintext already passed it.
type AccountService struct {
	store AccountStore
	auth  *AuthService
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, auth *AuthService) *AccountService {
	return &AccountService{store: store, auth: auth}
}

// Register hashes the password, persists the account (role defaults to
// student), and returns the account with a registration token.
func (s *AccountService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Account, string, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}

	account := &model.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrDuplicateAccount
		}
		return nil, "", err
	}

	token, err := s.auth.IssueRegisterToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// Authenticate verifies credentials for an email-or-username identifier and
// returns the account with a login token. ErrAccountNotFound and
// ErrInvalidCredentials are kept distinct so the handler can answer
// "User not found. Please register." versus a bad-password 401.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*model.Account, string, error) {
	account, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrAccountNotFound
		}
		return nil, "", err
	}

	if err := s.auth.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.IssueLoginToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// GetByID retrieves an account profile.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.store.GetByID(ctx, id)
}
