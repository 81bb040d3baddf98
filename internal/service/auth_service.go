package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/config"
	"github.com/stepwise/stepwise-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// Claims extends JWT standard claims with the identity fields the API
// trusts without re-querying the account store. A role change therefore
// only takes effect once the holder re-authenticates.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
}

// AuthService handles password hashing and stateless JWT issuance.
// Tokens are verified solely by signature and expiry; there is no
// server-side session or revocation list.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueRegisterToken creates a JWT for a freshly registered account.
// Registration tokens carry the longer validity window.
func (s *AuthService) IssueRegisterToken(account *model.Account) (string, error) {
	return s.issueToken(account, s.cfg.RegisterTokenTTL)
}

// IssueLoginToken creates a JWT after a successful login. Login tokens are
// shorter-lived than registration tokens.
func (s *AuthService) IssueLoginToken(account *model.Account) (string, error) {
	return s.issueToken(account, s.cfg.LoginTokenTTL)
}

func (s *AuthService) issueToken(account *model.Account, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
