package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/middleware"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
	"github.com/stepwise/stepwise-backend/internal/response"
	"github.com/stepwise/stepwise-backend/internal/service"
	"github.com/stepwise/stepwise-backend/internal/validator"
)

// AuthHandler handles registration, login, and profile endpoints.
type AuthHandler struct {
	accountService *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// Register godoc
// POST /api/v1/auth/register
// Validates the payload (including the password policy), creates the
// account, and returns a 4-hour token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, token, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"token":   token,
		"account": account,
	})
}

// Login godoc
// POST /api/v1/auth/login
// Validates credentials against an email-or-username identifier and
// returns a 2-hour token. An unknown identifier answers 404 so the client
// can steer the user to registration; a wrong password answers 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, token, err := h.accountService.Authenticate(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"account": account,
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the verified identity plus the stored profile of the caller.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"identity": gin.H{
			"id":    claims.AccountID,
			"email": claims.Email,
			"role":  claims.Role,
		},
		"account": account,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Tokens are stateless, so logout is a client-side discard. The endpoint
// exists for API symmetry.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{})
}

// forgotPasswordRequest is the stub reset payload.
type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// POST /api/v1/auth/forgot-password
// Stub: always answers 202 without revealing whether the email exists.
// The mail flow is not implemented.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"message": "If the address is registered, reset instructions will be sent.",
	})
}

// GetAccount godoc
// GET /api/v1/accounts/:id
// Public profile fetch; the credential hash is never serialized.
func (h *AuthHandler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"account": account})
}
