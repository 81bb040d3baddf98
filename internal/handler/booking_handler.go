package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/middleware"
	"github.com/stepwise/stepwise-backend/internal/repository"
	"github.com/stepwise/stepwise-backend/internal/response"
	"github.com/stepwise/stepwise-backend/internal/service"
)

// BookingHandler handles the booking lifecycle endpoints.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Book godoc
// POST /api/v1/classes/:id/book
// Claims a spot atomically. A full class answers 409 CLASS_FULL and an
// existing live booking for the same class answers 409 ALREADY_BOOKED.
func (h *BookingHandler) Book(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	booking, err := h.bookingService.Book(c.Request.Context(), claims.AccountID, classID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrClassFull):
			response.Fail(c, http.StatusConflict, response.ErrClassFull)
		case errors.Is(err, repository.ErrAlreadyBooked):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyBooked)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": booking})
}

// ListMine godoc
// GET /api/v1/bookings
// Lists the caller's bookings with the class summary attached.
func (h *BookingHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookings, err := h.bookingService.ListByAccount(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// Confirm godoc
// POST /api/v1/bookings/:id/confirm
// Marks a pending booking paid and confirmed. Only the owner may confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	booking, err := h.bookingService.Confirm(c.Request.Context(), claims.AccountID, bookingID)
	if err != nil {
		h.failBookingMutation(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// Cancel godoc
// POST /api/v1/bookings/:id/cancel
// Cancels a booking and releases its spot. Owners and admins may cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	booking, err := h.bookingService.Cancel(c.Request.Context(), claims.AccountID, claims.Role, bookingID)
	if err != nil {
		h.failBookingMutation(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

func (h *BookingHandler) failBookingMutation(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotBookingOwner)
	case errors.Is(err, repository.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
