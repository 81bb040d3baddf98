package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/middleware"
	"github.com/stepwise/stepwise-backend/internal/repository"
	"github.com/stepwise/stepwise-backend/internal/response"
	"github.com/stepwise/stepwise-backend/internal/service"
)

// EnrollmentHandler handles course enrollment and progress endpoints.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll godoc
// POST /api/v1/courses/:id/enroll
// Enrolls the caller in a course. Re-enrolling answers 409.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), claims.AccountID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicate):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// ListMine godoc
// GET /api/v1/enrollments
// Lists the caller's enrollments with derived progress.
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollments, err := h.enrollmentService.ListByAccount(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// CompleteLesson godoc
// POST /api/v1/enrollments/:id/lessons/:position/complete
// Advances progress to the given 1-based lesson position. Progress only
// moves forward; completing at or behind the current position answers 409.
func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.enrollmentService.CompleteLesson(c.Request.Context(), claims.AccountID, enrollmentID, position)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotOwner):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, service.ErrLessonOutOfRange):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		case errors.Is(err, repository.ErrInvalidTransition):
			response.Fail(c, http.StatusConflict, response.ErrProgressBackward)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"enrollment": enrollment})
}
