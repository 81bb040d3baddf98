package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
	"github.com/stepwise/stepwise-backend/internal/response"
	"github.com/stepwise/stepwise-backend/internal/service"
	"github.com/stepwise/stepwise-backend/internal/validator"
)

// ClassHandler handles the class catalog endpoints.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// List godoc
// GET /api/v1/classes?category=&level=&page=&per_page=
func (h *ClassHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	category := c.Query("category")
	level := c.Query("level")

	classes, total, err := h.classService.List(c.Request.Context(), category, level, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"classes": classes}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// Get godoc
// GET /api/v1/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"class":      class,
		"spots_left": class.SpotsLeft(),
	})
}

// Create godoc
// POST /api/v1/classes (admin)
func (h *ClassHandler) Create(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := &model.Class{
		Title:           req.Title,
		Description:     req.Description,
		Instructor:      req.Instructor,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		ScheduledAt:     req.ScheduledAt,
		MaxSpots:        req.MaxSpots,
		Category:        req.Category,
		Level:           req.Level,
	}

	if err := h.classService.Create(c.Request.Context(), class); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// Update godoc
// PUT /api/v1/classes/:id (admin)
// Partial update: absent fields keep their current value. Shrinking
// max_spots below booked_spots is rejected.
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	applyClassUpdate(class, &req)

	if err := h.classService.Update(c.Request.Context(), class); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrCapacityBelowBooked):
			response.Fail(c, http.StatusConflict, response.ErrCapacityBelowUse)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

func applyClassUpdate(class *model.Class, req *model.UpdateClassRequest) {
	if req.Title != "" {
		class.Title = req.Title
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.Instructor != "" {
		class.Instructor = req.Instructor
	}
	if req.PriceCents != nil {
		class.PriceCents = *req.PriceCents
	}
	if req.DurationMinutes != 0 {
		class.DurationMinutes = req.DurationMinutes
	}
	if req.ScheduledAt != nil {
		class.ScheduledAt = *req.ScheduledAt
	}
	if req.MaxSpots != 0 {
		class.MaxSpots = req.MaxSpots
	}
	if req.Category != "" {
		class.Category = req.Category
	}
	if req.Level != "" {
		class.Level = req.Level
	}
}

// Delete godoc
// DELETE /api/v1/classes/:id (admin)
// Classes with live bookings cannot be removed.
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDependencyExists):
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
