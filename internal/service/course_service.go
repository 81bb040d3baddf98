package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
)

// CourseStore is the persistence surface CourseService needs.
type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course, replaceLessons bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseService handles course business logic.
type CourseService struct {
	store CourseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(store CourseStore) *CourseService {
	return &CourseService{store: store}
}

// GetByID retrieves a course with lessons.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.store.List(ctx)
}

// Create persists a course and its lessons.
func (s *CourseService) Create(ctx context.Context, course *model.Course) error {
	return s.store.Create(ctx, course)
}

// Update modifies a course, optionally replacing its lesson list.
func (s *CourseService) Update(ctx context.Context, course *model.Course, replaceLessons bool) error {
	return s.store.Update(ctx, course, replaceLessons)
}

// Delete removes a course. Courses with enrollments are refused by the
// store's FK mapping.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
