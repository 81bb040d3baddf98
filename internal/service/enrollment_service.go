package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
)

// ErrLessonOutOfRange is returned when a lesson position exceeds the
// course's lesson count.
var ErrLessonOutOfRange = errors.New("lesson position exceeds course length")

// EnrollmentStore is the persistence surface EnrollmentService needs.
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	AdvanceProgress(ctx context.Context, id uuid.UUID, position int) (*model.Enrollment, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.EnrollmentWithProgress, error)
}

// EnrollmentService handles course enrollment and forward-only lesson
// progress.
type EnrollmentService struct {
	store   EnrollmentStore
	courses CourseStore
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(store EnrollmentStore, courses CourseStore) *EnrollmentService {
	return &EnrollmentService{store: store, courses: courses}
}

// Enroll creates an enrollment for the account in the course. The store
// reports repository.ErrNotFound for a missing course and
// repository.ErrDuplicate when already enrolled.
func (s *EnrollmentService) Enroll(ctx context.Context, accountID, courseID uuid.UUID) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{
		AccountID: accountID,
		CourseID:  courseID,
	}
	if err := s.store.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CompleteLesson records that the caller finished the lesson at position.
// Progress only moves forward; completing the final lesson marks the
// enrollment completed. Positions beyond the course report
// ErrLessonOutOfRange.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, accountID, enrollmentID uuid.UUID, position int) (*model.Enrollment, error) {
	enrollment, err := s.store.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.AccountID != accountID {
		return nil, ErrNotOwner
	}

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	if position > course.LessonCount {
		return nil, ErrLessonOutOfRange
	}
	if position <= enrollment.LastLessonPosition {
		return nil, repository.ErrInvalidTransition
	}

	return s.store.AdvanceProgress(ctx, enrollmentID, position)
}

// ListByAccount retrieves the account's enrollments with progress.
func (s *EnrollmentService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.EnrollmentWithProgress, error) {
	return s.store.ListByAccount(ctx, accountID)
}
