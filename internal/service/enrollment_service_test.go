package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
)

type fakeCourseStore struct {
	courses map[uuid.UUID]*model.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[uuid.UUID]*model.Course)}
}

func (f *fakeCourseStore) addCourse(lessonCount int) uuid.UUID {
	id := uuid.New()
	f.courses[id] = &model.Course{ID: id, Title: "Course", LessonCount: lessonCount}
	return id
}

func (f *fakeCourseStore) GetByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) List(context.Context) ([]model.Course, error) { return nil, nil }

func (f *fakeCourseStore) Create(_ context.Context, c *model.Course) error {
	c.ID = uuid.New()
	c.LessonCount = len(c.Lessons)
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCourseStore) Update(_ context.Context, c *model.Course, _ bool) error {
	if _, ok := f.courses[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.courses, id)
	return nil
}

type fakeEnrollmentStore struct {
	courses     *fakeCourseStore
	enrollments map[uuid.UUID]*model.Enrollment
}

func newFakeEnrollmentStore(courses *fakeCourseStore) *fakeEnrollmentStore {
	return &fakeEnrollmentStore{
		courses:     courses,
		enrollments: make(map[uuid.UUID]*model.Enrollment),
	}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *model.Enrollment) error {
	if _, ok := f.courses.courses[e.CourseID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range f.enrollments {
		if existing.AccountID == e.AccountID && existing.CourseID == e.CourseID {
			return repository.ErrDuplicate
		}
	}
	e.ID = uuid.New()
	cp := *e
	f.enrollments[e.ID] = &cp
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentStore) AdvanceProgress(_ context.Context, id uuid.UUID, position int) (*model.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if e.LastLessonPosition >= position {
		return nil, repository.ErrInvalidTransition
	}
	e.LastLessonPosition = position
	if course := f.courses.courses[e.CourseID]; position >= course.LessonCount {
		now := time.Now()
		e.CompletedAt = &now
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentStore) ListByAccount(_ context.Context, accountID uuid.UUID) ([]model.EnrollmentWithProgress, error) {
	var out []model.EnrollmentWithProgress
	for _, e := range f.enrollments {
		if e.AccountID == accountID {
			out = append(out, model.EnrollmentWithProgress{Enrollment: *e})
		}
	}
	return out, nil
}

func newTestEnrollmentService() (*EnrollmentService, *fakeCourseStore) {
	courses := newFakeCourseStore()
	return NewEnrollmentService(newFakeEnrollmentStore(courses), courses), courses
}

func TestEnrollMissingCourseAndDuplicate(t *testing.T) {
	svc, courses := newTestEnrollmentService()
	ctx := context.Background()
	accountID := uuid.New()

	if _, err := svc.Enroll(ctx, accountID, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Enroll in missing course = %v, want ErrNotFound", err)
	}

	courseID := courses.addCourse(3)
	if _, err := svc.Enroll(ctx, accountID, courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := svc.Enroll(ctx, accountID, courseID); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("re-Enroll = %v, want ErrDuplicate", err)
	}
}

func TestCompleteLessonForwardOnly(t *testing.T) {
	svc, courses := newTestEnrollmentService()
	ctx := context.Background()
	accountID := uuid.New()
	courseID := courses.addCourse(3)

	enrollment, err := svc.Enroll(ctx, accountID, courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	updated, err := svc.CompleteLesson(ctx, accountID, enrollment.ID, 2)
	if err != nil {
		t.Fatalf("CompleteLesson(2): %v", err)
	}
	if updated.LastLessonPosition != 2 {
		t.Errorf("LastLessonPosition = %d, want 2", updated.LastLessonPosition)
	}
	if updated.CompletedAt != nil {
		t.Error("CompletedAt stamped before final lesson")
	}

	// Repeating or going backward is refused.
	if _, err := svc.CompleteLesson(ctx, accountID, enrollment.ID, 2); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("repeat CompleteLesson = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.CompleteLesson(ctx, accountID, enrollment.ID, 1); !errors.Is(err, repository.ErrInvalidTransition) {
		t.Errorf("backward CompleteLesson = %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteLessonBounds(t *testing.T) {
	svc, courses := newTestEnrollmentService()
	ctx := context.Background()
	accountID := uuid.New()
	courseID := courses.addCourse(3)

	enrollment, err := svc.Enroll(ctx, accountID, courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	if _, err := svc.CompleteLesson(ctx, accountID, enrollment.ID, 4); !errors.Is(err, ErrLessonOutOfRange) {
		t.Fatalf("CompleteLesson(4) = %v, want ErrLessonOutOfRange", err)
	}
	if _, err := svc.CompleteLesson(ctx, uuid.New(), enrollment.ID, 1); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("CompleteLesson by stranger = %v, want ErrNotOwner", err)
	}
}

func TestCompleteFinalLessonStampsCompletion(t *testing.T) {
	svc, courses := newTestEnrollmentService()
	ctx := context.Background()
	accountID := uuid.New()
	courseID := courses.addCourse(2)

	enrollment, err := svc.Enroll(ctx, accountID, courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	updated, err := svc.CompleteLesson(ctx, accountID, enrollment.ID, 2)
	if err != nil {
		t.Fatalf("CompleteLesson(2): %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped after final lesson")
	}
}
