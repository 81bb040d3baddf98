package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stepwise/stepwise-backend/internal/model"
)

// EnrollmentRepository handles enrollment and progress data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create enrolls an account in a course. Returns ErrDuplicate when the
// pair already exists and ErrNotFound when the course is missing (FK).
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (account_id, course_id)
		 VALUES ($1, $2)
		 RETURNING id, last_lesson_position, created_at, updated_at`,
		e.AccountID, e.CourseID,
	).Scan(&e.ID, &e.LastLessonPosition, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicate
			case "23503":
				return ErrNotFound
			}
		}
		return err
	}
	return nil
}

// GetByID retrieves an enrollment.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, account_id, course_id, last_lesson_position, completed_at, created_at, updated_at
		 FROM enrollments WHERE id = $1`, id,
	).Scan(&e.ID, &e.AccountID, &e.CourseID, &e.LastLessonPosition, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// AdvanceProgress moves last_lesson_position forward to position. The
// guarded WHERE rejects backward or repeated completions, and completed_at
// is stamped when the final lesson is reached. ErrInvalidTransition covers
// the backward case.
func (r *EnrollmentRepository) AdvanceProgress(ctx context.Context, id uuid.UUID, position int) (*model.Enrollment, error) {
	e := &model.Enrollment{ID: id}
	err := r.pool.QueryRow(ctx,
		`UPDATE enrollments e
		 SET last_lesson_position = $2,
		     completed_at = CASE
		         WHEN $2 >= (SELECT lesson_count FROM courses WHERE id = e.course_id)
		         THEN CURRENT_TIMESTAMP ELSE completed_at END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE e.id = $1 AND e.last_lesson_position < $2
		 RETURNING account_id, course_id, last_lesson_position, completed_at, created_at, updated_at`,
		id, position,
	).Scan(&e.AccountID, &e.CourseID, &e.LastLessonPosition, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM enrollments WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidTransition
	}
	return e, nil
}

// ListByAccount retrieves an account's enrollments with course info and a
// derived progress percentage.
func (r *EnrollmentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.EnrollmentWithProgress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.account_id, e.course_id, e.last_lesson_position, e.completed_at,
		        e.created_at, e.updated_at, c.title, c.lesson_count
		 FROM enrollments e
		 JOIN courses c ON e.course_id = c.id
		 WHERE e.account_id = $1
		 ORDER BY e.created_at DESC`, accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.EnrollmentWithProgress
	for rows.Next() {
		var e model.EnrollmentWithProgress
		if err := rows.Scan(&e.ID, &e.AccountID, &e.CourseID, &e.LastLessonPosition, &e.CompletedAt,
			&e.CreatedAt, &e.UpdatedAt, &e.CourseTitle, &e.LessonCount); err != nil {
			return nil, err
		}
		if e.LessonCount > 0 {
			e.ProgressPercent = float64(e.LastLessonPosition) / float64(e.LessonCount) * 100
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
