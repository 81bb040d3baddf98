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

// CourseRepository handles course and lesson data access. Lessons are
// owned by their course and replaced wholesale on update.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course with its lessons ordered by position.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, category, level, lesson_count, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Level, &c.LessonCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, position, title, video_url, duration_minutes
		 FROM lessons WHERE course_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Position, &l.Title, &l.VideoURL, &l.DurationMinutes); err != nil {
			return nil, err
		}
		c.Lessons = append(c.Lessons, l)
	}
	return c, rows.Err()
}

// List retrieves all courses without their lesson bodies.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, category, level, lesson_count, created_at, updated_at
		 FROM courses ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.Level,
			&c.LessonCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a course and its lessons in one transaction. Lesson
// positions are assigned from slice order, 1-based.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	c.LessonCount = len(c.Lessons)
	err = tx.QueryRow(ctx,
		`INSERT INTO courses (title, description, category, level, lesson_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.Title, c.Description, c.Category, c.Level, c.LessonCount,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertLessons(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update modifies a course; when lessons are provided the old set is
// replaced and lesson_count refreshed.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course, replaceLessons bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if replaceLessons {
		c.LessonCount = len(c.Lessons)
	}
	tag, err := tx.Exec(ctx,
		`UPDATE courses
		 SET title = $1, description = $2, category = $3, level = $4,
		     lesson_count = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		c.Title, c.Description, c.Category, c.Level, c.LessonCount, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if replaceLessons {
		if _, err := tx.Exec(ctx, `DELETE FROM lessons WHERE course_id = $1`, c.ID); err != nil {
			return err
		}
		if err := insertLessons(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Delete removes a course. Enrollments reference courses with RESTRICT.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrDependencyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertLessons(ctx context.Context, tx pgx.Tx, c *model.Course) error {
	for i := range c.Lessons {
		l := &c.Lessons[i]
		l.CourseID = c.ID
		l.Position = i + 1
		if err := tx.QueryRow(ctx,
			`INSERT INTO lessons (course_id, position, title, video_url, duration_minutes)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			l.CourseID, l.Position, l.Title, l.VideoURL, l.DurationMinutes,
		).Scan(&l.ID); err != nil {
			return err
		}
	}
	return nil
}
