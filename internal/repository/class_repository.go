package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stepwise/stepwise-backend/internal/model"
)

const classColumns = `id, title, description, instructor, price_cents, duration_minutes,
	scheduled_at, max_spots, booked_spots, category, level, created_at, updated_at`

// ClassRepository handles class offering data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.PriceCents,
		&c.DurationMinutes, &c.ScheduledAt, &c.MaxSpots, &c.BookedSpots,
		&c.Category, &c.Level, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// List retrieves classes ordered by schedule, with pagination and optional
// category/level filters. Empty filter strings match everything.
func (r *ClassRepository) List(ctx context.Context, category, level string, limit, offset int) ([]model.Class, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if category != "" {
		args = append(args, category)
		where += ` AND category = $` + strconv.Itoa(len(args))
	}
	if level != "" {
		args = append(args, level)
		where += ` AND level = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classes`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + classColumns + ` FROM classes` + where +
		` ORDER BY scheduled_at LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.PriceCents,
			&c.DurationMinutes, &c.ScheduledAt, &c.MaxSpots, &c.BookedSpots,
			&c.Category, &c.Level, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		classes = append(classes, c)
	}
	return classes, total, rows.Err()
}

// Create inserts a new class offering with booked_spots starting at zero.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (title, description, instructor, price_cents, duration_minutes,
		                      scheduled_at, max_spots, category, level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, booked_spots, created_at, updated_at`,
		c.Title, c.Description, c.Instructor, c.PriceCents, c.DurationMinutes,
		c.ScheduledAt, c.MaxSpots, c.Category, c.Level,
	).Scan(&c.ID, &c.BookedSpots, &c.CreatedAt, &c.UpdatedAt)
}

// Update modifies a class offering. The WHERE clause refuses to lower
// max_spots below the current booked_spots, keeping the capacity invariant;
// ErrCapacityBelowBooked is reported in that case.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET title = $1, description = $2, instructor = $3, price_cents = $4,
		     duration_minutes = $5, scheduled_at = $6, max_spots = $7,
		     category = $8, level = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10 AND booked_spots <= $7`,
		c.Title, c.Description, c.Instructor, c.PriceCents, c.DurationMinutes,
		c.ScheduledAt, c.MaxSpots, c.Category, c.Level, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, c.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrCapacityBelowBooked
	}
	return nil
}

// Delete removes a class. Cancelled bookings are purged in the same
// transaction so only live bookings block the delete; those reference
// classes with RESTRICT and report ErrDependencyExists.
func (r *ClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM bookings WHERE class_id = $1 AND status = 'cancelled'`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
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
	return tx.Commit(ctx)
}
