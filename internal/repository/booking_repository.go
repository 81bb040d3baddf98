package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stepwise/stepwise-backend/internal/model"
)

// Occupancy reports a class's spot counters after a booking mutation.
type Occupancy struct {
	ClassID     uuid.UUID `json:"class_id"`
	BookedSpots int       `json:"booked_spots"`
	MaxSpots    int       `json:"max_spots"`
}

// BookingRepository handles booking data access. The capacity invariant
// (booked_spots never exceeds max_spots) is enforced here with a guarded
// conditional update inside a single transaction, never with a
// read-then-write pair.
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Book atomically claims one spot on the class and inserts the booking.
// The increment applies only while booked_spots < max_spots, so two
// concurrent attempts on the last spot cannot both succeed. Returns
// ErrNotFound for a missing class, ErrClassFull at capacity, and
// ErrAlreadyBooked when the account already holds a non-cancelled booking
// (partial unique index, rolls back the claimed spot).
func (r *BookingRepository) Book(ctx context.Context, accountID, classID uuid.UUID) (*model.Booking, *Occupancy, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	occ := &Occupancy{ClassID: classID}
	var priceCents int
	err = tx.QueryRow(ctx,
		`UPDATE classes
		 SET booked_spots = booked_spots + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND booked_spots < max_spots
		 RETURNING price_cents, booked_spots, max_spots`,
		classID,
	).Scan(&priceCents, &occ.BookedSpots, &occ.MaxSpots)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}
		// Guarded update matched nothing: class missing or full.
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, classID).Scan(&exists); err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, ErrNotFound
		}
		return nil, nil, ErrClassFull
	}

	b := &model.Booking{
		AccountID:     accountID,
		ClassID:       classID,
		Status:        model.BookingStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
		PriceCents:    priceCents,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (account_id, class_id, status, payment_status, price_cents)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		b.AccountID, b.ClassID, b.Status, b.PaymentStatus, b.PriceCents,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, nil, ErrAlreadyBooked
		}
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return b, occ, nil
}

// GetByID retrieves a booking.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b := &model.Booking{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, account_id, class_id, status, payment_status, price_cents, created_at, updated_at
		 FROM bookings WHERE id = $1`, id,
	).Scan(&b.ID, &b.AccountID, &b.ClassID, &b.Status, &b.PaymentStatus, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByAccount retrieves an account's bookings newest first, joined with
// class display fields.
func (r *BookingRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.BookingWithClass, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.account_id, b.class_id, b.status, b.payment_status, b.price_cents,
		        b.created_at, b.updated_at, c.title, c.instructor, c.scheduled_at
		 FROM bookings b
		 JOIN classes c ON b.class_id = c.id
		 WHERE b.account_id = $1
		 ORDER BY b.created_at DESC`, accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.BookingWithClass
	for rows.Next() {
		var b model.BookingWithClass
		if err := rows.Scan(&b.ID, &b.AccountID, &b.ClassID, &b.Status, &b.PaymentStatus,
			&b.PriceCents, &b.CreatedAt, &b.UpdatedAt, &b.ClassTitle, &b.Instructor, &b.ScheduledAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Confirm moves a pending booking to confirmed + paid. The guarded WHERE
// makes any other starting status report ErrInvalidTransition.
func (r *BookingRepository) Confirm(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b := &model.Booking{ID: id}
	err := r.pool.QueryRow(ctx,
		`UPDATE bookings
		 SET status = $1, payment_status = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 AND status = $4
		 RETURNING account_id, class_id, status, payment_status, price_cents, created_at, updated_at`,
		model.BookingStatusConfirmed, model.PaymentStatusPaid, id, model.BookingStatusPending,
	).Scan(&b.AccountID, &b.ClassID, &b.Status, &b.PaymentStatus, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrInvalidTransition
	}
	return b, nil
}

// Cancel moves a non-cancelled booking to cancelled and releases its spot
// in the same transaction. The decrement is guarded at zero so the class
// invariant holds even if counters were repaired by hand.
func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, *Occupancy, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	b := &model.Booking{ID: id}
	err = tx.QueryRow(ctx,
		`UPDATE bookings
		 SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND status <> $1
		 RETURNING account_id, class_id, status, payment_status, price_cents, created_at, updated_at`,
		model.BookingStatusCancelled, id,
	).Scan(&b.AccountID, &b.ClassID, &b.Status, &b.PaymentStatus, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, ErrNotFound
		}
		return nil, nil, ErrInvalidTransition
	}

	occ := &Occupancy{ClassID: b.ClassID}
	err = tx.QueryRow(ctx,
		`UPDATE classes
		 SET booked_spots = booked_spots - 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND booked_spots > 0
		 RETURNING booked_spots, max_spots`,
		b.ClassID,
	).Scan(&occ.BookedSpots, &occ.MaxSpots)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return b, occ, nil
}

// Expire cancels a booking only while it is still pending and unpaid,
// releasing its spot in the same transaction. A booking that got paid or
// cancelled after being listed as stale reports ErrInvalidTransition
// instead of being clobbered.
func (r *BookingRepository) Expire(ctx context.Context, id uuid.UUID) (*model.Booking, *Occupancy, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	b := &model.Booking{ID: id}
	err = tx.QueryRow(ctx,
		`UPDATE bookings
		 SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND status = $3 AND payment_status = $4
		 RETURNING account_id, class_id, status, payment_status, price_cents, created_at, updated_at`,
		model.BookingStatusCancelled, id, model.BookingStatusPending, model.PaymentStatusUnpaid,
	).Scan(&b.AccountID, &b.ClassID, &b.Status, &b.PaymentStatus, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrInvalidTransition
		}
		return nil, nil, err
	}

	occ := &Occupancy{ClassID: b.ClassID}
	err = tx.QueryRow(ctx,
		`UPDATE classes
		 SET booked_spots = booked_spots - 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND booked_spots > 0
		 RETURNING booked_spots, max_spots`,
		b.ClassID,
	).Scan(&occ.BookedSpots, &occ.MaxSpots)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return b, occ, nil
}

// ListStalePending returns IDs of pending unpaid bookings created before
// the hold window cutoff. The expiry worker cancels them via Expire so the
// spot release stays on the one guarded path.
func (r *BookingRepository) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM bookings
		 WHERE status = $1 AND payment_status = $2 AND created_at < $3
		 ORDER BY created_at
		 LIMIT $4`,
		model.BookingStatusPending, model.PaymentStatusUnpaid, time.Now().Add(-olderThan), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
