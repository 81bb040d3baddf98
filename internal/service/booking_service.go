package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
	ws "github.com/stepwise/stepwise-backend/internal/websocket"
)

// ErrNotOwner is returned when an account operates on a booking it does
// not hold.
var ErrNotOwner = errors.New("booking belongs to another account")

// BookingStore is the persistence surface BookingService needs. The Book
// and Cancel implementations must mutate booked_spots and the booking row
// as one atomic unit.
type BookingStore interface {
	Book(ctx context.Context, accountID, classID uuid.UUID) (*model.Booking, *repository.Occupancy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.BookingWithClass, error)
	Confirm(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, *repository.Occupancy, error)
	Expire(ctx context.Context, id uuid.UUID) (*model.Booking, *repository.Occupancy, error)
	ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]uuid.UUID, error)
}

// BookingService handles the capacity-guarded booking flow. All spot
// accounting lives in the store's guarded updates; this layer adds
// ownership rules, the status transition table, and event fan-out.
type BookingService struct {
	store     BookingStore
	publisher OccupancyPublisher
	log       zerolog.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(store BookingStore, publisher OccupancyPublisher, log zerolog.Logger) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		log:       log.With().Str("component", "booking_service").Logger(),
	}
}

// Book claims a spot on the class for the account. The returned booking is
// pending/unpaid with the class price snapshotted. Store errors pass
// through: repository.ErrNotFound, ErrClassFull, ErrAlreadyBooked.
func (s *BookingService) Book(ctx context.Context, accountID, classID uuid.UUID) (*model.Booking, error) {
	booking, occ, err := s.store.Book(ctx, accountID, classID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, ws.EventBooked, booking, occ)
	s.log.Info().
		Str("booking_id", booking.ID.String()).
		Str("class_id", classID.String()).
		Int("booked_spots", occ.BookedSpots).
		Int("max_spots", occ.MaxSpots).
		Msg("Spot booked")
	return booking, nil
}

// Confirm marks the caller's pending booking as confirmed and paid.
func (s *BookingService) Confirm(ctx context.Context, accountID, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.AccountID != accountID {
		return nil, ErrNotOwner
	}
	return s.store.Confirm(ctx, bookingID)
}

// Cancel cancels a booking and releases its spot. Admins may cancel any
// booking; students only their own.
func (s *BookingService) Cancel(ctx context.Context, accountID uuid.UUID, role model.Role, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && booking.AccountID != accountID {
		return nil, ErrNotOwner
	}

	cancelled, occ, err := s.store.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, ws.EventCancelled, cancelled, occ)
	return cancelled, nil
}

// ListByAccount retrieves the account's bookings with class info.
func (s *BookingService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.BookingWithClass, error) {
	return s.store.ListByAccount(ctx, accountID)
}

// CancelExpired cancels pending unpaid bookings older than the hold
// window, releasing their spots. Returns how many were cancelled. Called
// by the expiry worker.
func (s *BookingService) CancelExpired(ctx context.Context, holdWindow time.Duration, limit int) (int, error) {
	ids, err := s.store.ListStalePending(ctx, holdWindow, limit)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range ids {
		booking, occ, err := s.store.Expire(ctx, id)
		if err != nil {
			// A booking that got paid or cancelled after listing; skip it.
			if errors.Is(err, repository.ErrInvalidTransition) || errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return cancelled, err
		}
		s.publisher.Publish(ctx, ws.EventCancelled, booking, occ)
		cancelled++
	}
	return cancelled, nil
}
