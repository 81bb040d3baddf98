package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/service"
)

// expiryBatchLimit caps how many stale bookings one sweep cancels so a
// backlog cannot hold a long transaction.
const expiryBatchLimit = 100

// ExpiryWorker sweeps pending unpaid bookings whose hold window has
// elapsed, cancelling them and releasing their spots.
type ExpiryWorker struct {
	bookings   *service.BookingService
	holdWindow time.Duration
	interval   time.Duration
	log        zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker sweeping at interval.
func NewExpiryWorker(bookings *service.BookingService, holdWindow, interval time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		bookings:   bookings,
		holdWindow: holdWindow,
		interval:   interval,
		log:        log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().
		Dur("hold_window", w.holdWindow).
		Dur("interval", w.interval).
		Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	cancelled, err := w.bookings.CancelExpired(ctx, w.holdWindow, expiryBatchLimit)
	if err != nil {
		w.log.Error().Err(err).Msg("Expiry sweep failed")
		return
	}
	if cancelled > 0 {
		w.log.Info().Int("cancelled", cancelled).Msg("Expired pending bookings cancelled")
	}
}
