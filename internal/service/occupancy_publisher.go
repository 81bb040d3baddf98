package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/config"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/repository"
	ws "github.com/stepwise/stepwise-backend/internal/websocket"
)

// OccupancyPublisher fans out booking events to live occupancy
// subscribers. Publishing is best-effort: a failure never fails the
// booking that triggered it.
type OccupancyPublisher interface {
	Publish(ctx context.Context, event ws.Event, booking *model.Booking, occ *repository.Occupancy)
}

// RedisOccupancyPublisher publishes occupancy events on the class's Redis
// PubSub channel, consumed by the WebSocket occupancy stream.
type RedisOccupancyPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisOccupancyPublisher creates a RedisOccupancyPublisher.
func NewRedisOccupancyPublisher(rdb *redis.Client, log zerolog.Logger) *RedisOccupancyPublisher {
	return &RedisOccupancyPublisher{
		rdb: rdb,
		log: log.With().Str("component", "occupancy_publisher").Logger(),
	}
}

// Publish marshals and publishes one occupancy event.
func (p *RedisOccupancyPublisher) Publish(ctx context.Context, event ws.Event, booking *model.Booking, occ *repository.Occupancy) {
	payload := ws.OccupancyEvent{
		Event:       event,
		ClassID:     occ.ClassID.String(),
		BookingID:   booking.ID.String(),
		BookedSpots: occ.BookedSpots,
		MaxSpots:    occ.MaxSpots,
		At:          time.Now().UTC(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal occupancy event")
		return
	}

	channel := config.CacheKey.ClassOccupancyChannel(payload.ClassID)
	if err := p.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", channel).Msg("publish occupancy event")
	}
}

// noopOccupancyPublisher drops all events. Used when Redis is absent.
type noopOccupancyPublisher struct{}

func (noopOccupancyPublisher) Publish(context.Context, ws.Event, *model.Booking, *repository.Occupancy) {
}

// NoopOccupancyPublisher returns a publisher that discards events.
func NoopOccupancyPublisher() OccupancyPublisher { return noopOccupancyPublisher{} }
