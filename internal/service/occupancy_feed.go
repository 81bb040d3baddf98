package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/config"
	ws "github.com/stepwise/stepwise-backend/internal/websocket"
)

// OccupancyFeed is the subscribe side of the occupancy channel: it
// delivers every occupancy change for one class as it happens. The
// returned channel closes when the subscription ends; stop releases it.
type OccupancyFeed interface {
	Subscribe(ctx context.Context, classID uuid.UUID) (events <-chan ws.OccupancyEvent, stop func())
}

// RedisOccupancyFeed subscribes to the class's Redis PubSub channel and
// decodes what RedisOccupancyPublisher put there.
type RedisOccupancyFeed struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisOccupancyFeed creates a RedisOccupancyFeed.
func NewRedisOccupancyFeed(rdb *redis.Client, log zerolog.Logger) *RedisOccupancyFeed {
	return &RedisOccupancyFeed{
		rdb: rdb,
		log: log.With().Str("component", "occupancy_feed").Logger(),
	}
}

// Subscribe opens a PubSub subscription for the class and pumps decoded
// events until the context ends or stop is called.
func (f *RedisOccupancyFeed) Subscribe(ctx context.Context, classID uuid.UUID) (<-chan ws.OccupancyEvent, func()) {
	sub := f.rdb.Subscribe(ctx, config.CacheKey.ClassOccupancyChannel(classID.String()))
	out := make(chan ws.OccupancyEvent)

	go func() {
		defer close(out)
		for payload := range sub.Channel() {
			var event ws.OccupancyEvent
			if err := json.Unmarshal([]byte(payload.Payload), &event); err != nil {
				f.log.Warn().Err(err).Msg("Malformed occupancy payload")
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
