package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/config"
	"github.com/stepwise/stepwise-backend/internal/model"
)

// ClassStore is the persistence surface ClassService needs.
type ClassStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	List(ctx context.Context, category, level string, limit, offset int) ([]model.Class, int, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// cachedClassList is the Redis payload for one listing page.
type cachedClassList struct {
	Classes []model.Class `json:"classes"`
	Total   int           `json:"total"`
}

// ClassService handles class offering business logic. Listings are cached
// in Redis under a version-stamped key; any mutation bumps the version so
// stale pages simply stop being addressed and expire by TTL.
type ClassService struct {
	store ClassStore
	rdb   *redis.Client
	cfg   *config.Config
	log   zerolog.Logger
}

// NewClassService creates a new ClassService. rdb may be nil, which
// disables the listing cache (used by tests).
func NewClassService(store ClassStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *ClassService {
	return &ClassService{
		store: store,
		rdb:   rdb,
		cfg:   cfg,
		log:   log.With().Str("component", "class_service").Logger(),
	}
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves classes with pagination and optional filters, consulting
// the Redis cache first. Cache failures degrade to the database and are
// logged, never surfaced.
func (s *ClassService) List(ctx context.Context, category, level string, page, perPage int) ([]model.Class, int, error) {
	offset := (page - 1) * perPage

	if s.rdb == nil {
		return s.store.List(ctx, category, level, perPage, offset)
	}

	version, err := s.rdb.Get(ctx, config.CacheKey.ClassListVersionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.log.Debug().Err(err).Msg("class list version lookup failed")
	}

	key := config.CacheKey.ClassListKey(version, page, perPage, category, level)
	if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached cachedClassList
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached.Classes, cached.Total, nil
		}
	}

	classes, total, err := s.store.List(ctx, category, level, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	if raw, err := json.Marshal(cachedClassList{Classes: classes, Total: total}); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.cfg.ClassCacheTTL).Err(); err != nil {
			s.log.Debug().Err(err).Msg("class list cache store failed")
		}
	}
	return classes, total, nil
}

// Create persists a new class offering and invalidates cached listings.
func (s *ClassService) Create(ctx context.Context, class *model.Class) error {
	if err := s.store.Create(ctx, class); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// Update modifies a class offering. The store refuses to lower max_spots
// below booked_spots.
func (s *ClassService) Update(ctx context.Context, class *model.Class) error {
	if err := s.store.Update(ctx, class); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// Delete removes a class offering. Classes with bookings are refused by
// the store's FK mapping.
func (s *ClassService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *ClassService) invalidateListings(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, config.CacheKey.ClassListVersionKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("class list cache invalidation failed")
	}
}
