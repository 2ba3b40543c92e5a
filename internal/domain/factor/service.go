package factor

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyPrefix = "factor:"
	cacheTTL       = 10 * time.Minute
)

// Service resolves emission factors. Lookup order: database table, built-in
// defaults, constant fallback. Database hits go through an optional Redis
// read-through cache.
type Service struct {
	repo     Repository
	redis    *redis.Client // nil disables caching
	defaults map[string]float64
}

// NewService creates factor service
func NewService(repo Repository, redisClient *redis.Client) *Service {
	return &Service{
		repo:     repo,
		redis:    redisClient,
		defaults: Defaults(),
	}
}

// FactorFor returns the kg CO2e per unit factor for an activity type.
// Unknown types resolve to DefaultFactor; this never returns an error.
func (s *Service) FactorFor(ctx context.Context, activityType string) float64 {
	if cached, ok := s.cacheGet(ctx, activityType); ok {
		return cached
	}

	f, err := s.repo.GetByType(ctx, activityType)
	if err != nil {
		// Degrade to defaults rather than failing the calculation.
		log.Warn().Err(err).Str("activity_type", activityType).Msg("factor lookup failed, using defaults")
	} else if f != nil {
		s.cacheSet(ctx, activityType, f.Factor)
		return f.Factor
	}

	if value, ok := s.defaults[activityType]; ok {
		return value
	}
	return DefaultFactor
}

// List returns all factors stored in the table
func (s *Service) List(ctx context.Context) ([]EmissionFactor, error) {
	return s.repo.List(ctx)
}

// Upsert sets a factor administratively and invalidates its cache entry
func (s *Service) Upsert(ctx context.Context, activityType string, value float64) error {
	if err := s.repo.Upsert(ctx, activityType, value); err != nil {
		return err
	}
	s.cacheDel(ctx, activityType)
	return nil
}

// Seed populates the table with built-in defaults, keeping existing rows
func (s *Service) Seed(ctx context.Context) error {
	return s.repo.SeedMissing(ctx, s.defaults)
}

func (s *Service) cacheGet(ctx context.Context, activityType string) (float64, bool) {
	if s.redis == nil {
		return 0, false
	}
	raw, err := s.redis.Get(ctx, cacheKeyPrefix+activityType).Result()
	if err != nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (s *Service) cacheSet(ctx context.Context, activityType string, value float64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKeyPrefix+activityType, strconv.FormatFloat(value, 'f', -1, 64), cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("activity_type", activityType).Msg("factor cache set failed")
	}
}

func (s *Service) cacheDel(ctx context.Context, activityType string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKeyPrefix+activityType).Err(); err != nil {
		log.Debug().Err(err).Str("activity_type", activityType).Msg("factor cache invalidation failed")
	}
}
