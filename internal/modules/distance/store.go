// README: Distance cache backed by Redis.
package distance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campusgo/internal/types"
)

// Routes between fixed campus landmarks do not change; a day of caching
// keeps the Maps bill flat without staleness concerns.
const cacheTTL = 24 * time.Hour

type Store struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{redis: rdb, logger: logger}
}

func cacheKey(from, to types.Point) string {
	return fmt.Sprintf("distance:%s:%s", from.Key(), to.Key())
}

// Get returns the cached distance in metres, reporting a miss when the key
// is absent or the store is unavailable. Cache trouble is never an error
// for the caller; it just forces a provider lookup.
func (s *Store) Get(ctx context.Context, from, to types.Point) (float64, bool) {
	if s == nil || s.redis == nil {
		return 0, false
	}
	val, err := s.redis.Get(ctx, cacheKey(from, to)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		s.logger.Warn("distance cache read failed", zap.Error(err))
		return 0, false
	}
	meters, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return meters, true
}

func (s *Store) Set(ctx context.Context, from, to types.Point, meters float64) {
	if s == nil || s.redis == nil {
		return
	}
	val := strconv.FormatFloat(meters, 'f', 1, 64)
	if err := s.redis.Set(ctx, cacheKey(from, to), val, cacheTTL).Err(); err != nil {
		s.logger.Warn("distance cache write failed", zap.Error(err))
	}
}
