// README: Region store backed by PostgreSQL with a Redis lookup cache.
package region

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadRegions reads every delivery region. Polygons are stored as a JSON
// array of [lat, lng] pairs.
func (s *Store) LoadRegions(ctx context.Context) ([]Region, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, multiplier, polygon
		FROM delivery_regions
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query delivery_regions: %w", err)
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var name string
		var mult decimal.Decimal
		var polygonJSON []byte
		if err := rows.Scan(&name, &mult, &polygonJSON); err != nil {
			return nil, fmt.Errorf("scan delivery_regions: %w", err)
		}
		var pairs [][2]float64
		if err := json.Unmarshal(polygonJSON, &pairs); err != nil {
			return nil, fmt.Errorf("region %s polygon: %w", name, err)
		}
		polygon := make([]types.Point, len(pairs))
		for i, pair := range pairs {
			polygon[i] = types.Point{Lat: pair[0], Lng: pair[1]}
		}
		regions = append(regions, Region{Name: name, Multiplier: mult, Polygon: polygon})
	}
	return regions, rows.Err()
}

// lookupTTL bounds staleness after region edits in the admin console.
const lookupTTL = time.Hour

// Cache memoizes per-coordinate region resolutions in Redis.
type Cache struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewCache(rdb *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{redis: rdb, logger: logger}
}

type cachedLookup struct {
	Name       string `json:"name"`
	Multiplier string `json:"multiplier"`
}

func lookupKey(p types.Point) string {
	return "region:" + p.Key()
}

func (c *Cache) Get(ctx context.Context, p types.Point) (string, decimal.Decimal, bool) {
	if c == nil || c.redis == nil {
		return "", decimal.Zero, false
	}
	val, err := c.redis.Get(ctx, lookupKey(p)).Result()
	if err == redis.Nil {
		return "", decimal.Zero, false
	}
	if err != nil {
		c.logger.Warn("region cache read failed", zap.Error(err))
		return "", decimal.Zero, false
	}
	var entry cachedLookup
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return "", decimal.Zero, false
	}
	mult, err := decimal.NewFromString(entry.Multiplier)
	if err != nil {
		return "", decimal.Zero, false
	}
	return entry.Name, mult, true
}

func (c *Cache) Set(ctx context.Context, p types.Point, name string, mult decimal.Decimal) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(cachedLookup{Name: name, Multiplier: mult.String()})
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, lookupKey(p), data, lookupTTL).Err(); err != nil {
		c.logger.Warn("region cache write failed", zap.Error(err))
	}
}
