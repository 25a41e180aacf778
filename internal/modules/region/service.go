// README: Region service maps coordinates to delivery zones and rate multipliers.
package region

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/types"
)

// Service resolves coordinates against the loaded region set. Regions are
// read once at startup; per-coordinate results go through the Redis cache.
type Service struct {
	regions []Region
	cache   *Cache
	logger  *zap.Logger
}

func NewService(regions []Region, cache *Cache, logger *zap.Logger) *Service {
	return &Service{regions: regions, cache: cache, logger: logger}
}

// Multiplier returns the rate multiplier for a pickup/delivery pair: the
// average of both endpoint multipliers, and whether the pair crosses a
// region boundary. A coordinate outside every region pays the neutral 1.0.
func (s *Service) Multiplier(ctx context.Context, pickup, delivery types.Point) (decimal.Decimal, bool, error) {
	pickupName, pickupRate := s.lookup(ctx, pickup)
	deliveryName, deliveryRate := s.lookup(ctx, delivery)

	finalRate := pickupRate.Add(deliveryRate).Div(decimal.NewFromInt(2))
	crossRegion := pickupName != deliveryName
	return finalRate, crossRegion, nil
}

func (s *Service) lookup(ctx context.Context, p types.Point) (string, decimal.Decimal) {
	if name, mult, ok := s.cache.Get(ctx, p); ok {
		return name, mult
	}

	name, mult := "", decimal.NewFromInt(1)
	for _, r := range s.regions {
		if r.Contains(p) {
			name, mult = r.Name, r.Multiplier
			break
		}
	}
	s.cache.Set(ctx, p, name, mult)
	return name, mult
}
