// README: Distance service with walking -> e-bike -> straight-line fallback chain.
package distance

import (
	"context"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"campusgo/internal/types"
)

// Service resolves the travel distance between two campus coordinates.
// Lookup order: cache, walking route, bicycling route (agents ride e-bikes
// when the walking network has no path), straight-line estimate. The chain
// ends in pure math, so a distance is always produced.
type Service struct {
	api    RouteAPI
	cache  *Store
	logger *zap.Logger
}

func NewService(api RouteAPI, cache *Store, logger *zap.Logger) *Service {
	return &Service{api: api, cache: cache, logger: logger}
}

// WalkingMeters returns the travel distance in metres from pickup to
// delivery. The error return exists only for context cancellation; routing
// failures degrade through the fallback chain instead.
func (s *Service) WalkingMeters(ctx context.Context, from, to types.Point) (float64, error) {
	if meters, ok := s.cache.Get(ctx, from, to); ok {
		return meters, nil
	}

	for _, mode := range []maps.Mode{maps.TravelModeWalking, maps.TravelModeBicycling} {
		if s.api == nil {
			break
		}
		meters, err := s.api.RouteMeters(ctx, from, to, mode)
		if err == nil {
			s.cache.Set(ctx, from, to, meters)
			return meters, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		s.logger.Warn("route lookup failed, trying next mode",
			zap.String("mode", string(mode)), zap.Error(err))
	}

	meters := haversineMeters(from, to)
	s.logger.Warn("falling back to straight-line distance",
		zap.String("from", from.Key()), zap.String("to", to.Key()),
		zap.Float64("meters", meters))
	return meters, nil
}
