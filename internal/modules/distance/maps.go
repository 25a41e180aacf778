// README: Google Maps adapter for route distance lookups.
package distance

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"campusgo/internal/types"
)

// RouteAPI is the slice of the routing provider the distance service needs.
// Tests substitute a stub; production uses the Google Maps client.
type RouteAPI interface {
	RouteMeters(ctx context.Context, from, to types.Point, mode maps.Mode) (float64, error)
}

type googleRoutes struct {
	client *maps.Client
}

// NewGoogleRoutes creates a RouteAPI backed by the Distance Matrix API.
func NewGoogleRoutes(apiKey string) (RouteAPI, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &googleRoutes{client: client}, nil
}

func (g *googleRoutes) RouteMeters(ctx context.Context, from, to types.Point, mode maps.Mode) (float64, error) {
	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{from.Key()},
		Destinations: []string{to.Key()},
		Mode:         mode,
		Language:     "zh-TW",
	})
	if err != nil {
		return 0, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("distance matrix: empty response")
	}
	elem := resp.Rows[0].Elements[0]
	if elem.Status != "OK" {
		return 0, fmt.Errorf("distance matrix: element status %s", elem.Status)
	}
	return float64(elem.Distance.Meters), nil
}
