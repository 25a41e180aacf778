// README: Delivery region definitions and point-in-polygon test.
package region

import (
	"github.com/shopspring/decimal"

	"campusgo/internal/types"
)

// Region is a named geofenced delivery zone with a rate multiplier.
type Region struct {
	Name       string
	Multiplier decimal.Decimal
	Polygon    []types.Point
}

// Contains reports whether the point falls inside the region polygon,
// using an even-odd ray cast. Vertices are assumed to form a closed ring
// without the first vertex repeated.
func (r Region) Contains(p types.Point) bool {
	n := len(r.Polygon)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := r.Polygon[i], r.Polygon[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) &&
			p.Lng < (b.Lng-a.Lng)*(p.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lng {
			inside = !inside
		}
		j = i
	}
	return inside
}
