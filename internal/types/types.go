// README: Shared identifier and coordinate value objects.
package types

import "fmt"

type ID string

type Point struct {
	Lat float64
	Lng float64
}

// Key renders the point as a stable cache-key fragment. Six decimal places
// is ~0.1m resolution, well below delivery accuracy.
func (p Point) Key() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
