package geo

import (
	"fmt"
	"math"
)

// BoundingBox is an axis-aligned lat/lng rectangle: south <= north and
// west <= east.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// NewBoundingBox builds the bounding box enclosing a and b, padded by
// paddingDeg on every side. Pass paddingDeg 0 to get the tight,
// endpoint-only box (used for the cache key, which is quantized separately
// from the padded fetch box).
func NewBoundingBox(a, b Coordinate, paddingDeg float64) BoundingBox {
	south := math.Min(a.Lat, b.Lat) - paddingDeg
	north := math.Max(a.Lat, b.Lat) + paddingDeg
	west := math.Min(a.Lng, b.Lng) - paddingDeg
	east := math.Max(a.Lng, b.Lng) + paddingDeg
	return BoundingBox{South: south, West: west, North: north, East: east}
}

// Quantized rounds south/west down and north/east up to the nearest
// multiple of precisionDeg. Two requests whose boxes quantize to the same
// value share a graph-cache entry even if their raw endpoints differ
// slightly.
func (b BoundingBox) Quantized(precisionDeg float64) BoundingBox {
	return BoundingBox{
		South: math.Floor(b.South/precisionDeg) * precisionDeg,
		West:  math.Floor(b.West/precisionDeg) * precisionDeg,
		North: math.Ceil(b.North/precisionDeg) * precisionDeg,
		East:  math.Ceil(b.East/precisionDeg) * precisionDeg,
	}
}

// Key renders the box as a stable string suitable for use as a cache key.
func (b BoundingBox) Key() string {
	return fmt.Sprintf("%.2f,%.2f,%.2f,%.2f", b.South, b.West, b.North, b.East)
}
