package geo

// Point pairs an arbitrary identifier with a coordinate, so NearestPoint can
// work over any caller-defined node collection without this package needing
// to know the node type.
type Point[K any] struct {
	ID         K
	Coordinate Coordinate
}

// NearestPoint does a linear scan over points, returning the ID of the one
// closest to target. Ties are broken by first-seen order in the slice.
// Returns ok=false only if points is empty.
func NearestPoint[K any](points []Point[K], target Coordinate) (id K, ok bool) {
	if len(points) == 0 {
		return id, false
	}

	best := points[0]
	bestDist := DistanceKm(best.Coordinate, target)
	for _, p := range points[1:] {
		d := DistanceKm(p.Coordinate, target)
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best.ID, true
}
