package entities

import "osmroute/internal/geo"

// Way is a raw road polyline as returned by the upstream road-data
// provider: an ordered sequence of coordinates tagged with a road class and
// an optional display name. Ways with fewer than two points carry no
// routable segment and are discarded by both the fetcher and the builder.
type Way struct {
	ID        int64
	Geometry  []geo.Coordinate
	RoadClass RoadClass
	Name      string
}
