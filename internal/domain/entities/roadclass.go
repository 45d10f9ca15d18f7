// Package entities defines the core domain models for the routing system.
// These structs represent the business concepts (Way, Node, Edge, Graph) and
// live in the innermost layer of the architecture — they have no dependencies
// on HTTP, the upstream road-data provider, or the cache.
//
// Go Learning Note — "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level. This is how Go provides encapsulation
// at the package level — it prevents external code from depending on your
// internal implementation details.
package entities

// RoadClass is a typed string enum for the OSM highway tag values this
// system understands.
//
// Go Learning Note — Type Aliases for Enums:
// Go doesn't have a native enum keyword. The idiomatic pattern is to define a
// named type (usually based on string or int) and then declare constants of
// that type. String-based enums are preferred when the value will be
// serialized to JSON or came from an external tag, because they're
// human-readable and round-trip cleanly.
type RoadClass string

const (
	RoadMotorway     RoadClass = "motorway"
	RoadTrunk        RoadClass = "trunk"
	RoadPrimary      RoadClass = "primary"
	RoadSecondary    RoadClass = "secondary"
	RoadTertiary     RoadClass = "tertiary"
	RoadResidential  RoadClass = "residential"
	RoadUnclassified RoadClass = "unclassified"
	RoadDefault      RoadClass = "default"
)

// roadClassProfile bundles the weighting and speed assumption for a class.
type roadClassProfile struct {
	weightMultiplier float64
	speedKmh         float64
}

var roadClassProfiles = map[RoadClass]roadClassProfile{
	RoadMotorway:     {weightMultiplier: 1.0, speedKmh: 90},
	RoadTrunk:        {weightMultiplier: 1.2, speedKmh: 70},
	RoadPrimary:      {weightMultiplier: 1.5, speedKmh: 60},
	RoadSecondary:    {weightMultiplier: 2.0, speedKmh: 50},
	RoadTertiary:     {weightMultiplier: 2.5, speedKmh: 40},
	RoadResidential:  {weightMultiplier: 3.0, speedKmh: 30},
	RoadUnclassified: {weightMultiplier: 3.5, speedKmh: 25},
	RoadDefault:      {weightMultiplier: 2.0, speedKmh: 40},
}

// profile looks up r's weighting/speed entry, falling back to RoadDefault
// for any tag value this system doesn't recognize.
func (r RoadClass) profile() roadClassProfile {
	if p, ok := roadClassProfiles[r]; ok {
		return p
	}
	return roadClassProfiles[RoadDefault]
}

// WeightMultiplier biases the shortest-path search toward faster road
// classes: distance * WeightMultiplier() is the edge weight Dijkstra
// minimizes.
func (r RoadClass) WeightMultiplier() float64 {
	return r.profile().weightMultiplier
}

// SpeedKmh is the assumed travel speed used to convert a path's distance
// into a duration estimate.
func (r RoadClass) SpeedKmh() float64 {
	return r.profile().speedKmh
}
