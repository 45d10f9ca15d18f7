package graph

import (
	"testing"

	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
)

// TestNodeIndex_FindsWithinToleranceAtHighLatitude exercises the linear
// scanAll fallback: at 70N, the tolerance-radius target and the indexed
// node can land in geohash cells the 3x3-neighbor scan never visits, since
// a cell's east-west width there is a fraction of its equatorial size.
// findWithin must still find the node via the fallback.
func TestNodeIndex_FindsWithinToleranceAtHighLatitude(t *testing.T) {
	idx := newNodeIndex()
	g := entities.NewGraph()

	existing := geo.Coordinate{Lat: 70, Lng: 24}
	g.Nodes[0] = &entities.Node{ID: 0, Coord: existing}
	idx.add(0, existing)

	// About 95 centimeters east, within a 1m tolerance, but more than two
	// precision-10 cell widths (~1.07e-5 degrees each) away in longitude,
	// so outside the 3x3 geohash scan.
	query := geo.Coordinate{Lat: 70, Lng: 24.000025}

	id, ok := idx.findWithin(g, query, 0.001)
	if !ok {
		t.Fatalf("findWithin() ok = false, want true (should fall back to a linear scan)")
	}
	if id != 0 {
		t.Errorf("findWithin() = %d, want 0", id)
	}
}

func TestNodeIndex_FindWithinReportsMissBeyondTolerance(t *testing.T) {
	idx := newNodeIndex()
	g := entities.NewGraph()

	existing := geo.Coordinate{Lat: 0, Lng: 0}
	g.Nodes[0] = &entities.Node{ID: 0, Coord: existing}
	idx.add(0, existing)

	far := geo.Coordinate{Lat: 1, Lng: 1}
	if _, ok := idx.findWithin(g, far, 0.001); ok {
		t.Error("findWithin() ok = true, want false for a point far outside tolerance")
	}
}
