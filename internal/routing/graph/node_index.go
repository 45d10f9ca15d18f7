package graph

import (
	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
)

// nodeIndexPrecision is the geohash precision used to bucket nodes during
// ingestion. Precision 10 cells are ~1.2 m east-west by ~0.6 m north-south at
// the equator — sized to IntersectionToleranceKm so that a node's own cell plus its 8 neighbors
// usually cover the tolerance radius. Cell width shrinks by cos(lat) away
// from the equator, so findWithin backs this with a linear scan fallback
// rather than trusting the geohash scan alone at all latitudes.
const nodeIndexPrecision = 10

// nodeIndex buckets node coordinates by geohash cell so find-or-create can
// check a handful of nearby candidates instead of scanning every node
// ingested so far. It is a geohash-cell + 3x3-neighbor-scan built on
// geo.Encode and geo.AllNeighbors, used to find the existing graph node a
// coordinate snaps to.
type nodeIndex struct {
	cells map[string][]entities.NodeID
}

func newNodeIndex() *nodeIndex {
	return &nodeIndex{cells: make(map[string][]entities.NodeID)}
}

func (idx *nodeIndex) add(id entities.NodeID, c geo.Coordinate) {
	h := geo.Encode(c.Lat, c.Lng, nodeIndexPrecision)
	idx.cells[h] = append(idx.cells[h], id)
}

// findWithin returns the first indexed node within toleranceKm of c,
// scanning c's geohash cell and its 8 neighbors. Returns ok=false if no
// candidate in range is found — the caller then allocates a new node.
//
// A geohash cell's physical width is only ~1.2 m (at nodeIndexPrecision) at
// the equator; its east-west extent shrinks by cos(lat) away from it, so at
// high latitudes the 3x3-cell scan can undershoot toleranceKm and miss a
// node that's genuinely within range. When the geohash scan finds nothing,
// fall back to a linear scan of every indexed node before reporting a miss,
// so correctness doesn't degrade with latitude. The fallback runs on every
// miss, including a genuinely new coordinate, so creating a node costs a scan
// of all indexed nodes; only the hit path stays limited to the 3x3 cells.
func (idx *nodeIndex) findWithin(g *entities.Graph, c geo.Coordinate, toleranceKm float64) (entities.NodeID, bool) {
	h := geo.Encode(c.Lat, c.Lng, nodeIndexPrecision)
	for _, cell := range geo.AllNeighbors(h) {
		for _, id := range idx.cells[cell] {
			node, ok := g.Nodes[id]
			if !ok {
				continue
			}
			if geo.DistanceKm(node.Coord, c) <= toleranceKm {
				return id, true
			}
		}
	}
	return idx.scanAll(g, c, toleranceKm)
}

// scanAll linearly checks every node this index has ever seen. Only reached
// once the geohash scan above comes up empty, as a correctness safety net
// against the cell-width-shrinkage gap described there.
func (idx *nodeIndex) scanAll(g *entities.Graph, c geo.Coordinate, toleranceKm float64) (entities.NodeID, bool) {
	for _, ids := range idx.cells {
		for _, id := range ids {
			node, ok := g.Nodes[id]
			if !ok {
				continue
			}
			if geo.DistanceKm(node.Coord, c) <= toleranceKm {
				return id, true
			}
		}
	}
	var zero entities.NodeID
	return zero, false
}
