// Package graph turns raw road-data ways into a routable entities.Graph:
// coincident endpoints across ways are merged into shared intersection
// nodes, and every way segment becomes a pair of directed edges.
package graph

import (
	"sort"

	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
)

// IntersectionToleranceKm is the default merge radius used when callers
// don't supply their own (see BuildWithTolerance). It matches
// config.GraphConfig's default so ad-hoc callers and tests see the same
// behavior as the wired service.
const IntersectionToleranceKm = 0.001

// Build ingests ways into a new graph using the default intersection
// tolerance.
func Build(ways []entities.Way) *entities.Graph {
	return BuildWithTolerance(ways, IntersectionToleranceKm)
}

// BuildWithTolerance ingests ways into a new graph, merging any two
// endpoints closer than toleranceKm into a single node.
//
// The pipeline has three passes:
//  1. Ingestion — walk each way's geometry, find-or-create a node per
//     vertex (snapping to an existing node within toleranceKm via the
//     geohash-bucketed index), and emit a directed edge pair per segment.
//  2. Merge — a second pass over all node pairs within tolerance of each
//     other, unioning them by the lowest-ID node seen so far. This is
//     seed-based and non-transitive: if A merges into B and B would merge
//     into C, C is only folded in if it is within tolerance of the
//     survivor's *original* seed, not transitively through B.
//  3. Dedup — drop self-loop edges and, among duplicate (from, to) pairs,
//     keep only the lowest-ID edge.
func BuildWithTolerance(ways []entities.Way, toleranceKm float64) *entities.Graph {
	g := entities.NewGraph()
	idx := newNodeIndex()

	var order []entities.NodeID
	var nextNodeID entities.NodeID
	var nextEdgeID entities.EdgeID

	findOrCreate := func(c geo.Coordinate) entities.NodeID {
		if id, ok := idx.findWithin(g, c, toleranceKm); ok {
			return id
		}
		id := nextNodeID
		nextNodeID++
		g.Nodes[id] = &entities.Node{ID: id, Coord: c}
		idx.add(id, c)
		order = append(order, id)
		return id
	}

	addEdgePair := func(from, to entities.NodeID, way entities.Way, distance float64) {
		fwd := &entities.Edge{
			ID:        nextEdgeID,
			From:      from,
			To:        to,
			Distance:  distance,
			RoadClass: way.RoadClass,
			Weight:    distance * way.RoadClass.WeightMultiplier(),
			RoadName:  way.Name,
		}
		g.Edges[fwd.ID] = fwd
		g.Nodes[from].EdgeIDs = append(g.Nodes[from].EdgeIDs, fwd.ID)
		nextEdgeID++

		rev := &entities.Edge{
			ID:        nextEdgeID,
			From:      to,
			To:        from,
			Distance:  distance,
			RoadClass: way.RoadClass,
			Weight:    distance * way.RoadClass.WeightMultiplier(),
			RoadName:  way.Name,
		}
		g.Edges[rev.ID] = rev
		g.Nodes[to].EdgeIDs = append(g.Nodes[to].EdgeIDs, rev.ID)
		nextEdgeID++
	}

	for _, way := range ways {
		if len(way.Geometry) < 2 {
			continue
		}
		prev := findOrCreate(way.Geometry[0])
		for i := 1; i < len(way.Geometry); i++ {
			cur := findOrCreate(way.Geometry[i])
			if cur == prev {
				continue
			}
			distance := geo.DistanceKm(way.Geometry[i-1], way.Geometry[i])
			addEdgePair(prev, cur, way, distance)
			prev = cur
		}
	}

	mergeInto := mergeIntersections(g, order, toleranceKm)
	dedupEdges(g, mergeInto)

	return g
}

// clusterSum accumulates the coordinates folded into a surviving node so
// its final position can be set to their arithmetic mean.
type clusterSum struct {
	sumLat, sumLng float64
	count          int
}

// mergeIntersections unions nodes within toleranceKm of each other,
// processed in insertion order so the result is deterministic regardless
// of map iteration order. Returns a mapping from every original node ID to
// its surviving node ID (itself, if it was never merged away).
//
// The merge is seed-based: once a node is chosen as a cluster's survivor,
// later candidates are tested against the survivor's original coordinate,
// not against whichever other nodes have since joined the cluster. This
// keeps a long chain of near-tolerance nodes from collapsing transitively
// into one node spanning many multiples of the tolerance radius.
//
// Per cluster of size >= 2, the survivor's coordinate is set to the
// arithmetic mean of every coordinate folded into it, not left at its own
// seed coordinate — a cluster's position should represent all of its
// members, not just whichever one happened to be seen first.
func mergeIntersections(g *entities.Graph, order []entities.NodeID, toleranceKm float64) map[entities.NodeID]entities.NodeID {
	mergeInto := make(map[entities.NodeID]entities.NodeID, len(order))
	for _, id := range order {
		mergeInto[id] = id
	}

	var survivors []entities.NodeID
	for _, id := range order {
		if mergeInto[id] != id {
			continue // already folded into an earlier survivor
		}
		node := g.Nodes[id]
		merged := false
		for _, survivorID := range survivors {
			survivor := g.Nodes[survivorID]
			if geo.DistanceKm(survivor.Coord, node.Coord) <= toleranceKm {
				mergeInto[id] = survivorID
				merged = true
				break
			}
		}
		if !merged {
			survivors = append(survivors, id)
		}
	}

	sums := make(map[entities.NodeID]*clusterSum, len(survivors))
	for _, id := range survivors {
		coord := g.Nodes[id].Coord
		sums[id] = &clusterSum{sumLat: coord.Lat, sumLng: coord.Lng, count: 1}
	}

	for _, id := range order {
		resolved := mergeInto[id]
		if resolved == id {
			continue
		}
		survivor := g.Nodes[resolved]
		survivor.EdgeIDs = append(survivor.EdgeIDs, g.Nodes[id].EdgeIDs...)

		coord := g.Nodes[id].Coord
		sum := sums[resolved]
		sum.sumLat += coord.Lat
		sum.sumLng += coord.Lng
		sum.count++

		delete(g.Nodes, id)
	}

	for id, sum := range sums {
		if sum.count < 2 {
			continue
		}
		g.Nodes[id].Coord = geo.Coordinate{
			Lat: sum.sumLat / float64(sum.count),
			Lng: sum.sumLng / float64(sum.count),
		}
	}

	return mergeInto
}

// dedupEdges rewrites every edge's endpoints through mergeInto, drops
// self-loops created by the merge, and keeps only the lowest-ID edge among
// any remaining duplicate (From, To) pairs.
func dedupEdges(g *entities.Graph, mergeInto map[entities.NodeID]entities.NodeID) {
	type pairKey struct {
		from, to entities.NodeID
	}

	ids := make([]entities.EdgeID, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	keep := make(map[pairKey]entities.EdgeID)
	for _, id := range ids {
		e := g.Edges[id]
		e.From = mergeInto[e.From]
		e.To = mergeInto[e.To]
		if e.From == e.To {
			delete(g.Edges, id)
			continue
		}
		key := pairKey{e.From, e.To}
		if _, exists := keep[key]; !exists {
			keep[key] = id
		} else {
			delete(g.Edges, id)
		}
	}

	for _, node := range g.Nodes {
		survivors := node.EdgeIDs[:0]
		seen := make(map[entities.EdgeID]bool, len(node.EdgeIDs))
		for _, eid := range node.EdgeIDs {
			if seen[eid] {
				continue
			}
			seen[eid] = true
			if _, ok := g.Edges[eid]; ok {
				survivors = append(survivors, eid)
			}
		}
		node.EdgeIDs = survivors
	}
}
