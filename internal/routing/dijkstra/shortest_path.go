// Package dijkstra runs a weighted shortest-path search over an
// entities.Graph and shapes the result into a caller-ready polyline with
// distance and duration estimates.
package dijkstra

import (
	"container/heap"
	"errors"
	"math"
	"sort"

	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
)

var (
	// ErrNoNearbyIntersection is returned when the graph has no nodes at
	// all, so the source/destination coordinates cannot be snapped to
	// anything.
	ErrNoNearbyIntersection = errors.New("dijkstra: no nearby intersection to snap to")

	// ErrUnreachable is returned when the destination node is never
	// popped from the priority queue — the source and destination lie in
	// disconnected components of the graph.
	ErrUnreachable = errors.New("dijkstra: destination is unreachable from source")

	// ErrSearchAborted is returned when the search exceeds its safety
	// bound of 2x the node count without terminating. This should only
	// happen if the graph itself is malformed (e.g. duplicate node IDs
	// feeding the heap repeatedly).
	ErrSearchAborted = errors.New("dijkstra: search exceeded its extraction safety bound")

	// ErrReconstructionFailed is returned when the predecessor chain
	// recorded during the search doesn't lead back to the source,
	// indicating a bug in the search rather than a normal unreachable
	// destination (that case is caught earlier as ErrUnreachable).
	ErrReconstructionFailed = errors.New("dijkstra: failed to reconstruct path from predecessor chain")
)

// Result is the shaped output of a shortest-path search.
type Result struct {
	Polyline     []geo.Coordinate
	DistanceKm   float64
	DurationMin  float64
	TotalWeight  float64
	NodeCount    int
	SourceNodeID entities.NodeID
	DestNodeID   entities.NodeID
}

// pqItem is one entry in the priority queue: a node plus its tentative
// best distance (the Dijkstra "key").
type pqItem struct {
	node NodeDistance
}

// NodeDistance pairs a node with a tentative weighted distance from the
// source. Exported so callers constructing test fixtures can read
// intermediate state if needed; the search itself only needs it internally.
type NodeDistance struct {
	ID       entities.NodeID
	Distance float64
}

// priorityQueue implements container/heap.Interface over a min-heap of
// pqItem ordered by Distance.
//
// Go Learning Note — container/heap:
// heap.Interface only requires Len/Less/Swap (from sort.Interface) plus
// Push/Pop. The heap package manages the tree-shaped ordering invariant;
// your type just needs to expose slice operations. This is the same
// "implement a small interface, get an algorithm for free" pattern as
// sort.Sort.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].node.Distance < pq[j].node.Distance }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ShortestPath snaps source and dest to their nearest graph nodes and runs
// Dijkstra's algorithm between them, weighted by each edge's road-class
// adjusted Weight. The returned polyline's first and last coordinates are
// replaced with the caller's original source/dest so the output always
// starts and ends exactly where the caller asked, even when those points
// are off the graph entirely.
func ShortestPath(g *entities.Graph, source, dest geo.Coordinate) (*Result, error) {
	if g.NodeCount() == 0 {
		return nil, ErrNoNearbyIntersection
	}

	sourceID, ok := nearestNode(g, source)
	if !ok {
		return nil, ErrNoNearbyIntersection
	}
	destID, ok := nearestNode(g, dest)
	if !ok {
		return nil, ErrNoNearbyIntersection
	}

	if sourceID == destID {
		return &Result{
			Polyline:     []geo.Coordinate{source, dest},
			DistanceKm:   round3(geo.DistanceKm(source, dest)),
			DurationMin:  0,
			TotalWeight:  0,
			NodeCount:    1,
			SourceNodeID: sourceID,
			DestNodeID:   destID,
		}, nil
	}

	dist := make(map[entities.NodeID]float64, g.NodeCount())
	prev := make(map[entities.NodeID]entities.NodeID, g.NodeCount())
	visited := make(map[entities.NodeID]bool, g.NodeCount())

	for id := range g.Nodes {
		dist[id] = math.Inf(1)
	}
	dist[sourceID] = 0

	pq := &priorityQueue{{node: NodeDistance{ID: sourceID, Distance: 0}}}
	heap.Init(pq)

	maxExtractions := 2 * g.NodeCount()
	extractions := 0
	found := false

	for pq.Len() > 0 {
		extractions++
		if extractions > maxExtractions {
			return nil, ErrSearchAborted
		}

		cur := heap.Pop(pq).(pqItem).node
		if visited[cur.ID] {
			continue
		}
		visited[cur.ID] = true

		if cur.ID == destID {
			found = true
			break
		}

		node := g.Nodes[cur.ID]
		for _, eid := range node.EdgeIDs {
			edge := g.Edges[eid]
			if edge == nil || visited[edge.To] {
				continue
			}
			alt := dist[cur.ID] + edge.Weight
			if alt < dist[edge.To] {
				dist[edge.To] = alt
				prev[edge.To] = cur.ID
				heap.Push(pq, pqItem{node: NodeDistance{ID: edge.To, Distance: alt}})
			}
		}
	}

	if !found {
		return nil, ErrUnreachable
	}

	path, err := reconstructPath(prev, sourceID, destID)
	if err != nil {
		return nil, err
	}

	polyline := make([]geo.Coordinate, len(path))
	for i, id := range path {
		polyline[i] = g.Nodes[id].Coord
	}
	polyline[0] = source
	polyline[len(polyline)-1] = dest

	distanceKm := 0.0
	for i := 1; i < len(polyline); i++ {
		distanceKm += geo.DistanceKm(polyline[i-1], polyline[i])
	}

	durationMin := estimateDurationMin(g, path)

	return &Result{
		Polyline:     polyline,
		DistanceKm:   round3(distanceKm),
		DurationMin:  math.Round(durationMin),
		TotalWeight:  round2(dist[destID]),
		NodeCount:    len(path),
		SourceNodeID: sourceID,
		DestNodeID:   destID,
	}, nil
}

// nearestNode wraps geo.NearestPoint over the graph's node table. Node IDs
// are sorted ascending before the scan — they're assigned sequentially by
// the builder in first-seen order, so this restores the spec's "ties break
// by first-seen order" guarantee, which plain map iteration (randomized per
// run) cannot.
func nearestNode(g *entities.Graph, c geo.Coordinate) (entities.NodeID, bool) {
	ids := make([]entities.NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	points := make([]geo.Point[entities.NodeID], 0, len(ids))
	for _, id := range ids {
		points = append(points, geo.Point[entities.NodeID]{ID: id, Coordinate: g.Nodes[id].Coord})
	}
	return geo.NearestPoint(points, c)
}

// reconstructPath walks the predecessor chain from dest back to source and
// reverses it into source-to-dest order.
func reconstructPath(prev map[entities.NodeID]entities.NodeID, source, dest entities.NodeID) ([]entities.NodeID, error) {
	path := []entities.NodeID{dest}
	cur := dest
	for cur != source {
		p, ok := prev[cur]
		if !ok {
			return nil, ErrReconstructionFailed
		}
		path = append(path, p)
		cur = p
		if len(path) > len(prev)+2 {
			return nil, ErrReconstructionFailed
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if path[0] != source || path[len(path)-1] != dest {
		return nil, ErrReconstructionFailed
	}
	return path, nil
}

// estimateDurationMin sums, for each consecutive node pair on the path, the
// traversal time implied by the edge actually used (distance / assumed
// speed for its road class). If no edge is found between a pair — which
// should not happen for a path Dijkstra itself produced, but is handled
// defensively — the haversine distance between the two nodes and
// RoadDefault's speed are used instead.
func estimateDurationMin(g *entities.Graph, path []entities.NodeID) float64 {
	totalMin := 0.0
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		edge, ok := g.EdgeBetween(from, to)
		if ok {
			totalMin += (edge.Distance / edge.RoadClass.SpeedKmh()) * 60
			continue
		}
		fallbackKm := geo.DistanceKm(g.Nodes[from].Coord, g.Nodes[to].Coord)
		totalMin += (fallbackKm / entities.RoadDefault.SpeedKmh()) * 60
	}
	return totalMin
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
