// Package services holds the application's orchestration layer: the
// business logic that sits between the HTTP handlers and the lower-level
// packages (the road-data fetcher, the graph builder, the shortest-path
// engine, and the graph cache).
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"osmroute/internal/cache"
	"osmroute/internal/config"
	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
	"osmroute/internal/overpass"
	"osmroute/internal/routing/dijkstra"
	"osmroute/internal/routing/graph"
)

// minRequestSeparationKm is the smallest allowed distance between source
// and destination. Anything closer is rejected rather than silently
// returning a near-zero-length route.
const minRequestSeparationKm = 0.01 // 10 meters

// ErrInvalidCoordinates is returned when source/destination fail basic
// validation: out-of-range lat/lng, or the two points closer together than
// minRequestSeparationKm.
var ErrInvalidCoordinates = errors.New("services: invalid source/destination coordinates")

// RouteResponse is the orchestrator's output, shaped to match the public
// API response body described in the routing handler.
type RouteResponse struct {
	Path        []geo.Coordinate
	DistanceKm  float64
	DurationMin float64
	Metrics     RouteMetrics
	Debug       RouteDebug
}

// RouteMetrics carries the search internals a caller might want for
// diagnostics without needing them to compute a route.
type RouteMetrics struct {
	TotalWeight      float64
	NodeCount        int
	ProcessingTimeMs int64
	GraphNodeCount   int
	GraphEdgeCount   int
}

// RouteDebug exposes which graph nodes the request snapped to.
type RouteDebug struct {
	SourceNodeID      entities.NodeID
	DestinationNodeID entities.NodeID
}

// RoutingService is the orchestrator for CalculateRoute; one instance is
// shared by every request. It
// depends on overpass.WayFetcher through an interface (so it can be tested
// against a fake upstream) and on a concrete *cache.GraphCache, matching
// this codebase's convention of depending on interfaces only where more
// than one concrete type plausibly exists.
type RoutingService struct {
	fetcher overpass.WayFetcher
	cache   *cache.GraphCache
	graph   config.GraphConfig
}

// NewRoutingService wires a RoutingService from its dependencies.
func NewRoutingService(fetcher overpass.WayFetcher, graphCache *cache.GraphCache, graphCfg config.GraphConfig) *RoutingService {
	return &RoutingService{fetcher: fetcher, cache: graphCache, graph: graphCfg}
}

// CalculateRoute validates source/destination, serves a cached graph for
// their bounding box if one exists (fetching and building one on a miss),
// and runs the shortest-path search between them.
func (s *RoutingService) CalculateRoute(ctx context.Context, source, dest geo.Coordinate) (*RouteResponse, error) {
	start := time.Now()

	if !source.Valid() || !dest.Valid() {
		return nil, ErrInvalidCoordinates
	}
	if geo.DistanceKm(source, dest) < minRequestSeparationKm {
		return nil, ErrInvalidCoordinates
	}

	cacheKey := geo.NewBoundingBox(source, dest, 0).Quantized(s.graph.CacheKeyPrecisionDeg).Key()

	g, ok := s.cache.Get(cacheKey)
	if !ok {
		fetchBox := geo.NewBoundingBox(source, dest, s.graph.BBoxPaddingDeg)
		ways, err := s.fetcher.Fetch(ctx, fetchBox)
		if err != nil {
			log.Printf("[ROUTE] key=%s fetch failed: %v", cacheKey, err)
			return nil, fmt.Errorf("fetching road data: %w", err)
		}
		g = graph.BuildWithTolerance(ways, s.graph.IntersectionToleranceKm)
		s.cache.Set(cacheKey, g)
		log.Printf("[ROUTE] key=%s built graph: %d nodes, %d edges", cacheKey, g.NodeCount(), g.EdgeCount())
	}

	result, err := dijkstra.ShortestPath(g, source, dest)
	if err != nil {
		log.Printf("[ROUTE] key=%s search failed: %v", cacheKey, err)
		return nil, fmt.Errorf("computing shortest path: %w", err)
	}

	log.Printf("[ROUTE] key=%s done: %.3fkm in %.0fmin (%s)", cacheKey, result.DistanceKm, result.DurationMin, time.Since(start))

	return &RouteResponse{
		Path:        result.Polyline,
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		Metrics: RouteMetrics{
			TotalWeight:      result.TotalWeight,
			NodeCount:        result.NodeCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			GraphNodeCount:   g.NodeCount(),
			GraphEdgeCount:   g.EdgeCount(),
		},
		Debug: RouteDebug{
			SourceNodeID:      result.SourceNodeID,
			DestinationNodeID: result.DestNodeID,
		},
	}, nil
}
