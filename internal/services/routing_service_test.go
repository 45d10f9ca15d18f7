package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"osmroute/internal/cache"
	"osmroute/internal/config"
	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
)

type fakeFetcher struct {
	ways     []entities.Way
	err      error
	fetchedN int
}

func (f *fakeFetcher) Fetch(ctx context.Context, box geo.BoundingBox) ([]entities.Way, error) {
	f.fetchedN++
	if f.err != nil {
		return nil, f.err
	}
	return f.ways, nil
}

func testGraphConfig() config.GraphConfig {
	return config.GraphConfig{
		IntersectionToleranceKm: 0.001,
		BBoxPaddingDeg:          0.01,
		CacheTTL:                time.Hour,
		CacheKeyPrecisionDeg:    0.01,
	}
}

func twoWayFixture() []entities.Way {
	return []entities.Way{
		{
			ID:        1,
			RoadClass: entities.RoadResidential,
			Geometry: []geo.Coordinate{
				{Lat: 0, Lng: 0},
				{Lat: 0, Lng: 0.05},
			},
		},
	}
}

func TestCalculateRoute_HappyPath(t *testing.T) {
	fetcher := &fakeFetcher{ways: twoWayFixture()}
	graphCache := cache.NewGraphCache(testGraphConfig().CacheTTL)
	defer graphCache.Stop()
	svc := NewRoutingService(fetcher, graphCache, testGraphConfig())

	resp, err := svc.CalculateRoute(context.Background(), geo.Coordinate{Lat: 0, Lng: 0}, geo.Coordinate{Lat: 0, Lng: 0.05})
	if err != nil {
		t.Fatalf("CalculateRoute() error = %v", err)
	}
	if resp.DistanceKm <= 0 {
		t.Errorf("DistanceKm = %v, want > 0", resp.DistanceKm)
	}
	if resp.Metrics.GraphNodeCount != 2 {
		t.Errorf("GraphNodeCount = %d, want 2", resp.Metrics.GraphNodeCount)
	}
}

func TestCalculateRoute_SecondRequestHitsCache(t *testing.T) {
	fetcher := &fakeFetcher{ways: twoWayFixture()}
	graphCache := cache.NewGraphCache(testGraphConfig().CacheTTL)
	defer graphCache.Stop()
	svc := NewRoutingService(fetcher, graphCache, testGraphConfig())

	source := geo.Coordinate{Lat: 0, Lng: 0}
	dest := geo.Coordinate{Lat: 0, Lng: 0.05}

	if _, err := svc.CalculateRoute(context.Background(), source, dest); err != nil {
		t.Fatalf("first CalculateRoute() error = %v", err)
	}
	if _, err := svc.CalculateRoute(context.Background(), source, dest); err != nil {
		t.Fatalf("second CalculateRoute() error = %v", err)
	}

	if fetcher.fetchedN != 1 {
		t.Errorf("fetchedN = %d, want 1 (second request should hit the cache)", fetcher.fetchedN)
	}
}

func TestCalculateRoute_RejectsInvalidCoordinates(t *testing.T) {
	svc := NewRoutingService(&fakeFetcher{}, cache.NewGraphCache(time.Hour), testGraphConfig())

	_, err := svc.CalculateRoute(context.Background(), geo.Coordinate{Lat: 200, Lng: 0}, geo.Coordinate{Lat: 0, Lng: 0.05})
	if err != ErrInvalidCoordinates {
		t.Fatalf("CalculateRoute() error = %v, want ErrInvalidCoordinates", err)
	}
}

func TestCalculateRoute_RejectsTooCloseEndpoints(t *testing.T) {
	svc := NewRoutingService(&fakeFetcher{}, cache.NewGraphCache(time.Hour), testGraphConfig())

	source := geo.Coordinate{Lat: 0, Lng: 0}
	dest := geo.Coordinate{Lat: 0, Lng: 0.00001}

	_, err := svc.CalculateRoute(context.Background(), source, dest)
	if err != ErrInvalidCoordinates {
		t.Fatalf("CalculateRoute() error = %v, want ErrInvalidCoordinates", err)
	}
}

func TestCalculateRoute_PropagatesUpstreamError(t *testing.T) {
	fetchErr := errors.New("upstream exploded")
	fetcher := &fakeFetcher{err: fetchErr}
	svc := NewRoutingService(fetcher, cache.NewGraphCache(time.Hour), testGraphConfig())

	_, err := svc.CalculateRoute(context.Background(), geo.Coordinate{Lat: 0, Lng: 0}, geo.Coordinate{Lat: 0, Lng: 0.05})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("CalculateRoute() error = %v, want wrapped %v", err, fetchErr)
	}
}
