// Package overpass fetches road geometry from the Overpass API (the query
// interface over OpenStreetMap data) for a padded bounding box and decodes
// it into routable entities.Way values.
package overpass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"osmroute/internal/config"
	"osmroute/internal/domain/entities"
	"osmroute/internal/geo"
)

var (
	// ErrUpstreamTimeout is returned when the request to Overpass exceeds
	// its configured timeout.
	ErrUpstreamTimeout = errors.New("overpass: request timed out")

	// ErrUpstreamRateLimited is returned on HTTP 429 from Overpass.
	ErrUpstreamRateLimited = errors.New("overpass: rate limited")

	// ErrUpstreamUnavailable is returned on HTTP 5xx from Overpass.
	ErrUpstreamUnavailable = errors.New("overpass: upstream unavailable")

	// ErrUpstreamBadShape is returned when the response body doesn't
	// parse into the expected Overpass JSON shape at all — distinct from
	// a well-formed response that simply lists no elements.
	ErrUpstreamBadShape = errors.New("overpass: response was not valid Overpass JSON")

	// ErrEmptyArea is returned when Overpass returns a well-formed
	// response but no way carries a recognized road-class tag inside the
	// requested bounding box.
	ErrEmptyArea = errors.New("overpass: no roads found in the requested area")
)

// roadClassTags is the fixed set of OSM highway values this system treats
// as routable road classes, in the order they're assembled into the query.
var roadClassTags = []entities.RoadClass{
	entities.RoadMotorway,
	entities.RoadTrunk,
	entities.RoadPrimary,
	entities.RoadSecondary,
	entities.RoadTertiary,
	entities.RoadResidential,
	entities.RoadUnclassified,
}

// WayFetcher abstracts the upstream road-data provider so the routing
// service can be tested against a fake without talking to a real Overpass
// instance. Client is the only production implementation.
type WayFetcher interface {
	Fetch(ctx context.Context, box geo.BoundingBox) ([]entities.Way, error)
}

// Client is a WayFetcher backed by a real Overpass API endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a Client from the application's Overpass settings.
func NewClient(cfg config.OverpassConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Fetch queries Overpass for every tagged road inside box and decodes the
// result into entities.Way values. Ways with fewer than two geometry points
// are dropped, since they carry no routable segment.
func (c *Client) Fetch(ctx context.Context, box geo.BoundingBox) ([]entities.Way, error) {
	query := buildQuery(box)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(query))
	if err != nil {
		return nil, fmt.Errorf("overpass: building request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[FETCH] box=%s timed out after %s", box.Key(), c.httpClient.Timeout)
			return nil, ErrUpstreamTimeout
		}
		log.Printf("[FETCH] box=%s request failed: %v", box.Key(), err)
		return nil, fmt.Errorf("overpass: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		log.Printf("[FETCH] box=%s rate limited", box.Key())
		return nil, ErrUpstreamRateLimited
	case resp.StatusCode >= 500:
		log.Printf("[FETCH] box=%s upstream status %d", box.Key(), resp.StatusCode)
		return nil, ErrUpstreamUnavailable
	case resp.StatusCode >= 400:
		log.Printf("[FETCH] box=%s upstream status %d", box.Key(), resp.StatusCode)
		return nil, fmt.Errorf("overpass: unexpected status %d", resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[FETCH] box=%s response did not decode: %v", box.Key(), err)
		return nil, ErrUpstreamBadShape
	}
	// A missing "elements" key decodes to a nil slice; a present-but-empty
	// one decodes to a non-nil, zero-length slice. Only the former
	// indicates the response wasn't shaped the way we expect.
	if parsed.Elements == nil {
		log.Printf("[FETCH] box=%s response missing \"elements\"", box.Key())
		return nil, ErrUpstreamBadShape
	}

	ways := make([]entities.Way, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		way, ok := toWay(el)
		if !ok {
			continue
		}
		ways = append(ways, way)
	}

	if len(ways) == 0 {
		log.Printf("[FETCH] box=%s no routable ways among %d elements", box.Key(), len(parsed.Elements))
		return nil, ErrEmptyArea
	}

	log.Printf("[FETCH] box=%s fetched %d ways", box.Key(), len(ways))
	return ways, nil
}

// overpassResponse mirrors the top-level shape of an Overpass "out geom"
// JSON response.
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags"`
	Geometry []overpassLatLon  `json:"geometry"`
}

type overpassLatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// toWay converts a decoded Overpass element into an entities.Way, returning
// ok=false if it lacks a recognized highway tag or has fewer than two
// geometry points.
func toWay(el overpassElement) (entities.Way, bool) {
	tag := el.Tags["highway"]
	class, ok := classFor(tag)
	if !ok || len(el.Geometry) < 2 {
		return entities.Way{}, false
	}

	geometry := make([]geo.Coordinate, len(el.Geometry))
	for i, p := range el.Geometry {
		geometry[i] = geo.Coordinate{Lat: p.Lat, Lng: p.Lon}
	}

	return entities.Way{
		ID:        el.ID,
		Geometry:  geometry,
		RoadClass: class,
		Name:      el.Tags["name"],
	}, true
}

func classFor(highwayTag string) (entities.RoadClass, bool) {
	for _, c := range roadClassTags {
		if string(c) == highwayTag {
			return c, true
		}
	}
	return "", false
}

// buildQuery renders an Overpass QL query selecting every way tagged with
// one of roadClassTags inside box, with geometry included.
func buildQuery(box geo.BoundingBox) string {
	tags := make([]string, len(roadClassTags))
	for i, c := range roadClassTags {
		tags[i] = string(c)
	}
	classFilter := strings.Join(tags, "|")

	return fmt.Sprintf(
		`[out:json][timeout:25];way["highway"~"^(%s)$"](%f,%f,%f,%f);out geom;`,
		classFilter, box.South, box.West, box.North, box.East,
	)
}
