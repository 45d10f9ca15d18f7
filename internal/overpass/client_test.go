package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"osmroute/internal/config"
	"osmroute/internal/geo"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.OverpassConfig{Endpoint: server.URL, Timeout: 2 * time.Second})
}

func TestFetch_HappyPath(t *testing.T) {
	body := `{"elements":[
		{"id":1,"tags":{"highway":"residential","name":"Elm St"},"geometry":[{"lat":0,"lon":0},{"lat":0,"lon":0.001}]},
		{"id":2,"tags":{"highway":"footway"},"geometry":[{"lat":1,"lon":1},{"lat":1,"lon":1.001}]}
	]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	ways, err := client.Fetch(context.Background(), geo.BoundingBox{South: -1, West: -1, North: 1, East: 1})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(ways) != 1 {
		t.Fatalf("len(ways) = %d, want 1 (footway should be filtered out)", len(ways))
	}
	if ways[0].Name != "Elm St" {
		t.Errorf("ways[0].Name = %q, want %q", ways[0].Name, "Elm St")
	}
}

func TestFetch_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Fetch(context.Background(), geo.BoundingBox{})
	if err != ErrUpstreamRateLimited {
		t.Fatalf("Fetch() error = %v, want ErrUpstreamRateLimited", err)
	}
}

func TestFetch_UpstreamUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Fetch(context.Background(), geo.BoundingBox{})
	if err != ErrUpstreamUnavailable {
		t.Fatalf("Fetch() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestFetch_BadShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not_elements": []}`))
	})

	_, err := client.Fetch(context.Background(), geo.BoundingBox{})
	if err != ErrUpstreamBadShape {
		t.Fatalf("Fetch() error = %v, want ErrUpstreamBadShape", err)
	}
}

func TestFetch_EmptyArea(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": []}`))
	})

	_, err := client.Fetch(context.Background(), geo.BoundingBox{})
	if err != ErrEmptyArea {
		t.Fatalf("Fetch() error = %v, want ErrEmptyArea", err)
	}
}

func TestFetch_EmptyAreaWhenOnlyUnroutableTagsPresent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"id":1,"tags":{"highway":"footway"},"geometry":[{"lat":0,"lon":0},{"lat":0,"lon":1}]}]}`))
	})

	_, err := client.Fetch(context.Background(), geo.BoundingBox{})
	if err != ErrEmptyArea {
		t.Fatalf("Fetch() error = %v, want ErrEmptyArea", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer server.Close()
	client := NewClient(config.OverpassConfig{Endpoint: server.URL, Timeout: 5 * time.Millisecond})

	_, err := client.Fetch(context.Background(), geo.BoundingBox{})
	if err != ErrUpstreamTimeout {
		t.Fatalf("Fetch() error = %v, want ErrUpstreamTimeout", err)
	}
}
