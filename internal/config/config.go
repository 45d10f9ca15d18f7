// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Configuration Management:
// Go projects typically manage configuration in one of these ways:
//   1. Struct literals with defaults (used here — simplest for MVPs)
//   2. Environment variables via os.Getenv() or "github.com/kelseyhightower/envconfig"
//   3. Config files (YAML/TOML) via "github.com/spf13/viper"
//   4. Command-line flags via the standard "flag" package
//
// Using typed structs (not raw strings/maps) gives you compile-time safety
// and IDE autocompletion. This is strongly preferred in Go over untyped config.
package config

import (
	"time"
)

// Config is the top-level configuration container. Grouping related settings
// into sub-structs keeps the config organized as the application grows.
//
// Go Learning Note — Struct Composition:
// Go doesn't have classes or inheritance. Instead, you compose structs by
// embedding or nesting them. Here Config "has a" ServerConfig, OverpassConfig,
// etc. This is composition over inheritance — a core Go design principle.
type Config struct {
	Server   ServerConfig
	Overpass OverpassConfig
	Graph    GraphConfig
}

// ServerConfig holds HTTP server settings.
//
// Go Learning Note — time.Duration:
// Go uses time.Duration (an int64 of nanoseconds) instead of raw integers for
// timeouts and intervals. This prevents unit confusion — you write
// "10 * time.Second" which is self-documenting, rather than guessing whether
// "10" means seconds, milliseconds, or something else.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// OverpassConfig configures the upstream road-data provider. These are the
// two knobs the routing service actually needs at startup: where to send
// bounding-box queries, and how long to wait for an answer before giving up.
type OverpassConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// GraphConfig controls the shape of the in-memory routable graph: how close
// two raw coordinates must be to count as the same intersection, how far the
// fetch bounding box is padded past the requested endpoints, how long a
// cached graph stays valid, and the precision used to quantize cache keys.
type GraphConfig struct {
	IntersectionToleranceKm float64
	BBoxPaddingDeg          float64
	CacheTTL                time.Duration
	CacheKeyPrecisionDeg    float64
}

// NewDefaultConfig returns a Config populated with sensible defaults.
//
// Go Learning Note — Constructor Functions:
// Go has no constructors. By convention, New<Type>() functions serve the same
// purpose. They return a pointer (*Config) so the caller gets a reference to
// shared, mutable state. Returning a value type would copy the struct on every
// assignment, which is fine for small immutable data but wasteful for large
// config objects that get passed around.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Overpass: OverpassConfig{
			Endpoint: "https://overpass-api.de/api/interpreter",
			Timeout:  30 * time.Second,
		},
		Graph: GraphConfig{
			IntersectionToleranceKm: 0.001,
			BBoxPaddingDeg:          0.01,
			CacheTTL:                600 * time.Second,
			CacheKeyPrecisionDeg:    0.01,
		},
	}
}
