// Package handlers translates HTTP requests into service calls and service
// results (or errors) into HTTP responses.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osmroute/internal/geo"
	"osmroute/internal/overpass"
	"osmroute/internal/routing/dijkstra"
	"osmroute/internal/services"
)

// RouteHandler serves the route-calculation endpoint.
type RouteHandler struct {
	routingService *services.RoutingService
}

// NewRouteHandler builds a RouteHandler from its service dependency.
func NewRouteHandler(routingService *services.RoutingService) *RouteHandler {
	return &RouteHandler{routingService: routingService}
}

// coordinateRequest is the wire shape of a single lat/lng pair.
//
// Go Learning Note — Struct Tags for Validation:
// gin's ShouldBindJSON reads the `binding` tag via go-playground/validator
// under the hood. We deliberately don't put a "required" tag on Lat/Lng:
// validator treats a numeric zero value as "not provided" for that tag, and
// 0 is a legitimate coordinate (the equator, the prime meridian). Range and
// separation checks are left to the service layer instead, which can tell
// "zero" from "out of range" or "too close together".
type coordinateRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type routeRequest struct {
	Source      coordinateRequest `json:"source"`
	Destination coordinateRequest `json:"destination"`
}

// CalculateRoute handles POST /v1/route.
func (h *RouteHandler) CalculateRoute(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	source := geo.Coordinate{Lat: req.Source.Lat, Lng: req.Source.Lng}
	dest := geo.Coordinate{Lat: req.Destination.Lat, Lng: req.Destination.Lng}

	resp, err := h.routingService.CalculateRoute(c.Request.Context(), source, dest)
	if err != nil {
		status, message := statusFor(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":     resp.Path,
		"distance": resp.DistanceKm,
		"duration": resp.DurationMin,
		"metrics": gin.H{
			"total_weight":       resp.Metrics.TotalWeight,
			"node_count":         resp.Metrics.NodeCount,
			"processing_time_ms": resp.Metrics.ProcessingTimeMs,
			"graph": gin.H{
				"nodes": resp.Metrics.GraphNodeCount,
				"edges": resp.Metrics.GraphEdgeCount,
			},
		},
		"debug": gin.H{
			"source_node":      resp.Debug.SourceNodeID,
			"destination_node": resp.Debug.DestinationNodeID,
		},
	})
}

// statusFor maps a sentinel error from the service/fetcher/search layers to
// an HTTP status and a stable message. Errors are wrapped with fmt.Errorf
// %w along the way, so this switches with errors.Is rather than ==.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCoordinates):
		return http.StatusBadRequest, "source and destination must be valid, sufficiently separated coordinates"
	case errors.Is(err, overpass.ErrEmptyArea):
		return http.StatusNotFound, "no routable roads found near the requested area"
	case errors.Is(err, overpass.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, "road data provider is rate limiting requests, try again shortly"
	case errors.Is(err, overpass.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, "road data provider did not respond in time"
	case errors.Is(err, overpass.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "road data provider is unavailable"
	case errors.Is(err, overpass.ErrUpstreamBadShape):
		return http.StatusBadGateway, "road data provider returned an unexpected response"
	case errors.Is(err, dijkstra.ErrNoNearbyIntersection):
		return http.StatusNotFound, "no road network found near the requested coordinates"
	case errors.Is(err, dijkstra.ErrUnreachable):
		return http.StatusNotFound, "no route exists between the requested coordinates"
	case errors.Is(err, dijkstra.ErrSearchAborted), errors.Is(err, dijkstra.ErrReconstructionFailed):
		return http.StatusInternalServerError, "route computation failed unexpectedly"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
