// Package api wires HTTP routes to their handlers.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"osmroute/internal/api/handlers"
)

// Router registers the application's routes onto a gin.Engine.
type Router struct {
	routeHandler *handlers.RouteHandler
}

// NewRouter builds a Router from its handler dependencies.
func NewRouter(routeHandler *handlers.RouteHandler) *Router {
	return &Router{routeHandler: routeHandler}
}

// Setup registers every route onto engine.
func (r *Router) Setup(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	v1.POST("/route", r.routeHandler.CalculateRoute)
}
