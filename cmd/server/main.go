// Command server runs the routing HTTP API.
package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"osmroute/internal/api"
	"osmroute/internal/api/handlers"
	"osmroute/internal/cache"
	"osmroute/internal/config"
	"osmroute/internal/overpass"
	"osmroute/internal/services"
)

func main() {
	cfg := config.NewDefaultConfig()

	overpassClient := overpass.NewClient(cfg.Overpass)
	graphCache := cache.NewGraphCache(cfg.Graph.CacheTTL)
	defer graphCache.Stop()

	routingService := services.NewRoutingService(overpassClient, graphCache, cfg.Graph)
	routeHandler := handlers.NewRouteHandler(routingService)
	router := api.NewRouter(routeHandler)

	engine := gin.Default()
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("listening on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
