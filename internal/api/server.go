// Package api exposes the tracker over HTTP/JSON.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilianohg/jobtracker/internal/config"
	"github.com/emilianohg/jobtracker/internal/service"
)

// NewRouter builds the gin engine with middleware and every route
// registered under /api.
func NewRouter(cfg *config.Config, tracker *service.Tracker) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	RegisterRoutes(router, NewHandler(tracker))
	return router
}

// NewServer wraps the router in an http.Server bound to cfg.ListenAddr.
func NewServer(cfg *config.Config, tracker *service.Tracker) *http.Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           NewRouter(cfg, tracker),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.AllowsAnyOrigin() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	return c
}
