package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reweave-ai/reweave/api/handler"
	"github.com/reweave-ai/reweave/api/middleware"
	"github.com/reweave-ai/reweave/cache"
	"github.com/reweave-ai/reweave/capture"
	"github.com/reweave-ai/reweave/config"
	"github.com/reweave-ai/reweave/reconstruct"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cp *capture.Capturer, rc *reconstruct.Reconstructor, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(cp, rc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Capture a page snapshot.
	protected.POST("/scrape", handler.Scrape(cp, cc))

	// Reconstruct HTML from a previously captured snapshot.
	protected.POST("/clone", handler.Clone(rc))

	// Full pipeline in one call.
	protected.POST("/scrape-and-clone", handler.ScrapeAndClone(cp, rc))

	return r
}
