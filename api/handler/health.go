package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reweave-ai/reweave/capture"
	"github.com/reweave-ai/reweave/models"
	"github.com/reweave-ai/reweave/reconstruct"
)

// Version is the service version reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports pool utilisation and capability metadata; degrades status when
// more than 80% of pages are active. No side effects.
func Health(cp *capture.Capturer, rc *reconstruct.Reconstructor, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := cp.Stats()

		status := "healthy"
		if stats.MaxPages > 0 && stats.ActivePages > int(float64(stats.MaxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:          status,
			Uptime:          time.Since(startTime).Round(time.Second).String(),
			Version:         Version,
			PoolStats:       stats,
			SupportedModels: rc.SupportedModels(),
			Features: map[string]bool{
				"dom_extraction":       true,
				"css_extraction":       true,
				"screenshots":          true,
				"content_digest":       true,
				"responsive_cloning":   true,
				"interactive_elements": true,
			},
			LLMConfigured: rc.Configured(),
		})
	}
}
