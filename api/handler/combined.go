package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reweave-ai/reweave/capture"
	"github.com/reweave-ai/reweave/models"
	"github.com/reweave-ai/reweave/reconstruct"
)

// ScrapeAndClone returns a handler for POST /api/v1/scrape-and-clone.
//
// It runs the full pipeline in one request: capture the page, then
// reconstruct it with the default model and default feature flags
// (responsive + interactive, embedded styles). Capture and reconstruction
// are strictly sequential; the browser page is released before the
// reconstruction starts.
func ScrapeAndClone(cp *capture.Capturer, rc *reconstruct.Reconstructor) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CombinedResponse{
				Success:   false,
				Timestamp: time.Now().UTC(),
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Capture ──────────────────────────────────────────────
		captureStart := time.Now()
		snap, err := cp.Capture(c.Request.Context(), &req)
		captureMs := time.Since(captureStart).Milliseconds()

		if err != nil {
			slog.Error("capture failed", "url", req.URL, "error", err)
			respondCombinedError(c, req.URL, err, models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				CaptureMs: captureMs,
			})
			return
		}

		// ── 3. Reconstruct with fixed default flags ─────────────────
		cloneReq := models.CloneRequest{Snapshot: snap}
		cloneReq.Defaults()

		reconStart := time.Now()
		result, err := rc.Reconstruct(c.Request.Context(), &cloneReq)
		reconMs := time.Since(reconStart).Milliseconds()

		if err != nil {
			slog.Error("reconstruction failed", "url", req.URL, "error", err)
			respondCombinedError(c, req.URL, err, models.TimingInfo{
				TotalMs:          time.Since(totalStart).Milliseconds(),
				CaptureMs:        captureMs,
				ReconstructionMs: reconMs,
			})
			return
		}

		// ── 4. Respond with both the snapshot and the HTML ──────────
		processing := result.Processing
		c.JSON(http.StatusOK, models.CombinedResponse{
			Success:     true,
			URL:         req.URL,
			Snapshot:    snap,
			ModelUsed:   result.ModelUsed,
			HTMLContent: result.HTML,
			Processing:  &processing,
			Timestamp:   time.Now().UTC(),
			Timing: models.TimingInfo{
				TotalMs:          time.Since(totalStart).Milliseconds(),
				CaptureMs:        captureMs,
				ReconstructionMs: reconMs,
			},
		})
	}
}

func respondCombinedError(c *gin.Context, url string, err error, timing models.TimingInfo) {
	svcErr := asServiceError(err)
	c.JSON(mapErrorToStatus(svcErr), models.CombinedResponse{
		Success:   false,
		URL:       url,
		Timing:    timing,
		Timestamp: time.Now().UTC(),
		Error:     svcErr.ToDetail(),
	})
}
