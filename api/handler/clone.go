package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reweave-ai/reweave/models"
	"github.com/reweave-ai/reweave/reconstruct"
)

// Clone returns a handler for POST /api/v1/clone.
//
// Flow:
//  1. Parse & validate CloneRequest (with a previously obtained snapshot),
//     apply defaults. Unrecognized models are coerced, never rejected.
//  2. Reconstructor.Reconstruct → sanitized HTML (records reconstruction_ms).
//  3. Assemble response with processing metadata.
func Clone(rc *reconstruct.Reconstructor) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.CloneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CloneResponse{
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

		// ── 2. Reconstruct ──────────────────────────────────────────
		reconStart := time.Now()
		result, err := rc.Reconstruct(c.Request.Context(), &req)
		reconMs := time.Since(reconStart).Milliseconds()

		if err != nil {
			slog.Error("reconstruction failed",
				"url", req.Snapshot.URL, "model", req.Model, "error", err,
			)
			respondCloneError(c, err, models.TimingInfo{
				TotalMs:          time.Since(totalStart).Milliseconds(),
				ReconstructionMs: reconMs,
			})
			return
		}

		// ── 3. Respond ──────────────────────────────────────────────
		processing := result.Processing
		c.JSON(http.StatusOK, models.CloneResponse{
			Success:     true,
			ModelUsed:   result.ModelUsed,
			HTMLContent: result.HTML,
			Processing:  &processing,
			Timestamp:   time.Now().UTC(),
			Timing: models.TimingInfo{
				TotalMs:          time.Since(totalStart).Milliseconds(),
				ReconstructionMs: reconMs,
			},
		})
	}
}

// respondCloneError maps a ServiceError to the correct HTTP status and
// writes a structured JSON error response for the clone endpoint.
func respondCloneError(c *gin.Context, err error, timing models.TimingInfo) {
	svcErr := asServiceError(err)
	c.JSON(mapErrorToStatus(svcErr), models.CloneResponse{
		Success:   false,
		Timing:    timing,
		Timestamp: time.Now().UTC(),
		Error:     svcErr.ToDetail(),
	})
}
