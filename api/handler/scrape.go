package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reweave-ai/reweave/cache"
	"github.com/reweave-ai/reweave/capture"
	"github.com/reweave-ai/reweave/models"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Optional cache lookup (max_age > 0).
//  3. Capturer.Capture → Snapshot   (records capture_ms)
//  4. Optional cache store, respond 200.
func Scrape(cp *capture.Capturer, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success:   false,
				Status:    "error",
				Timestamp: time.Now().UTC(),
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Cache lookup ─────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			cacheKey := cache.Key(&req)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				// Copy before mutating: the cached value is shared across requests.
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		// ── 3. Capture ──────────────────────────────────────────────
		captureStart := time.Now()
		snap, err := cp.Capture(c.Request.Context(), &req)
		captureMs := time.Since(captureStart).Milliseconds()

		if err != nil {
			slog.Error("capture failed", "url", req.URL, "error", err)
			respondScrapeError(c, err, models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				CaptureMs: captureMs,
			})
			return
		}

		resp := &models.ScrapeResponse{
			Success:   true,
			Status:    "success",
			Snapshot:  snap,
			Timestamp: time.Now().UTC(),
			Timing: models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				CaptureMs: captureMs,
			},
		}

		// ── 4. Cache store ──────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			resp.CacheStatus = "miss"
			cc.Set(cache.Key(&req), resp)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondScrapeError maps a ServiceError to the correct HTTP status code and
// writes a structured JSON error response.
func respondScrapeError(c *gin.Context, err error, timing models.TimingInfo) {
	svcErr := asServiceError(err)
	c.JSON(mapErrorToStatus(svcErr), models.ScrapeResponse{
		Success:   false,
		Status:    "error",
		Timing:    timing,
		Timestamp: time.Now().UTC(),
		Error:     svcErr.ToDetail(),
	})
}

// asServiceError normalizes any error into a *models.ServiceError.
func asServiceError(err error) *models.ServiceError {
	if svcErr, ok := err.(*models.ServiceError); ok {
		return svcErr
	}
	return models.NewServiceError(models.ErrCodeInternal, err.Error(), err)
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ServiceError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited, models.ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized, models.ErrCodeLLMAuthFailure:
		return http.StatusUnauthorized // 401
	case models.ErrCodeLLMFailure:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
