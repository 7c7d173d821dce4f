package models

import "time"

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the capture completed without errors.
	Success bool `json:"success"`

	// Status is a human-readable status marker ("success" on 200s).
	Status string `json:"status"`

	// Snapshot is the captured page state. Nil on failure.
	Snapshot *Snapshot `json:"snapshot,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// CloneResponse is the response for POST /api/v1/clone.
type CloneResponse struct {
	Success bool `json:"success"`

	// ModelUsed is the effective model after allow-list coercion.
	ModelUsed string `json:"model_used,omitempty"`

	// HTMLContent is the sanitized standalone HTML document.
	HTMLContent string `json:"html_content,omitempty"`

	// Processing describes what went into the reconstruction.
	Processing *ProcessingInfo `json:"processing_info,omitempty"`

	Timing    TimingInfo   `json:"timing"`
	Timestamp time.Time    `json:"timestamp"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// ProcessingInfo reports reconstruction metadata.
type ProcessingInfo struct {
	// ContextLength is the character length of the assembled text context.
	ContextLength int `json:"context_length"`

	// HasScreenshot reports whether an image was attached to the prompt.
	HasScreenshot bool `json:"has_screenshot"`

	// ImagesProcessed is the number of images described in the context.
	ImagesProcessed int `json:"images_processed"`

	Responsive  bool `json:"responsive"`
	Interactive bool `json:"interactive"`
}

// CombinedResponse is the response for POST /api/v1/scrape-and-clone.
type CombinedResponse struct {
	Success bool `json:"success"`

	// URL echoes the requested URL.
	URL string `json:"url,omitempty"`

	// Snapshot is the captured page state.
	Snapshot *Snapshot `json:"snapshot,omitempty"`

	// ModelUsed is the effective model after allow-list coercion.
	ModelUsed string `json:"model_used,omitempty"`

	// HTMLContent is the sanitized standalone HTML document.
	HTMLContent string `json:"html_content,omitempty"`

	Processing *ProcessingInfo `json:"processing_info,omitempty"`

	Timing    TimingInfo   `json:"timing"`
	Timestamp time.Time    `json:"timestamp"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CaptureMs is the time spent navigating, rendering and extracting.
	CaptureMs int64 `json:"capture_ms,omitempty"`

	// ReconstructionMs is the time spent in the LLM round-trip and
	// sanitization.
	ReconstructionMs int64 `json:"reconstruction_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status          string          `json:"status"` // "healthy" or "degraded"
	Uptime          string          `json:"uptime"`
	Version         string          `json:"version"`
	PoolStats       PoolStats       `json:"pool_stats"`
	SupportedModels []string        `json:"supported_models"`
	Features        map[string]bool `json:"features"`
	LLMConfigured   bool            `json:"llm_configured"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}

// LLMUsage reports token usage from the completion service.
type LLMUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse is the bare error envelope used by middleware that rejects
// a request before any endpoint-specific response shape applies.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}
