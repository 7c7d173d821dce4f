package models

// ScrapeRequest is the payload for POST /api/v1/scrape and the capture half
// of POST /api/v1/scrape-and-clone.
type ScrapeRequest struct {
	// URL is the target page to capture. Required.
	URL string `json:"url" binding:"required,url"`

	// CaptureScreenshot controls whether a PNG screenshot is taken after
	// the page settles. Default: true.
	CaptureScreenshot *bool `json:"capture_screenshot,omitempty"`

	// FullPageScreenshot captures the entire scrollable page instead of
	// just the viewport. Default: true.
	FullPageScreenshot *bool `json:"full_page_screenshot,omitempty"`

	// ViewportWidth and ViewportHeight size the browser viewport.
	// Defaults: 1280x720.
	ViewportWidth  int `json:"viewport_width,omitempty" binding:"omitempty,min=1,max=3840"`
	ViewportHeight int `json:"viewport_height,omitempty" binding:"omitempty,min=1,max=2160"`

	// WaitTimeMs is the fixed settle delay in milliseconds applied after
	// navigation completes, giving client-side rendering time to finish.
	// Default: 5000. Capped server-side.
	WaitTimeMs *int `json:"wait_time_ms,omitempty" binding:"omitempty,min=0,max=30000"`

	// Headers are extra HTTP headers sent with every request the page makes.
	// A synthetic Google Referer is added unless the caller sets their own.
	Headers map[string]string `json:"headers,omitempty"`

	// MaxAge enables the snapshot cache: a cached response younger than
	// MaxAge milliseconds is returned instead of re-capturing.
	// 0 (default) bypasses the cache entirely.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.CaptureScreenshot == nil {
		t := true
		r.CaptureScreenshot = &t
	}
	if r.FullPageScreenshot == nil {
		t := true
		r.FullPageScreenshot = &t
	}
	if r.ViewportWidth == 0 {
		r.ViewportWidth = 1280
	}
	if r.ViewportHeight == 0 {
		r.ViewportHeight = 720
	}
	if r.WaitTimeMs == nil {
		w := 5000
		r.WaitTimeMs = &w
	}
}

// CloneRequest is the payload for POST /api/v1/clone.
type CloneRequest struct {
	// Snapshot is a previously captured snapshot (the body of a successful
	// /scrape response). Required.
	Snapshot *Snapshot `json:"snapshot" binding:"required"`

	// Model selects the vision-capable model. Identifiers outside the
	// configured allow-list are silently coerced to the default model.
	Model string `json:"model,omitempty"`

	// IncludeResponsive asks for mobile-first responsive CSS. Default: true.
	IncludeResponsive *bool `json:"include_responsive,omitempty"`

	// IncludeInteractions asks for hover effects and basic JS. Default: true.
	IncludeInteractions *bool `json:"include_interactions,omitempty"`

	// StyleApproach controls style placement: "embedded" (default),
	// "inline", or "mixed".
	StyleApproach string `json:"style_approach,omitempty" binding:"omitempty,oneof=embedded inline mixed"`
}

// Defaults applies default values to unset fields.
func (r *CloneRequest) Defaults() {
	if r.IncludeResponsive == nil {
		t := true
		r.IncludeResponsive = &t
	}
	if r.IncludeInteractions == nil {
		t := true
		r.IncludeInteractions = &t
	}
	if r.StyleApproach == "" {
		r.StyleApproach = "embedded"
	}
}
