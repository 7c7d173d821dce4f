package models

import "testing"

func TestScrapeRequestDefaults(t *testing.T) {
	req := &ScrapeRequest{URL: "https://example.com"}
	req.Defaults()

	if req.CaptureScreenshot == nil || !*req.CaptureScreenshot {
		t.Error("capture_screenshot should default to true")
	}
	if req.FullPageScreenshot == nil || !*req.FullPageScreenshot {
		t.Error("full_page_screenshot should default to true")
	}
	if req.ViewportWidth != 1280 || req.ViewportHeight != 720 {
		t.Errorf("viewport defaults = %dx%d, want 1280x720", req.ViewportWidth, req.ViewportHeight)
	}
	if req.WaitTimeMs == nil || *req.WaitTimeMs != 5000 {
		t.Error("wait_time_ms should default to 5000")
	}
	if req.MaxAge != 0 {
		t.Error("max_age should default to 0 (cache bypass)")
	}
}

func TestScrapeRequestDefaults_ExplicitFalsePreserved(t *testing.T) {
	f := false
	zero := 0
	req := &ScrapeRequest{
		URL:                "https://example.com",
		CaptureScreenshot:  &f,
		FullPageScreenshot: &f,
		WaitTimeMs:         &zero,
		ViewportWidth:      800,
		ViewportHeight:     600,
	}
	req.Defaults()

	if *req.CaptureScreenshot || *req.FullPageScreenshot {
		t.Error("explicit false flags must survive Defaults")
	}
	if *req.WaitTimeMs != 0 {
		t.Error("explicit zero wait time must survive Defaults")
	}
	if req.ViewportWidth != 800 || req.ViewportHeight != 600 {
		t.Error("explicit viewport must survive Defaults")
	}
}

func TestScrapeRequestDefaults_Idempotent(t *testing.T) {
	f := false
	w := 1200
	req := &ScrapeRequest{URL: "https://example.com", CaptureScreenshot: &f, WaitTimeMs: &w}
	req.Defaults()
	req.Defaults()

	if *req.CaptureScreenshot || *req.WaitTimeMs != 1200 {
		t.Error("repeated Defaults must not overwrite set values")
	}
	if !*req.FullPageScreenshot || req.ViewportWidth != 1280 {
		t.Error("repeated Defaults must keep filling unset values consistently")
	}
}

func TestCloneRequestDefaults(t *testing.T) {
	req := &CloneRequest{Snapshot: &Snapshot{}}
	req.Defaults()

	if req.IncludeResponsive == nil || !*req.IncludeResponsive {
		t.Error("include_responsive should default to true")
	}
	if req.IncludeInteractions == nil || !*req.IncludeInteractions {
		t.Error("include_interactions should default to true")
	}
	if req.StyleApproach != "embedded" {
		t.Errorf("style_approach = %q, want embedded", req.StyleApproach)
	}

	f := false
	req2 := &CloneRequest{Snapshot: &Snapshot{}, IncludeResponsive: &f, StyleApproach: "inline"}
	req2.Defaults()
	if *req2.IncludeResponsive {
		t.Error("explicit false must survive Defaults")
	}
	if req2.StyleApproach != "inline" {
		t.Error("explicit style approach must survive Defaults")
	}
}
