package capture

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/reweave-ai/reweave/models"
	"github.com/ysmood/gson"
)

// Capture loads the requested URL in a pooled browser page and extracts a
// Snapshot of its visual and structural state.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard          – hard deadline on the entire operation
//  2. Acquire page           – borrow a tab from the pool (or create one)
//  3. DEFER: cleanup         – about:blank + return to pool (leak prevention)
//  4. Stealth injection      – mask navigator.webdriver etc. (before navigation!)
//  5. UA + viewport          – realistic user-agent, requested viewport size
//  6. Navigate               – networkAlmostIdle wait, one DOMContentLoaded fallback
//  7. Settle delay           – fixed wait for client-side rendering
//  8. Extract                – title, final URL, HTML, DOM/CSS summaries, screenshot
//
// Steps 4-5 MUST happen before step 6: stealth JS and the user-agent override
// only take effect for navigations that happen after they are installed.
//
// Only browser acquisition failure and total navigation failure are fatal.
// Every extraction in step 8 is individually guarded and degrades to a zero
// value, so a partially extracted page still yields a usable Snapshot.
//
// Defaults is applied to req before use, so callers may pass a request with
// unset optional fields.
func (c *Capturer) Capture(ctx context.Context, req *models.ScrapeRequest) (*models.Snapshot, error) {
	req.Defaults()

	// ── 1. Timeout guard ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, c.captureCfg.DefaultTimeout)
	defer cancel()

	// ── 2. Acquire page from pool ─────────────────────────────────────
	c.activePages.Add(1)
	defer c.activePages.Add(-1)

	page, acquireErr := c.pagePool.Get(func() (*rod.Page, error) {
		return c.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewServiceError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 3. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	// Uses the ORIGINAL page reference (without request context), so cleanup
	// succeeds even if the request context has expired.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		c.pagePool.Put(page)
	}()

	// ── 4. Stealth injection ──────────────────────────────────────────
	if c.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 5. User-agent + viewport ──────────────────────────────────────
	if uaErr := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: c.browserCfg.UserAgent,
	}); uaErr != nil {
		slog.Warn("user-agent override failed", "error", uaErr)
	}
	if vpErr := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             req.ViewportWidth,
		Height:            req.ViewportHeight,
		DeviceScaleFactor: 1,
	}); vpErr != nil {
		slog.Warn("viewport override failed", "error", vpErr)
	}

	// ── 5b. Extra headers (custom + Google Referer) ───────────────────
	extraHeaders := make(map[string]string, len(req.Headers)+1)
	if _, hasReferer := req.Headers["Referer"]; !hasReferer {
		if u, parseErr := url.Parse(req.URL); parseErr == nil {
			extraHeaders["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		}
	}
	for k, v := range req.Headers {
		extraHeaders[k] = v
	}
	if len(extraHeaders) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(extraHeaders),
		}.Call(page)
	}

	// ── 6. Navigate (primary wait + single fallback) ──────────────────
	if navErr := c.navigate(ctx, page, req.URL); navErr != nil {
		return nil, navErr
	}

	// ── 7. Settle delay ───────────────────────────────────────────────
	// Fixed, not adaptive: gives SPAs time to finish client-side rendering.
	settle := time.Duration(*req.WaitTimeMs) * time.Millisecond
	if settle > c.captureCfg.MaxWaitTime {
		settle = c.captureCfg.MaxWaitTime
	}
	if settle > 0 {
		select {
		case <-time.After(settle):
		case <-ctx.Done():
		}
	}

	p := page.Context(ctx)

	// ── 8. Extract (every field best-effort) ──────────────────────────
	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		slog.Warn("rendered HTML extraction failed, continuing without content",
			"url", req.URL, "error", htmlErr,
		)
		rawHTML = ""
	}

	dom, domErr := extractDOMSummary(p)
	if domErr != nil {
		slog.Warn("in-page DOM extraction failed, rebuilding summary from rendered HTML",
			"url", req.URL, "error", domErr,
		)
		dom = fallbackDOMSummary(rawHTML, finalURL)
	}

	css, cssErr := extractCSSSummary(p)
	if cssErr != nil {
		slog.Warn("CSS extraction failed, continuing with empty summary",
			"url", req.URL, "error", cssErr,
		)
		css = models.CSSSummary{
			ExternalStylesheets: []models.StylesheetRef{},
			InlineStyles:        []models.InlineStyle{},
		}
	}

	var screenshot []byte
	if *req.CaptureScreenshot {
		shot, shotErr := p.Screenshot(*req.FullPageScreenshot, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if shotErr != nil {
			slog.Warn("screenshot capture failed, proceeding without screenshot",
				"url", req.URL, "error", shotErr,
			)
		} else {
			screenshot = shot
			slog.Debug("screenshot captured", "url", req.URL, "bytes", len(shot))
		}
	}

	content := c.digester.Digest(rawHTML, finalURL, c.captureCfg.ContentBudget)

	return &models.Snapshot{
		URL:         finalURL,
		OriginalURL: req.URL,
		Title:       title,
		Screenshot:  screenshot,
		Content:     content,
		DOM:         dom,
		CSS:         css,
		Viewport: models.Viewport{
			Width:  req.ViewportWidth,
			Height: req.ViewportHeight,
		},
		Stats: models.SnapshotStats{
			ContentLength: len(content),
			HasScreenshot: screenshot != nil,
			CSSRulesFound: css.RulesCount,
			ImagesFound:   len(dom.Images),
			DOMElements:   dom.ElementCount,
		},
	}, nil
}

// navigate performs the primary navigation attempt (network mostly idle)
// and, on failure, exactly one fallback attempt (DOMContentLoaded, shorter
// deadline). This single fallback is the only retry in the system.
func (c *Capturer) navigate(ctx context.Context, page *rod.Page, url string) error {
	primaryErr := navigateAndWait(ctx, page, url,
		c.captureCfg.NavTimeout, proto.PageLifecycleEventNameNetworkAlmostIdle)
	if primaryErr == nil {
		return nil
	}

	slog.Warn("primary navigation did not settle, retrying with DOMContentLoaded",
		"url", url, "error", primaryErr,
	)

	fallbackErr := navigateAndWait(ctx, page, url,
		c.captureCfg.FallbackNavTimeout, proto.PageLifecycleEventNameDOMContentLoaded)
	if fallbackErr != nil {
		return categorizeError(fallbackErr, "navigation to target URL failed")
	}
	return nil
}

// navigateAndWait navigates to url and blocks until the given lifecycle
// event fires or the deadline expires. The lifecycle listener is registered
// before Navigate so the event cannot fire before we start waiting.
func navigateAndWait(ctx context.Context, page *rod.Page, url string, timeout time.Duration, event proto.PageLifecycleEventName) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := page.Context(navCtx)
	wait := p.WaitNavigation(event)

	if err := p.Navigate(url); err != nil {
		return err
	}
	wait()

	// WaitNavigation returns silently on context expiry; surface it.
	return navCtx.Err()
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ServiceErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ServiceError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewServiceError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewServiceError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewServiceError(models.ErrCodeNavigation, msg, err)
	}
}
