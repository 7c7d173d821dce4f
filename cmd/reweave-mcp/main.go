// Command reweave-mcp is a stdio MCP server that exposes the Reweave HTTP
// API as tools, so MCP-capable agents can capture page snapshots and clone
// websites without speaking HTTP themselves.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorDetail mirrors the Reweave API error shape.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// snapshotSummary is the subset of a snapshot worth relaying over MCP.
// The screenshot payload is intentionally dropped: base64 PNG bytes are
// useless noise in a text tool result.
type snapshotSummary struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Stats   *struct {
		ContentLength int  `json:"content_length"`
		HasScreenshot bool `json:"has_screenshot"`
		CSSRulesFound int  `json:"css_rules_found"`
		ImagesFound   int  `json:"images_found"`
		DOMElements   int  `json:"dom_elements"`
	} `json:"stats"`
}

// scrapeResponse mirrors the Reweave /scrape response model.
type scrapeResponse struct {
	Success  bool             `json:"success"`
	Snapshot *snapshotSummary `json:"snapshot"`
	Error    *errorDetail     `json:"error"`
}

// combinedResponse mirrors the Reweave /scrape-and-clone response model.
type combinedResponse struct {
	Success     bool         `json:"success"`
	ModelUsed   string       `json:"model_used"`
	HTMLContent string       `json:"html_content"`
	Error       *errorDetail `json:"error"`
}

func main() {
	apiURL := os.Getenv("REWEAVE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("REWEAVE_API_KEY")

	s := server.NewMCPServer(
		"reweave",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape_page",
		mcp.WithDescription("Capture a structured snapshot of a web page (title, DOM summary, CSS summary, content digest) using a headless browser."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to capture"),
		),
		mcp.WithNumber("wait_time_ms",
			mcp.Description("Fixed settle delay in milliseconds after navigation (default 5000)"),
		),
	)
	s.AddTool(scrapeTool, handleScrapePage(apiURL, apiKey))

	cloneTool := mcp.NewTool("clone_site",
		mcp.WithDescription("Capture a web page and reconstruct it as a self-contained HTML document via a vision-capable model. Returns the raw HTML."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web site to clone"),
		),
	)
	s.AddTool(cloneTool, handleCloneSite(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleScrapePage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{
			"url":                url,
			"capture_screenshot": false,
		}
		if wait := request.GetFloat("wait_time_ms", -1); wait >= 0 {
			payload["wait_time_ms"] = int(wait)
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		var scrapeResp scrapeResponse
		if err := json.Unmarshal(respBody, &scrapeResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !scrapeResp.Success || scrapeResp.Snapshot == nil {
			errMsg := "scrape failed"
			if scrapeResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", scrapeResp.Error.Code, scrapeResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		snap := scrapeResp.Snapshot
		result := fmt.Sprintf("Title: %s\nURL: %s\n\n%s", snap.Title, snap.URL, snap.Content)
		if snap.Stats != nil {
			result += fmt.Sprintf("\n\n---\nElements: %d, Images: %d, CSS rules: %d",
				snap.Stats.DOMElements, snap.Stats.ImagesFound, snap.Stats.CSSRulesFound)
		}

		return mcp.NewToolResultText(result), nil
	}
}

func handleCloneSite(apiURL, apiKey string) server.ToolHandlerFunc {
	// Clone requests carry a full capture plus an LLM round-trip.
	client := &http.Client{Timeout: 420 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{"url": url}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape-and-clone", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		var cloneResp combinedResponse
		if err := json.Unmarshal(respBody, &cloneResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !cloneResp.Success {
			errMsg := "clone failed"
			if cloneResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", cloneResp.Error.Code, cloneResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(cloneResp.HTMLContent), nil
	}
}

// apiPost sends a JSON payload to the Reweave API and returns the raw body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
