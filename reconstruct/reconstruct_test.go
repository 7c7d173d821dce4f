package reconstruct

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reweave-ai/reweave/config"
	"github.com/reweave-ai/reweave/llm"
	"github.com/reweave-ai/reweave/models"
)

// capturedChatRequest records what the fake completion endpoint received.
type capturedChatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL *struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
}

func newTestReconstructor(t *testing.T, handler http.HandlerFunc) (*Reconstructor, *capturedChatRequest) {
	t.Helper()

	captured := &capturedChatRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := config.LLMConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		DefaultModel:    "gpt-4o",
		SupportedModels: []string{"gpt-4o", "gpt-4o-mini"},
		MaxTokens:       4000,
		Temperature:     0.05,
		TopP:            0.9,
		Timeout:         5 * time.Second,
	}
	return New(llm.NewClient(nil, cfg), cfg), captured
}

func completionHandler(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		})
	}
}

func newCloneRequest(snap *models.Snapshot, model string) *models.CloneRequest {
	req := &models.CloneRequest{Snapshot: snap, Model: model}
	req.Defaults()
	return req
}

func TestReconstruct_SanitizesFencedResponse(t *testing.T) {
	rc, _ := newTestReconstructor(t, completionHandler("```html\n"+minimalDoc+"\n```"))

	result, err := rc.Reconstruct(context.Background(), newCloneRequest(sampleSnapshot(), ""))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if result.HTML != minimalDoc {
		t.Errorf("fenced response should be unwrapped:\ngot:  %q\nwant: %q", result.HTML, minimalDoc)
	}
	if result.Usage == nil || result.Usage.TotalTokens != 30 {
		t.Errorf("usage should be propagated, got %+v", result.Usage)
	}
}

func TestReconstruct_UnrecognizedModelCoercedToDefault(t *testing.T) {
	rc, captured := newTestReconstructor(t, completionHandler(minimalDoc))

	result, err := rc.Reconstruct(context.Background(), newCloneRequest(sampleSnapshot(), "gpt-999-turbo"))
	if err != nil {
		t.Fatalf("unrecognized model must not fail the request: %v", err)
	}
	if result.ModelUsed != "gpt-4o" {
		t.Errorf("effective model = %q, want default gpt-4o", result.ModelUsed)
	}
	if captured.Model != "gpt-4o" {
		t.Errorf("model sent to the service = %q, want gpt-4o", captured.Model)
	}
}

func TestReconstruct_AllowListedModelKept(t *testing.T) {
	rc, captured := newTestReconstructor(t, completionHandler(minimalDoc))

	result, err := rc.Reconstruct(context.Background(), newCloneRequest(sampleSnapshot(), "gpt-4o-mini"))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if result.ModelUsed != "gpt-4o-mini" || captured.Model != "gpt-4o-mini" {
		t.Errorf("allow-listed model should be kept, got %q / %q", result.ModelUsed, captured.Model)
	}
}

func TestReconstruct_NoScreenshotMeansNoImagePart(t *testing.T) {
	rc, captured := newTestReconstructor(t, completionHandler(minimalDoc))

	snap := sampleSnapshot()
	snap.Screenshot = nil

	result, err := rc.Reconstruct(context.Background(), newCloneRequest(snap, ""))
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if result.Processing.HasScreenshot {
		t.Error("processing info should report no screenshot")
	}

	if len(captured.Messages) != 1 {
		t.Fatalf("want 1 message, got %d", len(captured.Messages))
	}
	for _, part := range captured.Messages[0].Content {
		if part.Type == "image_url" || part.ImageURL != nil {
			t.Error("prompt must contain no image reference without a screenshot")
		}
	}
}

func TestReconstruct_ScreenshotAttachedAsDataURI(t *testing.T) {
	rc, captured := newTestReconstructor(t, completionHandler(minimalDoc))

	snap := sampleSnapshot()
	snap.Screenshot = []byte{0x89, 'P', 'N', 'G'}

	if _, err := rc.Reconstruct(context.Background(), newCloneRequest(snap, "")); err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	var found bool
	for _, part := range captured.Messages[0].Content {
		if part.Type == "image_url" && part.ImageURL != nil {
			found = true
			if !strings.HasPrefix(part.ImageURL.URL, "data:image/png;base64,") {
				t.Errorf("image should be an inline PNG data URI, got %q", part.ImageURL.URL)
			}
		}
	}
	if !found {
		t.Error("screenshot should be attached as an image part")
	}
}

func TestReconstruct_PromptContainsContextAndConstraint(t *testing.T) {
	rc, captured := newTestReconstructor(t, completionHandler(minimalDoc))

	if _, err := rc.Reconstruct(context.Background(), newCloneRequest(sampleSnapshot(), "")); err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}

	text := captured.Messages[0].Content[0].Text
	if !strings.Contains(text, "Website Analysis:") {
		t.Error("prompt should embed the snapshot analysis block")
	}
	if !strings.Contains(text, "URL: https://example.com/") {
		t.Error("prompt should carry the snapshot URL")
	}
	if !strings.Contains(text, "Provide ONLY the complete HTML code") {
		t.Error("prompt should end with the output-format constraint")
	}
}

func TestReconstruct_EmptyChoicesIsReconstructionError(t *testing.T) {
	rc, _ := newTestReconstructor(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := rc.Reconstruct(context.Background(), newCloneRequest(sampleSnapshot(), ""))
	if err == nil {
		t.Fatal("want error for empty choices")
	}
	var svcErr *models.ServiceError
	if !errors.As(err, &svcErr) || svcErr.Code != models.ErrCodeLLMFailure {
		t.Errorf("want %s, got %v", models.ErrCodeLLMFailure, err)
	}
}

func TestCoerceModel(t *testing.T) {
	rc, _ := newTestReconstructor(t, completionHandler(minimalDoc))

	tests := []struct {
		requested string
		want      string
	}{
		{"", "gpt-4o"},
		{"gpt-4o", "gpt-4o"},
		{"gpt-4o-mini", "gpt-4o-mini"},
		{"claude-9000", "gpt-4o"},
		{"GPT-4O", "gpt-4o"}, // allow-list match is exact
	}
	for _, tt := range tests {
		if got := rc.CoerceModel(tt.requested); got != tt.want {
			t.Errorf("CoerceModel(%q) = %q, want %q", tt.requested, got, tt.want)
		}
	}
}
