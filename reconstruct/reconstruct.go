// Package reconstruct turns a captured page snapshot into a self-contained
// HTML reproduction via a vision-capable completion service.
package reconstruct

import (
	"context"
	"log/slog"
	"slices"

	"github.com/reweave-ai/reweave/config"
	"github.com/reweave-ai/reweave/llm"
	"github.com/reweave-ai/reweave/models"
)

// Reconstructor assembles prompts from snapshots, invokes the completion
// service, and sanitizes the raw response into loadable HTML. The LLM client
// is an injected dependency so tests can substitute a fake endpoint.
type Reconstructor struct {
	client *llm.Client
	cfg    config.LLMConfig
}

// New creates a Reconstructor around the given completion client.
func New(client *llm.Client, cfg config.LLMConfig) *Reconstructor {
	return &Reconstructor{client: client, cfg: cfg}
}

// Result is the outcome of one reconstruction.
type Result struct {
	// HTML is the sanitized standalone document.
	HTML string

	// ModelUsed is the effective model after allow-list coercion.
	ModelUsed string

	// Processing reports what went into the prompt.
	Processing models.ProcessingInfo

	// Usage is the completion service's token accounting, when reported.
	Usage *models.LLMUsage
}

// CoerceModel maps a requested model identifier onto the allow-list,
// substituting the default model for anything unrecognized. Unrecognized
// identifiers never fail a request.
func (r *Reconstructor) CoerceModel(requested string) string {
	if requested != "" && slices.Contains(r.cfg.SupportedModels, requested) {
		return requested
	}
	return r.cfg.DefaultModel
}

// SupportedModels returns the fixed allow-list.
func (r *Reconstructor) SupportedModels() []string {
	return r.cfg.SupportedModels
}

// Configured reports whether the underlying client has credentials.
func (r *Reconstructor) Configured() bool {
	return r.client.Configured()
}

// Reconstruct performs one synchronous reconstruction:
// context assembly → prompt construction → model invocation → sanitization.
func (r *Reconstructor) Reconstruct(ctx context.Context, req *models.CloneRequest) (*Result, error) {
	model := r.CoerceModel(req.Model)
	if req.Model != "" && model != req.Model {
		slog.Debug("unrecognized model coerced to default",
			"requested", req.Model, "effective", model,
		)
	}

	snap := req.Snapshot
	pageContext := BuildContext(snap)
	instructions := buildInstructions(*req.IncludeResponsive, *req.IncludeInteractions, req.StyleApproach)
	prompt := buildPrompt(instructions, pageContext)

	completion, err := r.client.Complete(ctx, llm.CompletionParams{
		Model:    model,
		Prompt:   prompt,
		ImagePNG: snap.Screenshot,
	})
	if err != nil {
		return nil, err
	}

	html := Sanitize(completion.Content)

	return &Result{
		HTML:      html,
		ModelUsed: model,
		Processing: models.ProcessingInfo{
			ContextLength:   len(pageContext),
			HasScreenshot:   snap.Screenshot != nil,
			ImagesProcessed: len(snap.DOM.Images),
			Responsive:      *req.IncludeResponsive,
			Interactive:     *req.IncludeInteractions,
		},
		Usage: completion.Usage,
	}, nil
}
