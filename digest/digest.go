// Package digest reduces rendered page HTML to a compact markdown digest
// that fits the model-context character budget.
package digest

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below this threshold we assume
// the algorithm failed to locate the main content and fall back to the full
// rendered HTML.
const minContentLength = 50

// Digester runs the two-stage digest pipeline:
//
//	Stage 1 (readability): extract main content, strip nav/footer/sidebar/ads
//	Stage 2 (markdown):    convert clean HTML to Markdown
//
// The converter is created once and reused across all requests
// (goroutine-safe).
type Digester struct {
	mdConverter *converter.Converter
}

// New initialises a Digester with a pre-configured Markdown converter.
//
//   - base plugin: strips script, style, iframe, noscript, head, meta, link,
//     input, textarea, HTML comments — all noise for the model.
//   - commonmark plugin: standard Markdown rendering.
//   - table plugin with minimal cell padding: preserves tabular structure
//     without wasting context characters on column alignment.
func New() *Digester {
	return &Digester{
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		),
	}
}

// Digest converts rawHTML to a markdown digest truncated to budget
// characters. It is best-effort throughout: readability failure falls back
// to the full HTML, conversion failure falls back to tag-stripped text, and
// an empty input yields an empty digest. Digest never returns an error —
// a missing content digest must not fail a capture.
func (d *Digester) Digest(rawHTML, sourceURL string, budget int) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	content := extractMainContent(rawHTML, sourceURL)

	md, err := d.mdConverter.ConvertString(content, converter.WithDomain(sourceURL))
	if err != nil {
		slog.Warn("markdown conversion failed, falling back to plain text",
			"url", sourceURL, "error", err,
		)
		md = stripTags(content)
	}

	return Truncate(strings.TrimSpace(md), budget)
}

// extractMainContent runs the Mozilla Readability algorithm on rawHTML and
// returns the main-content HTML, falling back to the full input when the
// algorithm errs or extracts too little text.
func extractMainContent(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return rawHTML
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability extraction failed, using full HTML",
			"url", sourceURL, "error", err,
		)
		return rawHTML
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		return rawHTML
	}
	return article.Content
}

// stripTags removes anything that looks like an HTML tag. Crude, but only
// used as the last-resort fallback when markdown conversion fails.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Truncate caps s at max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
