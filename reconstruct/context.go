package reconstruct

import (
	"fmt"
	"strings"

	"github.com/reweave-ai/reweave/models"
)

// Caps on how much of each snapshot list enters the model context. All
// selections take the first N entries, which are already in document order;
// nothing is reordered or ranked.
const (
	contextMaxH1       = 3
	contextMaxH2       = 5
	contextMaxImageAlt = 5
	contextMaxLinks    = 10
	contextMaxSamples  = 3
	contextSampleLen   = 100
)

// BuildContext deterministically renders the snapshot's structured fields
// into the natural-language analysis block that accompanies the prompt.
// The same snapshot always produces the same context.
func BuildContext(snap *models.Snapshot) string {
	var parts []string

	add := func(format string, args ...any) {
		parts = append(parts, fmt.Sprintf(format, args...))
	}

	add("URL: %s", orNA(snap.URL))
	add("Title: %s", orNA(snap.Title))

	if snap.DOM.Meta.Description != "" {
		add("Description: %s", snap.DOM.Meta.Description)
	}

	if sections := layoutSections(snap.DOM.Layout); len(sections) > 0 {
		add("Layout Sections: %s", strings.Join(sections, ", "))
	}

	colors := snap.DOM.Colors
	if colors.Background != "" || colors.Text != "" {
		add("Color Scheme - Background: %s, Text: %s", orNA(colors.Background), orNA(colors.Text))
	}
	if colors.Primary != "" {
		add("Primary Accent: %s", colors.Primary)
	}

	typo := snap.DOM.Typography
	if typo.BodyFont != "" || typo.BodySize != "" {
		add("Typography - Body: %s, Size: %s", orNA(typo.BodyFont), orNA(typo.BodySize))
	}
	if typo.HeadingFont != "" {
		add("Heading Font: %s", typo.HeadingFont)
	}

	if h1 := firstN(snap.DOM.Headings.H1, contextMaxH1); len(h1) > 0 {
		add("Main Headings: %s", strings.Join(h1, ", "))
	}
	if h2 := firstN(snap.DOM.Headings.H2, contextMaxH2); len(h2) > 0 {
		add("Subheadings: %s", strings.Join(h2, ", "))
	}

	if n := len(snap.DOM.Images); n > 0 {
		add("Images Found: %d images", n)
		var alts []string
		for _, img := range snap.DOM.Images {
			if len(alts) >= contextMaxImageAlt {
				break
			}
			if img.Alt != "" {
				alts = append(alts, "'"+img.Alt+"'")
			}
		}
		if len(alts) > 0 {
			add("Image Descriptions: %s", strings.Join(alts, ", "))
		}
	}

	var labels []string
	for _, link := range snap.DOM.Links {
		if len(labels) >= contextMaxLinks {
			break
		}
		if link.Text != "" {
			labels = append(labels, link.Text)
		}
	}
	if len(labels) > 0 {
		add("Navigation Links: %s", strings.Join(labels, ", "))
	}

	var samples []string
	for _, sample := range snap.DOM.TextSamples {
		if len(samples) >= contextMaxSamples {
			break
		}
		if sample.Text != "" {
			samples = append(samples, clip(sample.Text, contextSampleLen))
		}
	}
	if len(samples) > 0 {
		add("Sample Content: %s", strings.Join(samples, " | "))
	}

	if len(snap.DOM.Forms) > 0 {
		add("Forms Found: %d", len(snap.DOM.Forms))
	}

	add("Page Stats - Elements: %d, Images: %d, CSS Rules: %d",
		snap.Stats.DOMElements, snap.Stats.ImagesFound, snap.Stats.CSSRulesFound)

	return strings.Join(parts, "\n")
}

// layoutSections lists detected layout sections in a fixed order.
func layoutSections(layout models.LayoutFlags) []string {
	var sections []string
	if layout.HasHeader {
		sections = append(sections, "Header")
	}
	if layout.HasNav {
		sections = append(sections, "Navigation")
	}
	if layout.HasMain {
		sections = append(sections, "Main Content")
	}
	if layout.HasSidebar {
		sections = append(sections, "Sidebar")
	}
	if layout.HasFooter {
		sections = append(sections, "Footer")
	}
	return sections
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
