package capture

import (
	"fmt"
	"strings"
	"testing"

	"github.com/reweave-ai/reweave/models"
)

const fallbackFixture = `<!DOCTYPE html>
<html>
<head>
  <meta name="description" content="A demo page">
  <meta name="viewport" content="width=device-width">
  <title>Demo</title>
</head>
<body>
  <header><h1>Welcome</h1></header>
  <nav>
    <a href="/">Home</a>
    <a href="/about">About</a>
    <a href="https://other.example/ext">External</a>
    <a href="/empty"> </a>
  </nav>
  <main>
    <h2>Features</h2>
    <p>First paragraph of content.</p>
    <img src="/logo.png" alt="Logo" width="64" height="32">
    <img src="https://cdn.example/hero.jpg" alt="">
    <form action="/search" method="get">
      <input name="q"><select><option>a</option></select>
    </form>
  </main>
  <footer><p>Footer text</p></footer>
</body>
</html>`

func TestFallbackDOMSummary_Structure(t *testing.T) {
	s := fallbackDOMSummary(fallbackFixture, "https://example.com/page")

	if s.Meta.Description != "A demo page" {
		t.Errorf("description = %q", s.Meta.Description)
	}
	if s.Meta.Viewport != "width=device-width" {
		t.Errorf("viewport meta = %q", s.Meta.Viewport)
	}

	if len(s.Headings.H1) != 1 || s.Headings.H1[0] != "Welcome" {
		t.Errorf("h1 = %v", s.Headings.H1)
	}
	if len(s.Headings.H2) != 1 || s.Headings.H2[0] != "Features" {
		t.Errorf("h2 = %v", s.Headings.H2)
	}

	if !s.Layout.HasNav || !s.Layout.HasHeader || !s.Layout.HasFooter || !s.Layout.HasMain {
		t.Errorf("layout flags = %+v", s.Layout)
	}
	if s.Layout.HasSidebar {
		t.Error("no sidebar in fixture")
	}

	if len(s.Forms) != 1 {
		t.Fatalf("forms = %d, want 1", len(s.Forms))
	}
	if s.Forms[0].Action != "/search" || s.Forms[0].Method != "get" || s.Forms[0].Fields != 2 {
		t.Errorf("form = %+v", s.Forms[0])
	}

	if s.ElementCount == 0 {
		t.Error("element count should be populated")
	}
}

func TestFallbackDOMSummary_ResolvesRelativeURLs(t *testing.T) {
	s := fallbackDOMSummary(fallbackFixture, "https://example.com/page")

	// The empty-text link is skipped; the other three survive.
	if len(s.Links) != 3 {
		t.Fatalf("links = %d, want 3", len(s.Links))
	}
	if s.Links[0].Href != "https://example.com/" {
		t.Errorf("relative href not resolved: %q", s.Links[0].Href)
	}
	if s.Links[1].Href != "https://example.com/about" {
		t.Errorf("relative href not resolved: %q", s.Links[1].Href)
	}
	if s.Links[2].Href != "https://other.example/ext" {
		t.Errorf("absolute href should pass through: %q", s.Links[2].Href)
	}

	if len(s.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(s.Images))
	}
	if s.Images[0].Src != "https://example.com/logo.png" {
		t.Errorf("relative img src not resolved: %q", s.Images[0].Src)
	}
	if s.Images[0].Width != 64 || s.Images[0].Height != 32 {
		t.Errorf("img dimensions = %dx%d", s.Images[0].Width, s.Images[0].Height)
	}
}

func TestFallbackDOMSummary_TextSamplesDocumentOrder(t *testing.T) {
	s := fallbackDOMSummary(fallbackFixture, "https://example.com/page")

	if len(s.TextSamples) == 0 {
		t.Fatal("expected text samples")
	}
	if s.TextSamples[0].Text != "Welcome" || s.TextSamples[0].Parent != "h1" {
		t.Errorf("first sample = %+v, want the h1 in document order", s.TextSamples[0])
	}
}

func TestFallbackDOMSummary_Caps(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < models.MaxLinks+10; i++ {
		fmt.Fprintf(&b, `<a href="/p%d">link %d</a>`, i, i)
	}
	for i := 0; i < models.MaxHeadingsPerLevel+5; i++ {
		fmt.Fprintf(&b, "<h1>heading %d</h1>", i)
	}
	fmt.Fprintf(&b, "<p>%s</p>", strings.Repeat("x", models.MaxTextSampleLen+50))
	b.WriteString("</body></html>")

	s := fallbackDOMSummary(b.String(), "https://example.com/")

	if len(s.Links) != models.MaxLinks {
		t.Errorf("links = %d, want cap %d", len(s.Links), models.MaxLinks)
	}
	if len(s.Headings.H1) != models.MaxHeadingsPerLevel {
		t.Errorf("h1 = %d, want cap %d", len(s.Headings.H1), models.MaxHeadingsPerLevel)
	}
	for _, ts := range s.TextSamples {
		if len(ts.Text) > models.MaxTextSampleLen {
			t.Errorf("sample exceeds cap: %d bytes", len(ts.Text))
		}
	}
}

func TestFallbackDOMSummary_EmptyInput(t *testing.T) {
	s := fallbackDOMSummary("", "https://example.com/")

	// Slices must be non-nil so they serialize as [] rather than null.
	if s.Links == nil || s.Images == nil || s.TextSamples == nil || s.Forms == nil {
		t.Error("empty summary should have empty, non-nil slices")
	}
	if s.Headings.H1 == nil {
		t.Error("headings should be empty, non-nil slices")
	}
}
