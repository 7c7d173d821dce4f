package digest

import (
	"strings"
	"testing"
)

func articleHTML(paragraphs int) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>Post</title><script>var x=1;</script></head><body>`)
	b.WriteString(`<nav><a href="/">Home</a><a href="/about">About</a></nav>`)
	b.WriteString(`<article><h1>The Heading</h1>`)
	for i := 0; i < paragraphs; i++ {
		b.WriteString(`<p>This is a reasonably long paragraph of article body text that the readability pass should keep intact.</p>`)
	}
	b.WriteString(`</article><footer>Copyright footer boilerplate</footer></body></html>`)
	return b.String()
}

func TestDigest_ProducesMarkdown(t *testing.T) {
	d := New()
	got := d.Digest(articleHTML(5), "https://example.com/post", 0)

	if !strings.Contains(got, "The Heading") {
		t.Errorf("digest should contain the article heading:\n%s", got)
	}
	if !strings.Contains(got, "article body text") {
		t.Errorf("digest should contain the article body:\n%s", got)
	}
	if strings.Contains(got, "var x=1") {
		t.Errorf("scripts must not leak into the digest:\n%s", got)
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "<article>") {
		t.Errorf("digest should be markdown, not HTML:\n%s", got)
	}
}

func TestDigest_RespectsBudget(t *testing.T) {
	d := New()
	got := d.Digest(articleHTML(50), "https://example.com/post", 500)

	if len(got) > 500 {
		t.Errorf("digest = %d bytes, budget 500", len(got))
	}
	if got == "" {
		t.Error("digest should not be empty under a positive budget")
	}
}

func TestDigest_EmptyInput(t *testing.T) {
	d := New()
	if got := d.Digest("", "https://example.com/", 1000); got != "" {
		t.Errorf("empty input should yield empty digest, got %q", got)
	}
	if got := d.Digest("   \n\t", "https://example.com/", 1000); got != "" {
		t.Errorf("blank input should yield empty digest, got %q", got)
	}
}

func TestDigest_ShortPageFallsBackToFullHTML(t *testing.T) {
	d := New()
	// Too little text for readability; the full document is digested instead.
	got := d.Digest("<html><body><p>tiny</p></body></html>", "https://example.com/", 0)

	if !strings.Contains(got, "tiny") {
		t.Errorf("short-page content should survive the fallback path, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>hello <b>world</b></p>", "hello world"},
		{"no tags here", "no tags here"},
		{"<div>\n  spaced \n out  </div>", "spaced out"},
		{"<br>", ""},
	}
	for _, tt := range tests {
		if got := stripTags(tt.in); got != tt.want {
			t.Errorf("stripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("max 0 means unlimited, got %q", got)
	}
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("ASCII cut = %q", got)
	}
	if got := Truncate("héllo", 2); got != "h" {
		t.Errorf("multibyte rune must not be split, got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("under budget should pass through, got %q", got)
	}
}
