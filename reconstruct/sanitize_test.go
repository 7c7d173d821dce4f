package reconstruct

import (
	"strings"
	"testing"
)

const minimalDoc = "<!DOCTYPE html>\n<html><head><title>x</title></head><body><p>hi</p></body></html>"

func TestSanitize_FencedBlockRoundTrip(t *testing.T) {
	raw := "Here is the recreation you asked for:\n```html\n" + minimalDoc + "\n```\nLet me know if you need changes!"

	got := Sanitize(raw)
	if got != minimalDoc {
		t.Errorf("fenced round-trip mismatch:\ngot:  %q\nwant: %q", got, minimalDoc)
	}
}

func TestSanitize_FenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n" + minimalDoc + "\n```"

	got := Sanitize(raw)
	if got != minimalDoc {
		t.Errorf("untagged fence mismatch:\ngot:  %q\nwant: %q", got, minimalDoc)
	}
}

func TestSanitize_MissingDoctype(t *testing.T) {
	raw := "<html><head></head><body>content</body></html>"

	got := Sanitize(raw)
	if !strings.HasPrefix(got, "<!DOCTYPE html>\n") {
		t.Fatalf("output should start with doctype, got: %q", got)
	}
	if !strings.HasPrefix(strings.TrimPrefix(got, "<!DOCTYPE html>\n"), "<html>") {
		t.Errorf("root tag should immediately follow the doctype, got: %q", got)
	}
}

func TestSanitize_TrailingCommentaryTruncated(t *testing.T) {
	raw := minimalDoc + "\n\nThis recreation captures the original layout faithfully."

	got := Sanitize(raw)
	if got != minimalDoc {
		t.Errorf("trailing commentary should be cut at </html>:\ngot:  %q", got)
	}
}

func TestSanitize_LeadingCommentaryTruncated(t *testing.T) {
	raw := "Sure! Here is the document.\n" + minimalDoc

	got := Sanitize(raw)
	if got != minimalDoc {
		t.Errorf("leading commentary should be cut before the doctype:\ngot: %q", got)
	}
}

func TestSanitize_MissingBodyInsertedAfterHead(t *testing.T) {
	raw := "```html\n<html><head></head></html>\n```"

	got := Sanitize(raw)

	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("doctype should be prepended, got: %q", got)
	}
	if n := strings.Count(got, "<body>"); n != 1 {
		t.Errorf("want exactly one <body>, got %d in %q", n, got)
	}
	if n := strings.Count(got, "</body>"); n != 1 {
		t.Errorf("want exactly one </body>, got %d in %q", n, got)
	}

	headClose := strings.Index(got, "</head>")
	bodyOpen := strings.Index(got, "<body>")
	bodyClose := strings.Index(got, "</body>")
	htmlClose := strings.Index(got, "</html>")
	if headClose == -1 || bodyOpen < headClose {
		t.Errorf("<body> should come after </head>: %q", got)
	}
	if strings.TrimSpace(got[headClose+len("</head>"):bodyOpen]) != "" {
		t.Errorf("<body> should immediately follow </head>: %q", got)
	}
	if bodyClose > htmlClose {
		t.Errorf("</body> should be inside </html>: %q", got)
	}
}

func TestSanitize_NoRootTagSynthesizesWrapper(t *testing.T) {
	raw := "<head><title>t</title></head><p>hello</p>"

	got := Sanitize(raw)
	if !strings.Contains(got, "<html") || !strings.HasSuffix(got, "</html>") {
		t.Errorf("missing root tag should be synthesized: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Errorf("content should be preserved: %q", got)
	}
}

func TestSanitize_BareContentGetsFullWrapper(t *testing.T) {
	raw := "<div>just a fragment</div>"

	got := Sanitize(raw)
	for _, marker := range []string{"<!DOCTYPE html>", "<html", "</html>", "<body>", "</body>"} {
		if !strings.Contains(got, marker) {
			t.Errorf("want %q in output, got: %q", marker, got)
		}
	}
	if !strings.Contains(got, "<div>just a fragment</div>") {
		t.Errorf("content should be preserved: %q", got)
	}
}

func TestSanitize_ExistingBodyUntouched(t *testing.T) {
	got := Sanitize(minimalDoc)
	if got != minimalDoc {
		t.Errorf("already clean document should pass through unchanged:\ngot: %q", got)
	}
}

func TestSanitize_WhitespaceTrimmed(t *testing.T) {
	got := Sanitize("\n\n  " + minimalDoc + "  \n")
	if got != minimalDoc {
		t.Errorf("surrounding whitespace should be trimmed: %q", got)
	}
}

func TestSanitize_LowercaseDoctypeAccepted(t *testing.T) {
	raw := "<!doctype html>\n<html><body>x</body></html>"

	got := Sanitize(raw)
	if strings.Count(strings.ToLower(got), "<!doctype") != 1 {
		t.Errorf("lowercase doctype should not be doubled: %q", got)
	}
}
