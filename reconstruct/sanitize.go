package reconstruct

import (
	"regexp"
	"strings"
)

// Sanitize turns raw model output into a loadable standalone HTML document.
// It is an ordered pipeline of pure string stages:
//
//  1. stripCodeFence   – unwrap the first fenced code block, discard commentary
//  2. trimToDocument   – cut leading/trailing prose around the document
//  3. ensureDoctype    – prepend <!DOCTYPE html> when missing
//  4. ensureRootTag    – wrap in <html> when no root element is present
//  5. ensureBody       – insert <body> markers when missing
//
// Sanitization is best-effort, not a validating parser: the result is
// returned as-is even if still structurally imperfect. If any stage panics,
// the original input is returned unchanged — sanitization must never turn a
// usable (if imperfect) response into a hard failure.
func Sanitize(raw string) (out string) {
	defer func() {
		if recover() != nil {
			out = raw
		}
	}()

	out = raw
	for _, stage := range sanitizeStages {
		out = stage(out)
	}
	return strings.TrimSpace(out)
}

var sanitizeStages = []func(string) string{
	stripCodeFence,
	trimToDocument,
	ensureDoctype,
	ensureRootTag,
	ensureBody,
}

var (
	htmlFenceRe  = regexp.MustCompile("(?s)```html\\s*(.*?)\\s*```")
	plainFenceRe = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// stripCodeFence extracts the contents of the first fenced code block,
// preferring an html-tagged fence, and discards everything around it.
func stripCodeFence(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	if m := htmlFenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := plainFenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// trimToDocument locates the document inside surrounding prose: it starts at
// the doctype declaration (preferred) or the first <html tag, and ends after
// the last </html> closing tag when one is present.
func trimToDocument(s string) string {
	lower := strings.ToLower(s)

	start := strings.Index(lower, "<!doctype")
	if start == -1 {
		start = strings.Index(lower, "<html")
	}
	if start == -1 {
		start = 0
	}

	end := strings.LastIndex(lower, "</html>")
	if end != -1 {
		return s[start : end+len("</html>")]
	}
	return s[start:]
}

// ensureDoctype prepends a standard doctype declaration when missing.
func ensureDoctype(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 9 && strings.EqualFold(trimmed[:9], "<!doctype") {
		return trimmed
	}
	return "<!DOCTYPE html>\n" + trimmed
}

// ensureRootTag wraps the content in an <html> element when no document
// root tag is present. Runs after ensureDoctype, so the string starts with
// a doctype declaration.
func ensureRootTag(s string) string {
	if strings.Contains(strings.ToLower(s), "<html") {
		return s
	}

	// Insert the opening tag right after the doctype declaration.
	if i := strings.Index(s, ">"); i != -1 {
		return s[:i+1] + "\n<html lang=\"en\">" + s[i+1:] + "\n</html>"
	}
	return "<html lang=\"en\">\n" + s + "\n</html>"
}

// ensureBody inserts body markers when neither <body> nor </body> is
// present: immediately after the head section, or right after the root
// opening tag when there is no head either.
func ensureBody(s string) string {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "<body") || strings.Contains(lower, "</body>") {
		return s
	}

	insertAt := -1
	if i := strings.Index(lower, "</head>"); i != -1 {
		insertAt = i + len("</head>")
	} else if i := strings.Index(lower, "<html"); i != -1 {
		if j := strings.Index(s[i:], ">"); j != -1 {
			insertAt = i + j + 1
		}
	}
	if insertAt == -1 {
		insertAt = 0
	}

	pre, rest := s[:insertAt], s[insertAt:]

	// Keep </body> inside the document: place it before the trailing
	// </html> when one exists.
	if i := strings.LastIndex(strings.ToLower(rest), "</html>"); i != -1 {
		return pre + "\n<body>\n" + rest[:i] + "\n</body>\n" + rest[i:]
	}
	return pre + "\n<body>\n" + rest + "\n</body>"
}
