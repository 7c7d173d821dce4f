package capture

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/reweave-ai/reweave/models"
)

// fallbackDOMSummary rebuilds the structural summary from the rendered HTML
// when the in-page extraction script failed. Computed styles are not
// available outside the browser, so colors and typography stay empty; the
// structural fields (headings, links, images, layout flags, text samples,
// forms) are recovered with the same caps and document ordering as the
// in-page script.
func fallbackDOMSummary(rawHTML, sourceURL string) models.DOMSummary {
	summary := models.DOMSummary{
		Headings:    models.Headings{H1: []string{}, H2: []string{}, H3: []string{}},
		Links:       []models.LinkInfo{},
		Images:      []models.ImageInfo{},
		TextSamples: []models.TextSample{},
		Forms:       []models.FormInfo{},
	}
	if rawHTML == "" {
		return summary
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return summary
	}

	base, _ := url.Parse(sourceURL)

	summary.Meta = models.PageMeta{
		Description: metaContent(doc, "description"),
		Keywords:    metaContent(doc, "keywords"),
		Viewport:    metaContent(doc, "viewport"),
	}

	summary.Headings = models.Headings{
		H1: headingTexts(doc, "h1"),
		H2: headingTexts(doc, "h2"),
		H3: headingTexts(doc, "h3"),
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(summary.Links) >= models.MaxLinks {
			return false
		}
		href, _ := s.Attr("href")
		text := truncate(strings.TrimSpace(s.Text()), 100)
		if text == "" || href == "" {
			return true
		}
		if base != nil {
			if resolved, resErr := base.Parse(href); resErr == nil {
				href = resolved.String()
			}
		}
		summary.Links = append(summary.Links, models.LinkInfo{Text: text, Href: href})
		return true
	})

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(summary.Images) >= models.MaxImages {
			return false
		}
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		if base != nil && src != "" {
			if resolved, resErr := base.Parse(src); resErr == nil {
				src = resolved.String()
			}
		}
		summary.Images = append(summary.Images, models.ImageInfo{
			Src:    src,
			Alt:    alt,
			Width:  attrInt(s, "width"),
			Height: attrInt(s, "height"),
		})
		return true
	})

	summary.Layout = models.LayoutFlags{
		HasNav:     doc.Find("nav, .nav, .navbar").Length() > 0,
		HasHeader:  doc.Find("header, .header").Length() > 0,
		HasFooter:  doc.Find("footer, .footer").Length() > 0,
		HasSidebar: doc.Find("aside, .sidebar").Length() > 0,
		HasMain:    doc.Find("main, .main, .content").Length() > 0,
	}

	doc.Find("p, li, blockquote, td, figcaption, h1, h2, h3, h4, h5, h6").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if len(summary.TextSamples) >= models.MaxTextSamples {
				return false
			}
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return true
			}
			summary.TextSamples = append(summary.TextSamples, models.TextSample{
				Text:   truncate(text, models.MaxTextSampleLen),
				Parent: goquery.NodeName(s),
			})
			return true
		})

	doc.Find("form").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(summary.Forms) >= models.MaxForms {
			return false
		}
		action, _ := s.Attr("action")
		method, _ := s.Attr("method")
		summary.Forms = append(summary.Forms, models.FormInfo{
			Action: action,
			Method: method,
			Fields: s.Find("input, textarea, select").Length(),
		})
		return true
	})

	summary.ElementCount = doc.Find("*").Length()

	return summary
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(`meta[name="` + name + `"]`).Attr("content")
	return content
}

func headingTexts(doc *goquery.Document, tag string) []string {
	texts := []string{}
	doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(texts) >= models.MaxHeadingsPerLevel {
			return false
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
		return true
	})
	return texts
}

func attrInt(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
