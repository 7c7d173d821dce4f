package capture

import (
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/reweave-ai/reweave/models"
)

// domSummaryJS runs inside the page and returns the structural summary as a
// plain object whose keys match the models.DOMSummary JSON tags. All capped
// lists take the first N matches in document order (querySelectorAll order).
// The caps mirror the models.Max* constants.
const domSummaryJS = `() => {
	const text = (el) => (el && el.textContent ? el.textContent.trim() : "");

	const headings = (sel) => Array.from(document.querySelectorAll(sel))
		.map(text)
		.filter(t => t.length > 0)
		.slice(0, 10);

	const textSamples = () => {
		const samples = [];
		const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
		let node;
		while ((node = walker.nextNode()) && samples.length < 50) {
			const t = node.textContent.trim();
			if (t.length > 0) {
				samples.push({
					text: t.substring(0, 200),
					parent: node.parentElement ? node.parentElement.tagName.toLowerCase() : "",
				});
			}
		}
		return samples;
	};

	const meta = (name) => {
		const el = document.querySelector('meta[name="' + name + '"]');
		return el && el.content ? el.content : "";
	};

	const bodyStyle = window.getComputedStyle(document.body);
	const h1 = document.querySelector("h1");
	const primaryEl = document.querySelector('[class*="primary"]');

	return {
		meta: {
			description: meta("description"),
			keywords: meta("keywords"),
			viewport: meta("viewport"),
		},
		headings: {
			h1: headings("h1"),
			h2: headings("h2"),
			h3: headings("h3"),
		},
		links: Array.from(document.querySelectorAll("a"))
			.map(a => ({ text: text(a).substring(0, 100), href: a.href }))
			.filter(l => l.text && l.href)
			.slice(0, 20),
		images: Array.from(document.querySelectorAll("img"))
			.map(img => ({
				src: img.src,
				alt: img.alt,
				width: img.naturalWidth || img.width || 0,
				height: img.naturalHeight || img.height || 0,
			}))
			.slice(0, 20),
		layout: {
			has_nav: !!document.querySelector("nav, .nav, .navbar"),
			has_header: !!document.querySelector("header, .header"),
			has_footer: !!document.querySelector("footer, .footer"),
			has_sidebar: !!document.querySelector("aside, .sidebar"),
			has_main: !!document.querySelector("main, .main, .content"),
		},
		colors: {
			background: bodyStyle.backgroundColor,
			text: bodyStyle.color,
			primary: primaryEl ? window.getComputedStyle(primaryEl).color : "",
		},
		typography: {
			body_font: bodyStyle.fontFamily,
			body_size: bodyStyle.fontSize,
			heading_font: h1 ? window.getComputedStyle(h1).fontFamily : "",
		},
		text_samples: textSamples(),
		forms: Array.from(document.querySelectorAll("form"))
			.map(form => ({
				action: form.action,
				method: form.method,
				fields: form.querySelectorAll("input, textarea, select").length,
			}))
			.slice(0, 5),
		element_count: document.querySelectorAll("*").length,
	};
}`

// cssSummaryJS runs inside the page and returns the styling summary.
// Cross-origin stylesheets throw on cssRules access; those sheets are
// counted with zero rules instead of failing the extraction.
const cssSummaryJS = `() => {
	const sheets = [];
	let rulesCount = 0;

	for (const sheet of document.styleSheets) {
		let rules = 0;
		try {
			rules = sheet.cssRules ? sheet.cssRules.length : 0;
		} catch (e) {
			// Cross-origin stylesheet access blocked.
		}
		rulesCount += rules;
		if (sheet.href) {
			sheets.push({ href: sheet.href, rules: rules });
		}
	}

	const inline = [];
	document.querySelectorAll("[style]").forEach(el => {
		if (inline.length < 20) {
			inline.push({
				tag: el.tagName.toLowerCase(),
				style: el.style.cssText,
				class_name: typeof el.className === "string" ? el.className : "",
			});
		}
	});

	return {
		external_stylesheets: sheets,
		inline_styles: inline,
		rules_count: rulesCount,
		custom_properties: Array.from(document.documentElement.style)
			.filter(p => p.startsWith("--")),
	};
}`

// extractDOMSummary evaluates the structural extraction script and decodes
// its result into a typed summary.
func extractDOMSummary(p *rod.Page) (models.DOMSummary, error) {
	var out models.DOMSummary
	if err := evalInto(p, domSummaryJS, &out); err != nil {
		return models.DOMSummary{}, err
	}
	return out, nil
}

// extractCSSSummary evaluates the styling extraction script and decodes its
// result into a typed summary.
func extractCSSSummary(p *rod.Page) (models.CSSSummary, error) {
	var out models.CSSSummary
	if err := evalInto(p, cssSummaryJS, &out); err != nil {
		return models.CSSSummary{}, err
	}
	return out, nil
}

// evalInto evaluates js in the page and unmarshals the returned value into
// out via its JSON representation.
func evalInto(p *rod.Page, js string, out any) error {
	res, err := p.Eval(js)
	if err != nil {
		return fmt.Errorf("eval extraction script: %w", err)
	}

	raw, err := json.Marshal(res.Value.Val())
	if err != nil {
		return fmt.Errorf("marshal extraction result: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode extraction result: %w", err)
	}
	return nil
}
