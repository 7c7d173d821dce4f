package models

// Caps applied to the capped lists in a Snapshot. Every capped list keeps
// the first N entries in document order; nothing is reordered or ranked.
const (
	MaxHeadingsPerLevel = 10
	MaxLinks            = 20
	MaxImages           = 20
	MaxTextSamples      = 50
	MaxTextSampleLen    = 200
	MaxForms            = 5
	MaxInlineStyles     = 20
)

// Snapshot is the structured record of a captured page's visual and
// structural state. It is produced once per successful capture and passed
// by value to the reconstruction stage; nothing is persisted.
type Snapshot struct {
	// URL is the final URL after following all redirects.
	URL string `json:"url"`

	// OriginalURL is the URL the caller asked for.
	OriginalURL string `json:"original_url"`

	// Title is the rendered document title.
	Title string `json:"title"`

	// Screenshot holds the raw PNG bytes. encoding/json transports []byte
	// as a base64 string and emits null when the capture was skipped or
	// failed, which is exactly the wire contract consumers expect.
	Screenshot []byte `json:"screenshot"`

	// Content is a markdown digest of the rendered page, truncated to a
	// fixed character budget.
	Content string `json:"content"`

	// DOM summarizes the page structure.
	DOM DOMSummary `json:"dom_summary"`

	// CSS summarizes the page styling.
	CSS CSSSummary `json:"css_summary"`

	// Viewport echoes the capture viewport.
	Viewport Viewport `json:"viewport"`

	// Stats holds derived counts for observability.
	Stats SnapshotStats `json:"stats"`
}

// Viewport is the browser viewport size used for the capture.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SnapshotStats holds derived counts for observability.
type SnapshotStats struct {
	ContentLength int  `json:"content_length"`
	HasScreenshot bool `json:"has_screenshot"`
	CSSRulesFound int  `json:"css_rules_found"`
	ImagesFound   int  `json:"images_found"`
	DOMElements   int  `json:"dom_elements"`
}

// DOMSummary is the structural summary extracted from the rendered page.
// Every field degrades independently to its zero value when the underlying
// extraction fails; a partially empty summary never fails the capture.
type DOMSummary struct {
	Meta         PageMeta     `json:"meta"`
	Headings     Headings     `json:"headings"`
	Links        []LinkInfo   `json:"links"`
	Images       []ImageInfo  `json:"images"`
	Layout       LayoutFlags  `json:"layout"`
	Colors       ColorScheme  `json:"colors"`
	Typography   Typography   `json:"typography"`
	TextSamples  []TextSample `json:"text_samples"`
	Forms        []FormInfo   `json:"forms"`
	ElementCount int          `json:"element_count"`
}

// PageMeta holds <meta> tag values relevant to reconstruction.
type PageMeta struct {
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Viewport    string `json:"viewport,omitempty"`
}

// Headings groups heading texts by level, first N per level in document order.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// LinkInfo is a hyperlink with its visible label.
type LinkInfo struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ImageInfo describes an <img> element.
type ImageInfo struct {
	Src    string `json:"src"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// LayoutFlags records which major layout sections the page has.
type LayoutFlags struct {
	HasNav     bool `json:"has_nav"`
	HasHeader  bool `json:"has_header"`
	HasFooter  bool `json:"has_footer"`
	HasSidebar bool `json:"has_sidebar"`
	HasMain    bool `json:"has_main"`
}

// ColorScheme holds the computed body colors and, when detectable, a
// primary accent color.
type ColorScheme struct {
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	Primary    string `json:"primary,omitempty"`
}

// Typography holds the computed body and heading fonts.
type Typography struct {
	BodyFont    string `json:"body_font,omitempty"`
	BodySize    string `json:"body_size,omitempty"`
	HeadingFont string `json:"heading_font,omitempty"`
}

// TextSample is a fragment of visible text with its parent tag name.
type TextSample struct {
	Text   string `json:"text"`
	Parent string `json:"parent"`
}

// FormInfo describes a <form> element.
type FormInfo struct {
	Action string `json:"action,omitempty"`
	Method string `json:"method,omitempty"`
	Fields int    `json:"fields"`
}

// CSSSummary is the styling summary extracted from the rendered page.
type CSSSummary struct {
	ExternalStylesheets []StylesheetRef `json:"external_stylesheets"`
	InlineStyles        []InlineStyle   `json:"inline_styles"`
	RulesCount          int             `json:"rules_count"`
	CustomProperties    []string        `json:"custom_properties,omitempty"`
}

// StylesheetRef is an external stylesheet reference with its rule count.
// Rules is zero when cross-origin access to the sheet is denied.
type StylesheetRef struct {
	Href  string `json:"href"`
	Rules int    `json:"rules"`
}

// InlineStyle is a sampled style="" attribute.
type InlineStyle struct {
	Tag       string `json:"tag"`
	Style     string `json:"style"`
	ClassName string `json:"class_name,omitempty"`
}
