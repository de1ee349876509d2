package jsontree

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ErrMalformed is wrapped by Render when the text is not a single JSON value.
var ErrMalformed = errors.New("response is not valid JSON")

// Container is a display region the widget renders into.
type Container interface {
	// Empty removes any previous content.
	Empty()

	// ShowTree replaces the content with a parsed document.
	ShowTree(root *Node)

	// ShowError replaces the content with a visible error placeholder.
	ShowError(p *Placeholder)
}

// Placeholder is what a container shows for text that is not JSON.
type Placeholder struct {
	Err       string `json:"error"`
	Raw       string `json:"raw"`
	Truncated bool   `json:"truncated,omitempty"`

	// Title is the <title> of the text when it is an HTML document.
	Title string `json:"title,omitempty"`
}

// DefaultRawLimit caps how much of a malformed body the placeholder keeps.
const DefaultRawLimit = 4096

// Widget parses response text and renders it into a Container.
//
// Contract: Render(c, text) either shows the tree and returns nil, or shows a
// Placeholder and returns an error wrapping ErrMalformed. It never leaves c
// with stale content.
type Widget struct {
	// RawLimit bounds Placeholder.Raw in bytes. Zero means DefaultRawLimit,
	// negative means unlimited.
	RawLimit int
}

func NewWidget(rawLimit int) *Widget {
	return &Widget{RawLimit: rawLimit}
}

func (w *Widget) Render(c Container, text string) error {
	c.Empty()

	root, err := Parse(text)
	if err == nil {
		c.ShowTree(root)
		return nil
	}

	raw, truncated := truncate(text, w.rawLimit())
	c.ShowError(&Placeholder{
		Err:       err.Error(),
		Raw:       raw,
		Truncated: truncated,
		Title:     htmlTitle(text),
	})
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

func (w *Widget) rawLimit() int {
	if w == nil || w.RawLimit == 0 {
		return DefaultRawLimit
	}
	return w.RawLimit
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) (string, bool) {
	if limit < 0 || len(s) <= limit {
		return s, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

var htmlMarker = regexp.MustCompile(`(?i)<(!doctype\s+html|html[\s>]|head[\s>]|title[\s>])`)

// htmlTitle returns the document title when text looks like HTML.
func htmlTitle(text string) string {
	if !htmlMarker.MatchString(text) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
