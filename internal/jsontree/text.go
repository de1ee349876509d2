package jsontree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles colours the text view. The zero value renders plain text.
type Styles struct {
	Key     *lipgloss.Style
	String  *lipgloss.Style
	Number  *lipgloss.Style
	Literal *lipgloss.Style
	Summary *lipgloss.Style
	Error   *lipgloss.Style
}

func style(c lipgloss.Color) *lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(c)
	return &s
}

// DefaultStyles is the palette used on terminals.
func DefaultStyles() Styles {
	errStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF7043"))
	summary := lipgloss.NewStyle().Faint(true)
	return Styles{
		Key:     style(lipgloss.Color("#7AA2F7")),
		String:  style(lipgloss.Color("#04B575")),
		Number:  style(lipgloss.Color("#FDD835")),
		Literal: style(lipgloss.Color("#FFA726")),
		Summary: &summary,
		Error:   &errStyle,
	}
}

func paint(s *lipgloss.Style, text string) string {
	if s == nil {
		return text
	}
	return s.Render(text)
}

// TextOptions controls WriteText.
type TextOptions struct {
	// Indent per level; two spaces when empty.
	Indent string

	// MaxDepth collapses containers nested deeper than this. Zero shows
	// everything.
	MaxDepth int

	Styles Styles
}

// WriteText writes n as indented JSON, one member or item per line.
// Collapsed containers are summarised as `{…} 3 keys` or `[…] 2 items`.
func WriteText(w io.Writer, n *Node, opts TextOptions) error {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	bw := bufio.NewWriter(w)
	tw := &textWriter{w: bw, opts: opts}
	tw.value(n, 0)
	bw.WriteString("\n")
	return bw.Flush()
}

// Text is WriteText into a string.
func Text(n *Node, opts TextOptions) string {
	var sb strings.Builder
	_ = WriteText(&sb, n, opts)
	return sb.String()
}

// PlaceholderText renders a placeholder the way the terminal shows it.
func PlaceholderText(p *Placeholder, styles Styles) string {
	var sb strings.Builder
	sb.WriteString(paint(styles.Error, "invalid JSON: "+p.Err))
	sb.WriteString("\n")
	if p.Title != "" {
		sb.WriteString(paint(styles.Summary, "HTML document: "+p.Title))
		sb.WriteString("\n")
	}
	if p.Raw != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Raw)
		if p.Truncated {
			sb.WriteString(paint(styles.Summary, "\n… (truncated)"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type textWriter struct {
	w    *bufio.Writer
	opts TextOptions
}

func (t *textWriter) indent(depth int) {
	t.w.WriteString(strings.Repeat(t.opts.Indent, depth))
}

func (t *textWriter) collapsed(n *Node, depth int) bool {
	return t.opts.MaxDepth > 0 && depth >= t.opts.MaxDepth && n.Len() > 0
}

func summary(n *Node) string {
	switch n.Kind {
	case Object:
		return fmt.Sprintf("{…} %d %s", n.Len(), plural(n.Len(), "key", "keys"))
	case Array:
		return fmt.Sprintf("[…] %d %s", n.Len(), plural(n.Len(), "item", "items"))
	}
	return ""
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (t *textWriter) value(n *Node, depth int) {
	switch n.Kind {
	case Object:
		if n.Len() == 0 {
			t.w.WriteString("{}")
			return
		}
		if t.collapsed(n, depth) {
			t.w.WriteString(paint(t.opts.Styles.Summary, summary(n)))
			return
		}
		t.w.WriteString("{\n")
		for i, m := range n.Members {
			t.indent(depth + 1)
			t.w.WriteString(paint(t.opts.Styles.Key, quote(m.Key)))
			t.w.WriteString(": ")
			t.value(m.Value, depth+1)
			if i < len(n.Members)-1 {
				t.w.WriteString(",")
			}
			t.w.WriteString("\n")
		}
		t.indent(depth)
		t.w.WriteString("}")
	case Array:
		if n.Len() == 0 {
			t.w.WriteString("[]")
			return
		}
		if t.collapsed(n, depth) {
			t.w.WriteString(paint(t.opts.Styles.Summary, summary(n)))
			return
		}
		t.w.WriteString("[\n")
		for i, it := range n.Items {
			t.indent(depth + 1)
			t.value(it, depth+1)
			if i < len(n.Items)-1 {
				t.w.WriteString(",")
			}
			t.w.WriteString("\n")
		}
		t.indent(depth)
		t.w.WriteString("]")
	case String:
		t.w.WriteString(paint(t.opts.Styles.String, quote(n.Scalar)))
	case Number:
		t.w.WriteString(paint(t.opts.Styles.Number, n.Scalar))
	default:
		t.w.WriteString(paint(t.opts.Styles.Literal, n.Scalar))
	}
}
