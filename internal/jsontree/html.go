package jsontree

import (
	"bytes"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSS classes used by the HTML view; the web page styles them.
const (
	ClassRoot    = "jv"
	ClassObject  = "jv-object"
	ClassArray   = "jv-array"
	ClassKey     = "jv-key"
	ClassString  = "jv-string"
	ClassNumber  = "jv-number"
	ClassBool    = "jv-bool"
	ClassNull    = "jv-null"
	ClassCount   = "jv-count"
	ClassError   = "jv-error"
	ClassRaw     = "jv-raw"
	ClassTitle   = "jv-title"
	ClassMessage = "jv-message"
)

func elem(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// HTML builds the expandable view of n: every non-empty container is a
// <details open> whose <summary> shows the opening bracket and a count.
// Containers deeper than maxDepth start closed; zero keeps all open.
func HTML(n *Node, maxDepth int) *html.Node {
	return elem(atom.Div, ClassRoot, htmlValue(n, 0, maxDepth))
}

func htmlValue(n *Node, depth, maxDepth int) *html.Node {
	switch n.Kind {
	case Object, Array:
		class, openBr, closeBr := ClassObject, "{", "}"
		if n.Kind == Array {
			class, openBr, closeBr = ClassArray, "[", "]"
		}
		if n.Len() == 0 {
			return elem(atom.Span, class, text(openBr+closeBr))
		}

		count := plural(n.Len(), "key", "keys")
		if n.Kind == Array {
			count = plural(n.Len(), "item", "items")
		}
		summaryNode := elem(atom.Summary, "",
			text(openBr),
			elem(atom.Span, ClassCount, text(strconv.Itoa(n.Len())+" "+count)),
		)

		list := elem(atom.Ul, "")
		if n.Kind == Object {
			for _, m := range n.Members {
				list.AppendChild(elem(atom.Li, "",
					elem(atom.Span, ClassKey, text(quote(m.Key))),
					text(": "),
					htmlValue(m.Value, depth+1, maxDepth),
				))
			}
		} else {
			for _, it := range n.Items {
				list.AppendChild(elem(atom.Li, "", htmlValue(it, depth+1, maxDepth)))
			}
		}

		details := elem(atom.Details, class, summaryNode, list, text(closeBr))
		if maxDepth == 0 || depth < maxDepth {
			details.Attr = append(details.Attr, html.Attribute{Key: "open"})
		}
		return details
	case String:
		return elem(atom.Span, ClassString, text(quote(n.Scalar)))
	case Number:
		return elem(atom.Span, ClassNumber, text(n.Scalar))
	case Bool:
		return elem(atom.Span, ClassBool, text(n.Scalar))
	}
	return elem(atom.Span, ClassNull, text("null"))
}

// PlaceholderHTML builds the visible error block for malformed input.
func PlaceholderHTML(p *Placeholder) *html.Node {
	block := elem(atom.Div, ClassError,
		elem(atom.P, ClassMessage, text("invalid JSON: "+p.Err)),
	)
	if p.Title != "" {
		block.AppendChild(elem(atom.P, ClassTitle, text("HTML document: "+p.Title)))
	}
	if p.Raw != "" {
		raw := p.Raw
		if p.Truncated {
			raw += "\n… (truncated)"
		}
		block.AppendChild(elem(atom.Pre, ClassRaw, text(raw)))
	}
	return block
}

// RenderHTML writes the markup for n.
func RenderHTML(w io.Writer, n *Node, maxDepth int) error {
	return html.Render(w, HTML(n, maxDepth))
}

// HTMLString renders either a tree or a placeholder; nil for both yields "".
func HTMLString(n *Node, p *Placeholder, maxDepth int) (string, error) {
	var root *html.Node
	switch {
	case n != nil:
		root = HTML(n, maxDepth)
	case p != nil:
		root = PlaceholderHTML(p)
	default:
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}
