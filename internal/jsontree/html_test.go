package jsontree_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/reqview/internal/jsontree"
)

func renderDoc(t *testing.T, n *jsontree.Node, maxDepth int) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := jsontree.RenderHTML(&buf, n, maxDepth); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse rendered HTML: %v", err)
	}
	return doc
}

func TestHTML_ObjectTree(t *testing.T) {
	t.Parallel()
	doc := renderDoc(t, mustParse(t, `{"a":1,"b":"two"}`), 0)

	root := doc.Find("div.jv > details.jv-object")
	if root.Length() != 1 {
		t.Fatalf("expected one root object, got %d", root.Length())
	}
	if _, open := root.Attr("open"); !open {
		t.Error("expected root to be open")
	}
	if got := root.Find("summary .jv-count").Text(); got != "2 keys" {
		t.Errorf("expected count '2 keys', got %q", got)
	}

	var keys []string
	root.Find("li > .jv-key").Each(func(_ int, s *goquery.Selection) {
		keys = append(keys, s.Text())
	})
	if strings.Join(keys, ",") != `"a","b"` {
		t.Errorf("unexpected keys: %v", keys)
	}
	if got := root.Find(".jv-number").Text(); got != "1" {
		t.Errorf("expected number 1, got %q", got)
	}
	if got := root.Find(".jv-string").Text(); got != `"two"` {
		t.Errorf("expected string \"two\", got %q", got)
	}
}

func TestHTML_EscapesText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := jsontree.RenderHTML(&buf, mustParse(t, `{"<script>":"</li><b>"}`), 0); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") || strings.Contains(buf.String(), "<b>") {
		t.Errorf("markup not escaped: %s", buf.String())
	}
}

func TestHTML_MaxDepthClosesNested(t *testing.T) {
	t.Parallel()
	doc := renderDoc(t, mustParse(t, `{"inner":{"x":[1]}}`), 1)

	details := doc.Find("details")
	if details.Length() != 3 {
		t.Fatalf("expected 3 details, got %d", details.Length())
	}
	if _, open := details.Eq(0).Attr("open"); !open {
		t.Error("expected depth 0 open")
	}
	if _, open := details.Eq(1).Attr("open"); open {
		t.Error("expected depth 1 closed")
	}
}

func TestHTML_EmptyContainers(t *testing.T) {
	t.Parallel()
	doc := renderDoc(t, mustParse(t, `[[],{}]`), 0)

	if doc.Find("span.jv-array").Text() != "[]" || doc.Find("span.jv-object").Text() != "{}" {
		t.Errorf("expected inline empty containers")
	}
}

func TestHTMLString_Placeholder(t *testing.T) {
	t.Parallel()
	out, err := jsontree.HTMLString(nil, &jsontree.Placeholder{Err: "bad", Raw: "<oops>", Title: "T"}, 0)
	if err != nil {
		t.Fatalf("HTMLString: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find(".jv-error .jv-raw").Text(); got != "<oops>" {
		t.Errorf("expected raw text, got %q", got)
	}
	if got := doc.Find(".jv-error .jv-title").Text(); got != "HTML document: T" {
		t.Errorf("unexpected title line %q", got)
	}
}

func TestHTMLString_Nothing(t *testing.T) {
	t.Parallel()
	out, err := jsontree.HTMLString(nil, nil, 0)
	if err != nil || out != "" {
		t.Errorf("expected empty output, got %q, %v", out, err)
	}
}
