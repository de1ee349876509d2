// Package jsontree parses JSON text into an ordered tree and renders it as
// an expandable view for the terminal and the browser.
package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value *Node
}

// Node is a parsed JSON value. Scalar holds the decoded string for String,
// the literal text for Number, and "true"/"false"/"null" otherwise.
type Node struct {
	Kind    Kind
	Scalar  string
	Members []Member
	Items   []*Node
}

// Len is the number of members or items; zero for scalars.
func (n *Node) Len() int {
	switch n.Kind {
	case Object:
		return len(n.Members)
	case Array:
		return len(n.Items)
	}
	return 0
}

// Get returns the value of the first member named key.
func (n *Node) Get(key string) (*Node, bool) {
	for _, m := range n.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Value converts the tree to plain Go values: map[string]any, []any,
// string, json.Number, bool and nil. Member order is lost.
func (n *Node) Value() any {
	switch n.Kind {
	case Object:
		m := make(map[string]any, len(n.Members))
		for _, mem := range n.Members {
			m[mem.Key] = mem.Value.Value()
		}
		return m
	case Array:
		items := make([]any, len(n.Items))
		for i, it := range n.Items {
			items[i] = it.Value()
		}
		return items
	case String:
		return n.Scalar
	case Number:
		return json.Number(n.Scalar)
	case Bool:
		return n.Scalar == "true"
	}
	return nil
}

// MarshalJSON writes the tree back as compact JSON, keeping member order.
// Strings are not HTML-escaped here; json.Marshal escapes them again when it
// compacts the result.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON is Parse into n.
func (n *Node) UnmarshalJSON(data []byte) error {
	root, err := Parse(string(data))
	if err != nil {
		return err
	}
	*n = *root
	return nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	switch n.Kind {
	case Object:
		buf.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(m.Key))
			buf.WriteByte(':')
			if err := m.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Array:
		buf.WriteByte('[')
		for i, it := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case String:
		buf.WriteString(quote(n.Scalar))
	default:
		buf.WriteString(n.Scalar)
	}
	return nil
}

// quote encodes s as a JSON string.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

var (
	errEmpty    = errors.New("empty document")
	errTrailing = errors.New("unexpected data after top-level value")
)

// Parse reads exactly one JSON value from text. Surrounding whitespace is
// allowed; anything else after the value is an error.
func Parse(text string) (*Node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errEmpty
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errTrailing
	}
	return root, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return &Node{Kind: String, Scalar: v}, nil
	case json.Number:
		return &Node{Kind: Number, Scalar: v.String()}, nil
	case bool:
		if v {
			return &Node{Kind: Bool, Scalar: "true"}, nil
		}
		return &Node{Kind: Bool, Scalar: "false"}, nil
	case nil:
		return &Node{Kind: Null, Scalar: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: Object}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Members = append(n.Members, Member{Key: key, Value: val})
	}
	if err := closing(dec, '}'); err != nil {
		return nil, err
	}
	return n, nil
}

func parseArray(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: Array}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, val)
	}
	if err := closing(dec, ']'); err != nil {
		return nil, err
	}
	return n, nil
}

func closing(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}
	return nil
}
