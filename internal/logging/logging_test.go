package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/raysh454/reqview/internal/logging"
)

type entry struct {
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component"`
	Fields    map[string]any `json:"fields"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()
	var out []entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func TestLogger_WritesJSONLines(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewLogger(&buf, "test", logging.LevelDebug)

	l.Info("hello", logging.Field{Key: "n", Value: 3})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Level != "info" || lines[0].Msg != "hello" || lines[0].Component != "test" {
		t.Errorf("unexpected entry: %+v", lines[0])
	}
	if lines[0].Fields["n"] != float64(3) {
		t.Errorf("expected field n=3, got %v", lines[0].Fields["n"])
	}
}

func TestLogger_DropsBelowMinLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewLogger(&buf, "", logging.LevelWarn)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0].Level != "warn" || lines[1].Level != "error" {
		t.Errorf("unexpected levels: %s, %s", lines[0].Level, lines[1].Level)
	}
}

func TestLogger_WithCarriesFieldsAndComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewLogger(&buf, "root", logging.LevelDebug)

	child := l.With(logging.Field{Key: "component", Value: "dispatcher"}, logging.Field{Key: "seq", Value: 7})
	child.Debug("issued")

	lines := decodeLines(t, &buf)
	if lines[0].Component != "dispatcher" {
		t.Errorf("expected component dispatcher, got %q", lines[0].Component)
	}
	if lines[0].Fields["seq"] != float64(7) {
		t.Errorf("expected persistent seq field, got %v", lines[0].Fields)
	}
	if _, ok := lines[0].Fields["component"]; ok {
		t.Errorf("component should not be duplicated as a field")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]logging.Level{
		"":        logging.LevelInfo,
		"DEBUG":   logging.LevelDebug,
		"warning": logging.LevelWarn,
		"error":   logging.LevelError,
	}
	for in, want := range cases {
		got, err := logging.ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := logging.ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestErrField(t *testing.T) {
	t.Parallel()
	f := logging.Err(errors.New("boom"))
	if f.Key != "error" || f.Value != "boom" {
		t.Errorf("unexpected field: %+v", f)
	}
}
