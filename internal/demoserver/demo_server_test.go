package demoserver_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/reqview/internal/demoserver"
	"github.com/raysh454/reqview/internal/jsontree"
	"github.com/raysh454/reqview/internal/testutil"
)

func newDemo(t *testing.T) *demoserver.DemoServer {
	t.Helper()
	cfg := demoserver.DefaultConfig()
	cfg.MaxDelay = 50 * time.Millisecond
	return demoserver.NewDemoServer(cfg, &testutil.DummyLogger{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ─── Dynamic endpoints ─────────────────────────────────────────────────

func TestDemo_EchoReflectsRequest(t *testing.T) {
	t.Parallel()
	s := newDemo(t)

	rec := do(t, s, http.MethodGet, "/echo?q=1", `{"filter":"x"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got demoserver.EchoResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Method != "GET" || got.Path != "/echo" || got.Body != `{"filter":"x"}` {
		t.Errorf("unexpected echo: %+v", got)
	}
	if got.Query["q"][0] != "1" {
		t.Errorf("expected query echoed, got %v", got.Query)
	}
}

func TestDemo_StatusEndpoint(t *testing.T) {
	t.Parallel()
	s := newDemo(t)

	tests := []struct {
		path string
		code int
	}{
		{"/status/201", 201},
		{"/status/404", 404},
		{"/status/503", 503},
		{"/status/204", 204},
		{"/status/abc", 400},
		{"/status/99", 400},
	}
	for _, tt := range tests {
		if rec := do(t, s, http.MethodPost, tt.path, ""); rec.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.code, rec.Code)
		}
	}
}

func TestDemo_DelayIsCapped(t *testing.T) {
	t.Parallel()
	s := newDemo(t)

	start := time.Now()
	rec := do(t, s, http.MethodGet, "/delay/10000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("expected capped delay, took %v", elapsed)
	}
	if !strings.Contains(rec.Body.String(), `"delayed_ms":50`) {
		t.Errorf("expected capped delay in body, got %s", rec.Body.String())
	}
}

// ─── Fixtures ──────────────────────────────────────────────────────────

func TestDemo_FixturesMatchTheirContentType(t *testing.T) {
	t.Parallel()
	s := newDemo(t)

	for _, f := range demoserver.Fixtures() {
		rec := do(t, s, http.MethodGet, f.Path, "")
		if ct := rec.Header().Get("Content-Type"); ct != f.ContentType {
			t.Errorf("%s: expected content type %q, got %q", f.Path, f.ContentType, ct)
		}

		_, err := jsontree.Parse(rec.Body.String())
		wantJSON := strings.HasPrefix(f.ContentType, "application/json") && f.Path != "/json/broken"
		if wantJSON && err != nil {
			t.Errorf("%s: expected valid JSON, got %v", f.Path, err)
		}
		if !wantJSON && err == nil {
			t.Errorf("%s: expected invalid JSON", f.Path)
		}
	}
}

func TestDemo_IndexListsEndpoints(t *testing.T) {
	t.Parallel()
	s := newDemo(t)

	rec := do(t, s, http.MethodGet, "/", "")
	var body struct {
		Endpoints []struct {
			Path string `json:"path"`
		} `json:"endpoints"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := 3 + len(demoserver.Fixtures()); len(body.Endpoints) != want {
		t.Errorf("expected %d endpoints, got %d", want, len(body.Endpoints))
	}
}

// ─── Lifecycle ─────────────────────────────────────────────────────────

func TestDemo_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	s := newDemo(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/json/user")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
