package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/raysh454/reqview/internal/app"
	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/testutil"
	"github.com/raysh454/reqview/internal/webclient"
)

// ─── Config ────────────────────────────────────────────────────────────

func TestReadConfig_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := app.ReadConfig(strings.NewReader(`
server:
  addr: ":9000"
webclient:
  backend: NetHTTP
  timeout: 5s
dispatcher:
  policy: last-response
render:
  max_depth: 3
log:
  level: debug
`))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}

	want := app.DefaultConfig()
	want.Server.Addr = ":9000"
	want.WebClient.Client = webclient.ClientNetHTTP
	want.WebClient.Timeout = 5 * time.Second
	want.Dispatcher.Policy = dispatcher.LastResponseWins
	want.Render.MaxDepth = 3
	want.Log.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfig_EmptyIsDefault(t *testing.T) {
	t.Parallel()

	cfg, err := app.ReadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if diff := cmp.Diff(app.DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestReadConfig_Rejects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown key":     "server:\n  port: 80\n",
		"unknown policy":  "dispatcher:\n  policy: first-wins\n",
		"unknown level":   "log:\n  level: loud\n",
		"unknown backend": "webclient:\n  backend: curl\n",
		"negative depth":  "render:\n  max_depth: -1\n",
	}
	for name, doc := range tests {
		if _, err := app.ReadConfig(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	_, err := app.ReadConfig(strings.NewReader("webclient:\n  backend: curl\n"))
	if !errors.Is(err, webclient.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestLoadConfig_MissingFileIsDefault(t *testing.T) {
	t.Parallel()

	cfg, err := app.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(app.DefaultConfig(), cfg); diff != "" {
		t.Errorf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("demo:\n  addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Demo.Addr != ":7000" {
		t.Errorf("expected demo addr from file, got %q", cfg.Demo.Addr)
	}
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := app.ExpandPath("~/x/y.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "x/y.yaml"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, _ := app.ExpandPath("/abs/~x"); got != "/abs/~x" {
		t.Errorf("expected untouched path, got %q", got)
	}
}

func TestConfig_NewLoggerWritesToFile(t *testing.T) {
	t.Parallel()

	cfg := app.DefaultConfig()
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "reqview.log")
	logger, closer, err := cfg.NewLogger(os.Stderr, "test")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hello")
	closer.Close()

	b, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"msg":"hello"`) {
		t.Errorf("expected log line in file, got %s", b)
	}
}

// ─── Application ───────────────────────────────────────────────────────

func TestApplication_SubmitAndShutdown(t *testing.T) {
	t.Parallel()

	wc := &testutil.DummyWebClient{}
	a, err := app.NewApplication(app.DefaultConfig(), &testutil.DummyLogger{}, wc)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}

	if _, err := a.Controller.Submit(dispatcher.Intent{URL: "http://api/x"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	a.Controller.Wait()
	if a.Display().Snapshot().Status != "200" {
		t.Errorf("expected painted status, got %q", a.Display().Snapshot().Status)
	}

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !wc.Closed() {
		t.Error("expected web client closed")
	}
	if _, err := a.Controller.Submit(dispatcher.Intent{URL: "http://api/x"}); !errors.Is(err, dispatcher.ErrClosed) {
		t.Errorf("expected ErrClosed after shutdown, got %v", err)
	}
}

func TestApplication_BuildsConfiguredBackend(t *testing.T) {
	t.Parallel()

	a, err := app.NewApplication(nil, &testutil.DummyLogger{}, nil)
	if err != nil {
		t.Fatalf("NewApplication: %v", err)
	}
	defer a.Shutdown(context.Background())

	if _, ok := a.Client.(*webclient.NetHTTPClient); !ok {
		t.Errorf("expected nethttp backend, got %T", a.Client)
	}
}
