package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/reqview/internal/cli"
	"github.com/raysh454/reqview/internal/demoserver"
	"github.com/raysh454/reqview/internal/testutil"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, env *cli.Env, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env.Stdout = &stdout
	env.Stderr = &stderr
	if env.Stdin == nil {
		env.Stdin = strings.NewReader("")
	}

	// Never pick up the developer's own config file.
	args = append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	code := cli.Main(args, env)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func newTarget(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(demoserver.NewDemoServer(demoserver.DefaultConfig(), &testutil.DummyLogger{}))
	t.Cleanup(ts.Close)
	return ts.URL
}

// ─── send ──────────────────────────────────────────────────────────────

func TestSend_PrintsStatusAndTree(t *testing.T) {
	t.Parallel()
	target := newTarget(t)

	res := run(t, &cli.Env{}, "send", target+"/echo", "-X", "post", "-d", "hello", "-H", "X-Tags: a, b")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", res.code, res.stderr)
	}

	lines := strings.SplitN(res.stdout, "\n", 2)
	if lines[0] != "200" {
		t.Errorf("expected status line 200, got %q", lines[0])
	}
	for _, want := range []string{`"method": "POST"`, `"body": "hello"`, `"a, b"`} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("expected %s in output:\n%s", want, res.stdout)
		}
	}
}

func TestSend_GETWithBody(t *testing.T) {
	t.Parallel()
	target := newTarget(t)

	res := run(t, &cli.Env{}, "send", target+"/echo", "-d", `{"filter":"x"}`)
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, `"method": "GET"`) || !strings.Contains(res.stdout, `{\"filter\":\"x\"}`) {
		t.Errorf("expected GET with body echoed, got:\n%s", res.stdout)
	}
}

func TestSend_ErrorStatusStillExitsZero(t *testing.T) {
	t.Parallel()
	target := newTarget(t)

	res := run(t, &cli.Env{}, "send", target+"/status/503")
	if res.code != 0 {
		t.Fatalf("expected exit 0 for an HTTP error status, got %d", res.code)
	}
	if !strings.HasPrefix(res.stdout, "503\n") {
		t.Errorf("expected 503 status line, got %q", res.stdout)
	}
}

func TestSend_NonJSONShowsPlaceholder(t *testing.T) {
	t.Parallel()
	target := newTarget(t)

	res := run(t, &cli.Env{}, "send", target+"/html")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d", res.code)
	}
	if !strings.Contains(res.stdout, "invalid JSON") || !strings.Contains(res.stdout, "reqview demo page") {
		t.Errorf("expected placeholder with page title, got:\n%s", res.stdout)
	}
}

func TestSend_TransferFailureExitsOne(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Replies: map[string]testutil.Reply{
		"http://down/": {Err: testutil.ErrDummyTransfer},
	}}

	res := run(t, &cli.Env{WebClient: wc}, "send", "http://down/")
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	if !strings.HasPrefix(res.stdout, "0 (") {
		t.Errorf("expected status 0 line, got %q", res.stdout)
	}
	if !wc.Closed() {
		t.Error("expected web client closed on exit")
	}
}

func TestSend_BodyFromFileAndStdin(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{}

	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if res := run(t, &cli.Env{WebClient: wc}, "send", "http://api/a", "-X", "PUT", "-d", "@"+path); res.code != 0 {
		t.Fatalf("file body: exit %d (%s)", res.code, res.stderr)
	}

	wc2 := &testutil.DummyWebClient{}
	env := &cli.Env{WebClient: wc2, Stdin: strings.NewReader("from stdin")}
	if res := run(t, env, "send", "http://api/b", "-d", "@-"); res.code != 0 {
		t.Fatalf("stdin body: exit %d (%s)", res.code, res.stderr)
	}

	if got := string(wc.Sent()[0].Body); got != `{"from":"file"}` {
		t.Errorf("expected file body, got %q", got)
	}
	if got := string(wc2.Sent()[0].Body); got != "from stdin" {
		t.Errorf("expected stdin body, got %q", got)
	}
}

func TestSend_StopsWhenContextEnds(t *testing.T) {
	t.Parallel()
	hold := make(chan struct{})
	defer close(hold)
	wc := &testutil.DummyWebClient{Replies: map[string]testutil.Reply{
		"http://slow/": {Hold: hold},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	done := make(chan result, 1)
	go func() { done <- run(t, &cli.Env{Ctx: ctx, WebClient: wc}, "send", "http://slow/") }()

	select {
	case res := <-done:
		if res.code != 0 {
			t.Errorf("expected exit 0 on cancel, got %d (%s)", res.code, res.stderr)
		}
		if !wc.Closed() {
			t.Error("expected web client closed on exit")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("send still blocked after the context was cancelled")
	}
}

func TestSend_MalformedHeader(t *testing.T) {
	t.Parallel()

	res := run(t, &cli.Env{WebClient: &testutil.DummyWebClient{}}, "send", "http://api/a", "-H", "no-colon")
	if res.code != 1 || !strings.Contains(res.stderr, "malformed header") {
		t.Errorf("expected malformed header error, got %d %q", res.code, res.stderr)
	}
}

// ─── Globals ───────────────────────────────────────────────────────────

func TestGlobals_UnknownBackend(t *testing.T) {
	t.Parallel()

	res := run(t, &cli.Env{}, "--backend", "curl", "send", "http://api/a")
	if res.code != 1 || !strings.Contains(res.stderr, "backend not registered") {
		t.Errorf("expected backend error, got %d %q", res.code, res.stderr)
	}
}

func TestGlobals_UnknownPolicy(t *testing.T) {
	t.Parallel()

	res := run(t, &cli.Env{WebClient: &testutil.DummyWebClient{}}, "--policy", "first", "send", "http://api/a")
	if res.code != 1 || !strings.Contains(res.stderr, "unknown policy") {
		t.Errorf("expected policy error, got %d %q", res.code, res.stderr)
	}
}

func TestMain_Help(t *testing.T) {
	t.Parallel()

	res := run(t, &cli.Env{}, "--help")
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d", res.code)
	}
	for _, cmd := range []string{"serve", "tui", "send", "demo"} {
		if !strings.Contains(res.stdout, cmd) {
			t.Errorf("expected %s in help:\n%s", cmd, res.stdout)
		}
	}
}

func TestMain_UnknownCommand(t *testing.T) {
	t.Parallel()

	if res := run(t, &cli.Env{}, "launch"); res.code != 2 {
		t.Errorf("expected usage exit 2, got %d", res.code)
	}
}

// ─── Surfaces ──────────────────────────────────────────────────────────

func TestTUI_RequiresTerminal(t *testing.T) {
	t.Parallel()

	res := run(t, &cli.Env{}, "tui")
	if res.code != 1 || !strings.Contains(res.stderr, "interactive terminal") {
		t.Errorf("expected terminal error, got %d %q", res.code, res.stderr)
	}
}

func TestServeAndDemo_StopWhenContextEnds(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, cmd := range []string{"serve", "demo"} {
		env := &cli.Env{Ctx: ctx, WebClient: &testutil.DummyWebClient{}}
		if res := run(t, env, cmd, "--addr", "127.0.0.1:0"); res.code != 0 {
			t.Errorf("%s: expected exit 0, got %d (%s)", cmd, res.code, res.stderr)
		}
	}
}
