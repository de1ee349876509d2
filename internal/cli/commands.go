package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/raysh454/reqview/internal/demoserver"
	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/display"
	"github.com/raysh454/reqview/internal/jsontree"
	"github.com/raysh454/reqview/internal/logging"
	"github.com/raysh454/reqview/internal/server"
	"github.com/raysh454/reqview/internal/tui"
)

type ServeCmd struct {
	Addr string `help:"Listen address, overriding server.addr." placeholder:"HOST:PORT"`
}

func (c *ServeCmd) Run(g *Globals, env *Env) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	a, shutdown, err := newApplication(env, cfg, env.Stderr)
	if err != nil {
		return err
	}
	defer shutdown()

	srvCfg := cfg.Server
	srvCfg.MaxDepth = cfg.Render.MaxDepth
	srv := server.NewServer(srvCfg, a.Controller, a.Logger)
	return srv.Run(env.Ctx)
}

type TUICmd struct{}

func (c *TUICmd) Run(g *Globals, env *Env) error {
	if !env.IsTerminal(env.Stdout) {
		return errors.New("tui needs an interactive terminal; use send for scripts")
	}
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// Only a configured log file gets lines; stderr would tear the screen.
	a, shutdown, err := newApplication(env, cfg, io.Discard)
	if err != nil {
		return err
	}
	defer shutdown()

	return tui.Run(env.Ctx, a.Controller, tui.Options{
		MaxDepth: cfg.Render.MaxDepth,
		Styles:   jsontree.DefaultStyles(),
	})
}

type SendCmd struct {
	URL    string   `arg:"" help:"URL to request. Sent exactly as given."`
	Method string   `short:"X" default:"GET" help:"HTTP method."`
	Data   string   `short:"d" help:"Request body, or @FILE to read it from a file (@- for stdin)." placeholder:"BODY"`
	Header []string `short:"H" sep:"none" help:"Extra header as 'Name: value'. Repeatable." placeholder:"HEADER"`
}

func (c *SendCmd) Run(g *Globals, env *Env) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if g.LogLevel == "" {
		cfg.Log.Level = logging.LevelWarn.String()
	}

	body, err := c.body(env)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(c.Header)
	if err != nil {
		return err
	}

	a, shutdown, err := newApplication(env, cfg, env.Stderr)
	if err != nil {
		return err
	}
	defer shutdown()

	if _, err := a.Controller.Submit(dispatcher.Intent{
		Method:  c.Method,
		URL:     c.URL,
		Body:    body,
		Headers: headers,
	}); err != nil {
		return err
	}
	stop := context.AfterFunc(env.Ctx, func() { _ = a.Controller.Close() })
	defer stop()
	a.Controller.Wait()
	if err := env.Ctx.Err(); err != nil {
		return err
	}

	color := env.IsTerminal(env.Stdout)
	if err := printSnapshot(env.Stdout, a.Display().Snapshot(), cfg.Render.MaxDepth, color); err != nil {
		return err
	}

	if out := a.Controller.Latest(); out != nil && out.Err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, out.Err)
	}
	return nil
}

func (c *SendCmd) body(env *Env) (string, error) {
	if !strings.HasPrefix(c.Data, "@") {
		return c.Data, nil
	}
	name := c.Data[1:]
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(env.Stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(b), nil
}

func parseHeaders(lines []string) (http.Header, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	h := make(http.Header, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed header %q, want 'Name: value'", line)
		}
		h.Add(name, strings.TrimSpace(value))
	}
	return h, nil
}

// printSnapshot writes the status line and then the response region.
func printSnapshot(w io.Writer, snap display.Snapshot, maxDepth int, color bool) error {
	var styles jsontree.Styles
	status := snap.Status
	if color {
		styles = jsontree.DefaultStyles()
		status = tui.StatusStyle(snap.Status).Render(snap.Status)
	}
	if _, err := fmt.Fprintln(w, status); err != nil {
		return err
	}

	switch {
	case snap.Tree != nil:
		return jsontree.WriteText(w, snap.Tree, jsontree.TextOptions{MaxDepth: maxDepth, Styles: styles})
	case snap.Placeholder != nil:
		_, err := io.WriteString(w, jsontree.PlaceholderText(snap.Placeholder, styles))
		return err
	}
	return nil
}

type DemoCmd struct {
	Addr string `help:"Listen address, overriding demo.addr." placeholder:"HOST:PORT"`
}

func (c *DemoCmd) Run(g *Globals, env *Env) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Demo.Addr = c.Addr
	}

	logger, closer, err := cfg.NewLogger(env.Stderr, "reqview")
	if err != nil {
		return err
	}
	defer closer.Close()

	return demoserver.NewDemoServer(cfg.Demo, logger).Run(env.Ctx)
}
