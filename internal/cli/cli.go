// Package cli is the reqview command line: one kong grammar whose commands
// start the web surface, the terminal surface, a one-shot send or the demo
// target.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/raysh454/reqview/internal/app"
	"github.com/raysh454/reqview/internal/dispatcher"
	"github.com/raysh454/reqview/internal/logging"
	"github.com/raysh454/reqview/internal/webclient"
)

// ErrTransferFailed is returned by send when no HTTP response arrived. The
// outcome has already been printed.
var ErrTransferFailed = errors.New("transfer failed")

// Env is what commands need from the process. Tests build their own.
type Env struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// WebClient replaces the configured backend when set.
	WebClient webclient.WebClient

	// IsTerminal reports whether w is an interactive terminal.
	IsTerminal func(w io.Writer) bool
}

// OSEnv is the environment of the running process.
func OSEnv(ctx context.Context) *Env {
	return &Env{
		Ctx:        ctx,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTerminal: isTerminal,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Globals are flags shared by every command.
type Globals struct {
	Config   string `help:"Path to the YAML config file." default:"${config_path}" placeholder:"PATH"`
	Backend  string `help:"Web client backend (${backends})." placeholder:"NAME"`
	LogLevel string `help:"Minimum log level: debug, info, warn or error." placeholder:"LEVEL"`
	Policy   string `help:"Which outcome wins when requests overlap: last-submission or last-response." placeholder:"POLICY"`
}

// CLI is the full command grammar.
type CLI struct {
	Globals

	Serve ServeCmd `cmd:"" help:"Run the web surface."`
	TUI   TUICmd   `cmd:"" name:"tui" help:"Run the terminal surface."`
	Send  SendCmd  `cmd:"" help:"Send one request and print its outcome."`
	Demo  DemoCmd  `cmd:"" help:"Run the demo target server."`
}

// loadConfig reads the config file and applies flag overrides on top.
func (g *Globals) loadConfig() (*app.Config, error) {
	cfg, err := app.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Backend != "" {
		cfg.WebClient.Client = webclient.Client(g.Backend)
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.Policy != "" {
		cfg.Dispatcher.Policy = dispatcher.Policy(g.Policy)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApplication wires an Application whose logs go to logOut unless the
// config names a file.
func newApplication(env *Env, cfg *app.Config, logOut io.Writer) (*app.Application, func(), error) {
	logger, closer, err := cfg.NewLogger(logOut, "reqview")
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	a, err := app.NewApplication(cfg, logger, env.WebClient)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	shutdown := func() {
		if err := a.Shutdown(context.Background()); err != nil {
			logger.Warn("shutdown", logging.Err(err))
		}
		closer.Close()
	}
	return a, shutdown, nil
}

// Main parses args, runs the selected command and returns the exit code.
func Main(args []string, env *Env) int {
	if env.Ctx == nil {
		env.Ctx = context.Background()
	}
	if env.IsTerminal == nil {
		env.IsTerminal = isTerminal
	}

	exitCode := -1
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("reqview"),
		kong.Description("Send HTTP requests and view the responses as JSON trees."),
		kong.UsageOnError(),
		kong.Writers(env.Stdout, env.Stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.Vars{
			"config_path": app.DefaultConfigPath,
			"backends":    strings.Join(webclient.ListBackends(), ", "),
		},
	)
	if err != nil {
		fmt.Fprintf(env.Stderr, "reqview: %v\n", err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "reqview: %v\n", err)
		return 2
	}

	err = kctx.Run(&cli.Globals, env)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrTransferFailed):
		return 1
	case errors.Is(err, context.Canceled):
		return 0
	}
	fmt.Fprintf(env.Stderr, "reqview: %v\n", err)
	return 1
}
