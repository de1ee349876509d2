// Command reqview sends HTTP requests and shows the responses as JSON trees,
// from a web page, a terminal UI or a one-shot command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/reqview/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(os.Args[1:], cli.OSEnv(ctx))
	stop()
	os.Exit(code)
}
