// Command demoserver starts the reqview demo target on its own.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/raysh454/reqview/internal/demoserver"
	"github.com/raysh454/reqview/internal/logging"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Addr = fmt.Sprintf("localhost:%d", port)
	}

	fmt.Println("===========================================")
	fmt.Println("   reqview demo target")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Endpoints to try:")
	fmt.Println("  /echo            method, path, query, headers and body as JSON")
	fmt.Println("  /status/{code}   any status between 200 and 599")
	fmt.Println("  /delay/{ms}      a slow response, for overlapping requests")
	for _, f := range demoserver.Fixtures() {
		fmt.Printf("  %-16s %s\n", f.Path, f.Description)
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := demoserver.NewDemoServer(cfg, logging.NewStdoutLogger("demoserver"))
	if err := server.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
