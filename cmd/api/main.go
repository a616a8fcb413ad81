// Command api runs the catalog HTTP server.
//
// Configuration comes from CONFIG_PATH (YAML) overlaid with environment
// variables. The server drains in-flight requests on SIGINT/SIGTERM.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/paz-dev-com/catalog-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
