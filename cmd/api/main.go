// Package main provides the entry point for the tublog server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/tublog/tublog-server/internal/di"
	"github.com/tublog/tublog-server/internal/di/providers"
	"github.com/tublog/tublog-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	server := do.MustInvoke[*providers.HTTPServerHandle](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-quit:
		log.Info("Shutting down server gracefully...")
	case err := <-server.Err():
		log.Error("HTTP server stopped unexpectedly", "error", err)
		exitCode = 1
	}

	// The container stops dependents before their dependencies:
	// HTTP server, then cleanup job and services, then limiter and store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Goodbye")
	os.Exit(exitCode)
}
