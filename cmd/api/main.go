// Package main provides the entry point for the QuillPress API server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/di"
	"github.com/quillpress/quillpress-server/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	injector := di.NewContainer(os.Args[1:], version)

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown runs in reverse dependency order: HTTP server, then the store.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Server stopped")
}
