// Package main provides a scoring service stub that replays fixture matrices.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raphaelgruber/plagcheck/internal/config"
	"github.com/raphaelgruber/plagcheck/internal/stubserver"
)

func main() {
	// Parse flags
	cfg := config.Load()
	port := flag.Int("port", cfg.StubPort, "listen port (default $PLAGCHECK_STUB_PORT or 5001)")
	fixturePath := flag.String("fixture", cfg.StubFixture, "YAML fixture file (default $PLAGCHECK_STUB_FIXTURE or built-in)")
	flag.Parse()

	// Initialize logging
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}()
	slog.SetDefault(logger)

	fixture := stubserver.DefaultFixture()
	if *fixturePath != "" {
		var err error
		fixture, err = stubserver.LoadFixture(*fixturePath)
		if err != nil {
			slog.Error("failed to load fixture", "file", *fixturePath, "error", err)
			os.Exit(1)
		}
	}

	names := make([]string, 0, len(fixture.Models))
	for _, m := range fixture.Models {
		names = append(names, m.Name)
	}
	slog.Info("starting scoring-stub", "port", *port, "models", names)

	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      stubserver.NewRouter(fixture, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("API available", "url", fmt.Sprintf("http://localhost:%d/api", *port))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
