package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/listtree/internal/api"
	"github.com/dgallion1/listtree/internal/config"
	"github.com/dgallion1/listtree/internal/pipeline"
	"github.com/dgallion1/listtree/internal/stats"
	"github.com/dgallion1/listtree/internal/version"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, stats.NewParseStats(cfg.StatsWindow), log)
	orch.Start(context.Background())

	// Initialize HTTP server.
	httpServer := &http.Server{
		Handler:      api.NewServer(orch, log, cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		log.Error("listen failed", "port", cfg.Port, "error", err)
		os.Exit(1)
	}

	log.Info("starting listtree",
		"port", cfg.Port,
		"version", version.Version,
		"workers", cfg.WorkerCount,
		"indent_width", cfg.IndentWidth,
		"marker", cfg.ListMarker,
	)
	if err := serve(ctx, httpServer, ln, orch, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// serve runs srv on ln until ctx is done, then shuts the server down and
// waits for queued jobs to drain before returning.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, orch *pipeline.Orchestrator, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}

	orch.Stop()
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
