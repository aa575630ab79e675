package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/kqxs/api"
	"github.com/use-agent/kqxs/cache"
	"github.com/use-agent/kqxs/cleaner"
	"github.com/use-agent/kqxs/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(config.Load())
		},
	}
}

func runServe(cfg *config.Config) error {
	// ── 1. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log, os.Stdout)
	slog.Info("kqxs starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"production", cfg.Browser.Production,
	)

	// ── 2. Session manager + scraper (browser launched lazily) ──────
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// ── 3. Formatter + cache ────────────────────────────────────────
	f := cleaner.NewFormatter()
	cc := cache.New(cfg.Cache)
	if cc != nil {
		slog.Info("result cache enabled", "ttl", cfg.Cache.TTL, "maxEntries", cfg.Cache.MaxEntries)
	}

	// ── 4. Router ───────────────────────────────────────────────────
	router := api.NewRouter(a.scraper, f, cc, cfg, a.loc, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		slog.Error("HTTP server error", "error", err)
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	// A scrape can hold the browser for a while; give it time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Scraper.PageTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("kqxs stopped")
	return nil
}
