package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/kqxs/browser"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/scraper"
	"github.com/use-agent/kqxs/source"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newRootCmd creates the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kqxs",
		Short: "Lottery result scraper",
		Long: `kqxs drives a headless browser against lottery result sites and returns
the prize cells for a given date and region.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := config.LoadEnvFiles(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newFetchCmd())

	return cmd
}

// app bundles the long-lived components both subcommands need.
type app struct {
	sessions *browser.Manager
	scraper  *scraper.Scraper
	loc      *time.Location
}

func newApp(cfg *config.Config) (*app, error) {
	loc, err := cfg.Scraper.Location()
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	sessions := browser.NewManager(cfg.Browser, cfg.Scraper.PageTimeout)
	dispatcher := source.NewDispatcher(cfg.Sources, cfg.Scraper)

	return &app{
		sessions: sessions,
		scraper:  scraper.New(sessions, dispatcher, cfg.Scraper),
		loc:      loc,
	}, nil
}

// Close kills any browser still held.
func (a *app) Close() {
	a.sessions.Close()
}

// initLogger configures slog based on the LogConfig. When a log file is
// configured, records go to both w and the rotated file.
func initLogger(cfg config.LogConfig, w io.Writer) {
	if cfg.File != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
