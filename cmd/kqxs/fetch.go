package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/use-agent/kqxs/cleaner"
	"github.com/use-agent/kqxs/config"
	"github.com/use-agent/kqxs/models"
	"github.com/use-agent/kqxs/source"
)

type fetchOptions struct {
	date      string
	resultURL string
	column    string
	night     bool
	vietnam   bool
	format    string
}

func newFetchCmd() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Scrape one result and print it",
		Long: `Scrape one result without starting the server. The result is written to
stdout exactly as the HTTP API would return it; logs go to stderr.`,
		Example: `  kqxs fetch --date 2024-05-01 --result-url https://www.minhngoc.net.vn/ket-qua-xo-so/mien-bac.html
  kqxs fetch --date 2024-05-01 --result-url "TP. HCM" --column V2
  kqxs fetch --date 2024-05-01 --result-url Evening --vn=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, config.Load(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Draw date, e.g. 2024-05-01 (required)")
	cmd.Flags().StringVar(&opts.resultURL, "result-url", "", "minhngoc page URL, aggregator section title or shift name")
	cmd.Flags().StringVar(&opts.column, "column", "V1", "Prize column: V1, V2 or V3")
	cmd.Flags().BoolVar(&opts.night, "night", false, "Evening draw")
	cmd.Flags().BoolVar(&opts.vietnam, "vn", true, "Use the Vietnam providers")
	cmd.Flags().StringVar(&opts.format, "format", cleaner.FormatHTML, "Output format: html, text or markdown")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// buildRequest validates the options the same way the HTTP binding does.
func (o fetchOptions) buildRequest() (models.ResultRequest, error) {
	if source.ParseColumn(o.column) == 0 {
		return models.ResultRequest{}, fmt.Errorf("invalid column %q (must be V1, V2 or V3)", o.column)
	}
	switch o.format {
	case cleaner.FormatHTML, cleaner.FormatText, cleaner.FormatMarkdown:
	default:
		return models.ResultRequest{}, fmt.Errorf("invalid format %q (must be html, text or markdown)", o.format)
	}

	night, vietnam := o.night, o.vietnam
	return models.ResultRequest{
		Date:         o.date,
		ResultURL:    o.resultURL,
		Column:       o.column,
		IsNight:      &night,
		IsVn:         &vietnam,
		OutputFormat: o.format,
	}, nil
}

func runFetch(cmd *cobra.Command, cfg *config.Config, opts fetchOptions) error {
	initLogger(cfg.Log, cmd.ErrOrStderr())

	req, err := opts.buildRequest()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := req.ParseDate(a.loc)
	if err != nil {
		return err
	}
	q := source.NewQuery(date, req.ResultURL, req.Column, req.Vietnam(), req.Night())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := a.scraper.Scrape(ctx, q)
	if err != nil {
		return fmt.Errorf("scraping %s: %w", q.Provider, err)
	}

	body, err := cleaner.NewFormatter().Render(res, req.OutputFormat)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
	return err
}
