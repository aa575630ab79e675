package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kqxs/cache"
	"github.com/use-agent/kqxs/cleaner"
	"github.com/use-agent/kqxs/metrics"
	"github.com/use-agent/kqxs/models"
	"github.com/use-agent/kqxs/source"
)

// failureBody is the only detail a client gets about a failed scrape.
const failureBody = "An error occurred"

const textPlain = "text/plain; charset=utf-8"

// ResultScraper resolves a query to extracted fragments.
type ResultScraper interface {
	Scrape(ctx context.Context, q source.Query) (source.Result, error)
}

// Result returns a handler for POST /api/scrap-result.
//
// Orchestration flow:
//  1. Bind & validate; any failure is a 400 before the browser is touched.
//  2. Parse the date in loc and build the query.
//  3. Cache lookup (nil cache disables it).
//  4. Scrape; failures are logged and answered with a generic 500.
//  5. Render fragments in the requested format, store, return 200.
func Result(sc ResultScraper, f *cleaner.Formatter, cc *cache.Cache, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ResultRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Data(http.StatusBadRequest, textPlain, []byte(err.Error()))
			return
		}
		req.Defaults()

		// ── 2. Build query ──────────────────────────────────────────
		date, err := req.ParseDate(loc)
		if err != nil {
			c.Data(http.StatusBadRequest, textPlain, []byte(err.Error()))
			return
		}
		q := source.NewQuery(date, req.ResultURL, req.Column, req.Vietnam(), req.Night())

		// ── 3. Cache lookup ─────────────────────────────────────────
		cacheKey := cache.Key(q, req.OutputFormat)
		if cc != nil {
			body, hit := cc.Get(cacheKey)
			metrics.ObserveCache(hit)
			if hit {
				c.Header("X-Cache", "hit")
				c.Data(http.StatusOK, textPlain, []byte(body))
				return
			}
		}

		// ── 4. Scrape ───────────────────────────────────────────────
		res, err := sc.Scrape(c.Request.Context(), q)
		if err != nil {
			slog.Error("scrape failed",
				"code", models.ErrorCode(err),
				"provider", q.Provider.String(),
				"result_url", q.ResultURL,
				"date", req.Date,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			c.Data(http.StatusInternalServerError, textPlain, []byte(failureBody))
			return
		}

		// ── 5. Render and respond ───────────────────────────────────
		body, err := f.Render(res, req.OutputFormat)
		if err != nil {
			slog.Error("rendering result failed", "format", req.OutputFormat, "error", err)
			c.Data(http.StatusInternalServerError, textPlain, []byte(failureBody))
			return
		}
		cc.Set(cacheKey, body)

		c.Data(http.StatusOK, textPlain, []byte(body))
	}
}
