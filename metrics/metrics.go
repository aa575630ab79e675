// Package metrics exposes Prometheus instrumentation for scrapes and the
// browser session.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeOK labels a scrape that returned without error.
const OutcomeOK = "OK"

var (
	ScrapeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kqxs_scrape_duration_seconds",
			Help:    "Duration of scrapes in seconds, including the wait for the browser.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)
	ScrapesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kqxs_scrapes_total",
			Help: "Total number of scrapes, labeled by provider and outcome code.",
		},
		[]string{"provider", "outcome"},
	)
	BrowserLaunches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "kqxs_browser_launches_total",
			Help: "Total number of browser processes launched.",
		},
	)
	SessionWaiting = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kqxs_session_waiting",
			Help: "Requests queued for the browser session.",
		},
	)
	SessionLeased = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kqxs_session_leased",
			Help: "1 while a request holds the browser session.",
		},
	)
	Rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kqxs_requests_rejected_total",
			Help: "Result requests turned away before scraping, labeled by reason code.",
		},
		[]string{"reason"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kqxs_cache_lookups_total",
			Help: "Result cache lookups, labeled hit or miss.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(ScrapeDuration)
	prometheus.MustRegister(ScrapesTotal)
	prometheus.MustRegister(BrowserLaunches)
	prometheus.MustRegister(SessionWaiting)
	prometheus.MustRegister(SessionLeased)
	prometheus.MustRegister(CacheLookups)
	prometheus.MustRegister(Rejections)
}

// ObserveScrape records one finished scrape.
func ObserveScrape(provider, outcome string, d time.Duration) {
	ScrapeDuration.WithLabelValues(provider).Observe(d.Seconds())
	ScrapesTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveCache records a cache lookup.
func ObserveCache(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveRejection records a request turned away by admission middleware.
func ObserveRejection(reason string) {
	Rejections.WithLabelValues(reason).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
