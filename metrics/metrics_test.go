package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveScrape(t *testing.T) {
	before := testutil.ToFloat64(ScrapesTotal.WithLabelValues("minhngoc", "ELEMENT_NOT_FOUND"))

	ObserveScrape("minhngoc", "ELEMENT_NOT_FOUND", 3*time.Second)

	after := testutil.ToFloat64(ScrapesTotal.WithLabelValues("minhngoc", "ELEMENT_NOT_FOUND"))
	assert.Equal(t, before+1, after)
}

func TestObserveCache(t *testing.T) {
	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(CacheLookups.WithLabelValues("miss"))

	ObserveCache(true)
	ObserveCache(false)
	ObserveCache(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CacheLookups.WithLabelValues("miss")))
}

func TestObserveRejection(t *testing.T) {
	before := testutil.ToFloat64(Rejections.WithLabelValues("SESSION_BUSY"))

	ObserveRejection("SESSION_BUSY")

	assert.Equal(t, before+1, testutil.ToFloat64(Rejections.WithLabelValues("SESSION_BUSY")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveScrape("aggregator", OutcomeOK, time.Second)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kqxs_scrapes_total")
	assert.Contains(t, w.Body.String(), "kqxs_scrape_duration_seconds")
}
