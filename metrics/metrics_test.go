package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCounters(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveCacheHit()
	m.ObserveCacheHit()
	m.ObserveCacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
}

func TestObserveLoadByOutcome(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveLoad(10*time.Millisecond, nil)
	m.ObserveLoad(time.Millisecond, errors.New("boom"))
	m.ObserveLoad(time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.datasetLoads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.datasetLoads.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.loadDuration))
}

func TestObserveReport(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveReport(time.Millisecond, errors.New("schema"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportsTotal.WithLabelValues("error")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics(nil)
	m.RecordHTTPRequest("GET", "/api/report", 200, 5*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/report", 503, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/report", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/report", "503")))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.NotPanics(t, func() { NewMetrics(nil) })
	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveCacheMiss()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "hrpulse_dataset_cache_misses_total 1")
}
