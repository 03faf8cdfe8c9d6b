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

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage("quality", time.Millisecond)
		m.RecordQuality("good")
		m.RecordExtractionFailure("timeout")
		m.RecordDetector("ok")
		m.RecordOutcome("auto_approve", "health", 0.1)
		m.StartRequest()
		m.FinishRequest("GET", "/healthz", 200, time.Millisecond)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordExtractionFailure("timeout")
	m.RecordExtractionFailure("timeout")
	m.RecordExtractionFailure("")
	m.RecordOutcome("manual_review", "vehicle", 0.95)
	m.RecordQuality("poor")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.extractionFailures.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractionFailures.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineTotal.WithLabelValues("manual_review", "vehicle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.qualityTotal.WithLabelValues("poor")))
}

func TestMetrics_RequestLifecycle(t *testing.T) {
	m := New()

	m.StartRequest()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestInFlight))
	m.FinishRequest("POST", "/api/v1/analyses", 201, 20*time.Millisecond)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("POST", "/api/v1/analyses", "201")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordOutcome("auto_approve", "health", 0.1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "claimassist_pipeline_runs_total")
	assert.Contains(t, rec.Body.String(), "claimassist_pipeline_rejection_probability_bucket")
}
