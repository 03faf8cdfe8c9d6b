// Package metrics exposes Prometheus collectors for the intake pipeline and HTTP API.
// All recording methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "claimassist"

type Metrics struct {
	registry *prometheus.Registry

	pipelineTotal        *prometheus.CounterVec
	pipelineDuration     *prometheus.HistogramVec
	rejectionProbability prometheus.Histogram
	qualityTotal         *prometheus.CounterVec
	extractionFailures   *prometheus.CounterVec
	detectorTotal        *prometheus.CounterVec

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	pipelineTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by disposition action and insurance type.",
		},
		[]string{"action", "insurance_type"},
	)
	pipelineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)
	rejectionProbability := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "rejection_probability",
			Help:      "Distribution of scored rejection probabilities.",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95},
		},
	)
	qualityTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quality",
			Name:      "assessments_total",
			Help:      "Image quality assessments by tier.",
		},
		[]string{"quality"},
	)
	extractionFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "failures_total",
			Help:      "Extraction calls replaced by the failure sentinel, by reason.",
		},
		[]string{"reason"},
	)
	detectorTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "calls_total",
			Help:      "Visual marker detector calls by outcome.",
		},
		[]string{"status"},
	)
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
		},
	)

	registry.MustRegister(
		pipelineTotal,
		pipelineDuration,
		rejectionProbability,
		qualityTotal,
		extractionFailures,
		detectorTotal,
		requestTotal,
		requestDuration,
		requestInFlight,
	)

	return &Metrics{
		registry:             registry,
		pipelineTotal:        pipelineTotal,
		pipelineDuration:     pipelineDuration,
		rejectionProbability: rejectionProbability,
		qualityTotal:         qualityTotal,
		extractionFailures:   extractionFailures,
		detectorTotal:        detectorTotal,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
	}
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.pipelineDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) RecordQuality(quality string) {
	if m == nil {
		return
	}
	m.qualityTotal.WithLabelValues(quality).Inc()
}

func (m *Metrics) RecordExtractionFailure(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.extractionFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordDetector(status string) {
	if m == nil {
		return
	}
	m.detectorTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordOutcome(action, insuranceType string, rejectionProbability float64) {
	if m == nil {
		return
	}
	m.pipelineTotal.WithLabelValues(action, insuranceType).Inc()
	m.rejectionProbability.Observe(rejectionProbability)
}

func (m *Metrics) StartRequest() {
	if m == nil {
		return
	}
	m.requestInFlight.Inc()
}

func (m *Metrics) FinishRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestInFlight.Dec()
	if path == "" {
		path = "unmatched"
	}
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
