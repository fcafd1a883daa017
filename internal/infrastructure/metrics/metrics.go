// Package metrics contains Prometheus metrics of the bot
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot
type Metrics struct {
	// Inbound events
	EventsTotal      *prometheus.CounterVec
	RateLimitedTotal prometheus.Counter

	// Metadata
	MetadataFetchTotal    *prometheus.CounterVec
	MetadataFetchDuration prometheus.Histogram
	OptionsRejectedTotal  prometheus.Counter

	// Pipeline
	PipelinesInFlight   prometheus.Gauge
	PipelineResults     *prometheus.CounterVec
	PipelineTransitions *prometheus.CounterVec
	DownloadBytes       *prometheus.CounterVec
	DownloadDuration    *prometheus.HistogramVec

	// Cleanup
	CleanupErrors *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	GetDefaultMetrics()
}

// NewMetrics creates a new Metrics instance registered in the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		EventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytbot_inbound_events_total",
				Help: "Total number of inbound Telegram events by kind",
			},
			[]string{"kind"},
		),
		RateLimitedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ytbot_rate_limited_total",
			Help: "Total number of messages rejected by the per-chat rate limit",
		}),

		MetadataFetchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytbot_metadata_fetch_total",
				Help: "Total number of metadata fetches by result",
			},
			[]string{"result"},
		),
		MetadataFetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytbot_metadata_fetch_duration_seconds",
			Help:    "Duration of metadata fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		OptionsRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ytbot_options_rejected_total",
			Help: "Total number of videos rejected by the pre-download size check",
		}),

		PipelinesInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ytbot_pipelines_in_flight",
			Help: "Current number of running delivery pipelines",
		}),
		PipelineResults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytbot_pipeline_results_total",
				Help: "Total number of finished delivery pipelines by mode, terminal state and error type",
			},
			[]string{"mode", "state", "error_type"},
		),
		PipelineTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytbot_pipeline_transitions_total",
				Help: "Total number of delivery pipeline state transitions",
			},
			[]string{"state"},
		),
		DownloadBytes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytbot_download_bytes_total",
				Help: "Total number of bytes written to temporary files",
			},
			[]string{"mode"},
		),
		DownloadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytbot_download_duration_seconds",
				Help:    "Duration of stream downloads in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"mode"},
		),

		CleanupErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytbot_cleanup_errors_total",
				Help: "Total number of failed best-effort cleanups",
			},
			[]string{"target"},
		),
	}
}

// RecordEvent records an inbound event
func (m *Metrics) RecordEvent(kind string) {
	m.EventsTotal.WithLabelValues(kind).Inc()
}

// RecordRateLimited records a rejected message
func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

// RecordMetadataFetch records a metadata fetch result and duration
func (m *Metrics) RecordMetadataFetch(result string, durationSeconds float64) {
	m.MetadataFetchTotal.WithLabelValues(result).Inc()
	m.MetadataFetchDuration.Observe(durationSeconds)
}

// RecordOptionsRejected records a pre-download size rejection
func (m *Metrics) RecordOptionsRejected() {
	m.OptionsRejectedTotal.Inc()
}

// PipelineStarted increments the in-flight gauge
func (m *Metrics) PipelineStarted() {
	m.PipelinesInFlight.Inc()
}

// PipelineFinished records a terminal state and decrements the in-flight gauge
func (m *Metrics) PipelineFinished(mode, state, errorType string) {
	m.PipelinesInFlight.Dec()
	m.PipelineResults.WithLabelValues(mode, state, errorType).Inc()
}

// RecordTransition records a pipeline state change
func (m *Metrics) RecordTransition(state string) {
	m.PipelineTransitions.WithLabelValues(state).Inc()
}

// RecordDownload records bytes written and download duration
func (m *Metrics) RecordDownload(mode string, bytes int64, durationSeconds float64) {
	if bytes > 0 {
		m.DownloadBytes.WithLabelValues(mode).Add(float64(bytes))
	}
	m.DownloadDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordCleanupError records a failed message or file deletion
func (m *Metrics) RecordCleanupError(target string) {
	m.CleanupErrors.WithLabelValues(target).Inc()
}
