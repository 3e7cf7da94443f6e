// Package metrics exposes the service's Prometheus instrumentation: a
// registry, an IsEnabled gate, and the recorder functions the storage
// layer calls into.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	enabled  bool

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	savedBytesTotal   prometheus.Counter
	loadedBytesTotal  prometheus.Counter
	activeUploads     prometheus.Gauge
	sessionExpiries   prometheus.Counter
)

// InitRegistry enables metrics collection and registers every collector on
// a fresh registry. Calling it again replaces the registry and every
// collector, discarding the values recorded so far.
func InitRegistry() {
	enabled = true
	registry = prometheus.NewRegistry()

	operationsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "canistorage_operations_total",
			Help: "Total number of storage operations by name and result code.",
		},
		[]string{"operation", "code"},
	)
	operationDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "canistorage_operation_duration_milliseconds",
			Help:    "Duration of storage operations in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"operation"},
	)
	savedBytesTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "canistorage_saved_bytes_total",
		Help: "Total bytes written via Save and chunked upload commits.",
	})
	loadedBytesTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "canistorage_loaded_bytes_total",
		Help: "Total bytes returned via Load.",
	})
	activeUploads = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "canistorage_active_upload_sessions",
		Help: "Current number of in-progress chunked upload sessions.",
	})
	sessionExpiries = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "canistorage_upload_session_expiries_total",
		Help: "Total number of chunked upload sessions reclaimed for exceeding the idle timeout.",
	})
}

// IsEnabled reports whether InitRegistry has run.
func IsEnabled() bool {
	return enabled
}

// Handler returns the /metrics HTTP handler for the registry, or nil if
// metrics were never initialized.
func Handler() http.Handler {
	if !enabled {
		return nil
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveOperation records a storage operation's outcome and duration. A
// code of 0 (what apperror.CodeOf returns for a nil error) records result
// code "0".
func ObserveOperation(operation string, code uint32, duration time.Duration) {
	if !enabled {
		return
	}
	operationsTotal.WithLabelValues(operation, strconv.FormatUint(uint64(code), 10)).Inc()
	operationDuration.WithLabelValues(operation).Observe(float64(duration.Microseconds()) / 1000)
}

// RecordSavedBytes adds n to the running total of bytes written.
func RecordSavedBytes(n int) {
	if !enabled || n <= 0 {
		return
	}
	savedBytesTotal.Add(float64(n))
}

// RecordLoadedBytes adds n to the running total of bytes read.
func RecordLoadedBytes(n int) {
	if !enabled || n <= 0 {
		return
	}
	loadedBytesTotal.Add(float64(n))
}

// UploadSessionOpened increments the active upload session gauge.
func UploadSessionOpened() {
	if !enabled {
		return
	}
	activeUploads.Inc()
}

// UploadSessionClosed decrements the active upload session gauge, whether
// the session ended in commit, cancel, or expiry.
func UploadSessionClosed() {
	if !enabled {
		return
	}
	activeUploads.Dec()
}

// UploadSessionExpired records an idle-timeout reclamation, in addition to
// the UploadSessionClosed gauge adjustment the caller also performs.
func UploadSessionExpired() {
	if !enabled {
		return
	}
	sessionExpiries.Inc()
}
