// Package metrics provides Prometheus metrics for the home cloud server.
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
	// HTTP
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homecloud_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homecloud_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// команды
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homecloud_operations_total",
			Help: "Total number of file commands by outcome status",
		},
		[]string{"operation", "status"},
	)

	// байты туда-сюда
	bytesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homecloud_bytes_uploaded_total",
			Help: "Total bytes written by uploads",
		},
	)

	bytesDownloaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homecloud_bytes_downloaded_total",
			Help: "Total bytes sent by downloads and archives",
		},
	)

	// корзина
	trashMovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homecloud_trash_moves_total",
			Help: "Total attempts to move a path to the trash",
		},
		[]string{"result"},
	)

	trashAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homecloud_trash_available",
			Help: "1 if the host trash bin is usable",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordOperation(operation, status string) {
	operationsTotal.WithLabelValues(operation, status).Inc()
}

func RecordUpload(bytes int64) {
	bytesUploaded.Add(float64(bytes))
}

func RecordDownload(bytes int64) {
	bytesDownloaded.Add(float64(bytes))
}

func RecordTrashMove(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	trashMovesTotal.WithLabelValues(result).Inc()
}

// SetTrashAvailable publishes the trash capability.
func SetTrashAvailable(available bool) {
	if available {
		trashAvailable.Set(1)
		return
	}
	trashAvailable.Set(0)
}
