// Package metrics exposes Prometheus collectors for the media manager
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served HTTP requests by route pattern and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_manager_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks HTTP request latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_manager_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RemoteCalls counts calls to the store APIs
	RemoteCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_manager_remote_calls_total",
			Help: "Calls made to the remote store APIs",
		},
		[]string{"store", "kind", "outcome"},
	)

	// RemoteDuration tracks remote call latency
	RemoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_manager_remote_call_duration_seconds",
			Help:    "Remote store API call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"store", "kind"},
	)

	// Uploads counts media uploads by kind and outcome
	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_manager_uploads_total",
			Help: "Media uploads to the external store",
		},
		[]string{"kind", "outcome"},
	)

	// PollAttempts counts video status polls by observed status
	PollAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_manager_video_poll_attempts_total",
			Help: "Video processing status polls",
		},
		[]string{"status"},
	)

	// Deletions counts remote media deletions by outcome
	Deletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_manager_deletions_total",
			Help: "Media deletions from the external store",
		},
		[]string{"outcome"},
	)
)

// Outcome labels an error result
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveRemote records one remote call
func ObserveRemote(store, kind string, started time.Time, err error) {
	RemoteCalls.WithLabelValues(store, kind, Outcome(err)).Inc()
	RemoteDuration.WithLabelValues(store, kind).Observe(time.Since(started).Seconds())
}
