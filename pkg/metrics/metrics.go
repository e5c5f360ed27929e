// Package metrics registers Steward's Prometheus collectors and provides
// the HTTP instrumentation middleware and scrape handler.
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
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steward_http_requests_total",
			Help: "Total number of HTTP requests by method, route pattern, and status",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steward_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TicketsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "steward_tickets_submitted_total",
			Help: "Total number of tickets submitted",
		},
	)

	ApprovalsDecided = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steward_approvals_decided_total",
			Help: "Total number of approval decisions by outcome",
		},
		[]string{"decision"},
	)

	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steward_notifications_delivered_total",
			Help: "Total number of notifications created by kind",
		},
		[]string{"kind"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDecision counts an approval decision.
func RecordDecision(decision string) {
	ApprovalsDecided.WithLabelValues(decision).Inc()
}

// RecordNotification counts a delivered notification.
func RecordNotification(kind string) {
	NotificationsDelivered.WithLabelValues(kind).Inc()
}

// Middleware records request counts and latency labelled by the matched
// ServeMux pattern. It must wrap the mux directly so the pattern is visible
// once the inner handler returns.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}
