// Package metrics exposes Prometheus counters for task assignment, status
// writes, logins and HTTP traffic on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskdesk"

// Recorder holds the application's collectors.
type Recorder struct {
	registry          *prometheus.Registry
	assignments       *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	statusWrites      *prometheus.CounterVec
	logins            *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpRequestLength *prometheus.HistogramVec
}

// New creates a Recorder registered on a fresh registry together with the Go
// runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_assignments_total",
			Help:      "Task assignment attempts by outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_notifications_total",
			Help:      "Assignment notification attempts by result.",
		}, []string{"result"}),
		statusWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_status_writes_total",
			Help:      "Per-task status update results.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpRequestLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.assignments,
		r.notifications,
		r.statusWrites,
		r.logins,
		r.httpRequests,
		r.httpRequestLength,
	)
	return r
}

// Registry returns the registry backing r.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// AssignmentOutcome counts one finished assignment.
func (r *Recorder) AssignmentOutcome(outcome string) {
	r.assignments.WithLabelValues(outcome).Inc()
}

// Notification counts one delivery attempt.
func (r *Recorder) Notification(sent bool) {
	result := "sent"
	if !sent {
		result = "failed"
	}
	r.notifications.WithLabelValues(result).Inc()
}

// StatusWrite counts one item of a status batch.
func (r *Recorder) StatusWrite(result string) {
	r.statusWrites.WithLabelValues(result).Inc()
}

// Login counts one login attempt. result is "success", "invalid" or "error".
func (r *Recorder) Login(result string) {
	r.logins.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency labelled by chi route pattern,
// so path parameters do not explode label cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.httpRequests.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()
		r.httpRequestLength.WithLabelValues(route, req.Method).Observe(time.Since(start).Seconds())
	})
}
