// Package metrics exports game and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwebster45206/mapquest/pkg/engine"
)

const namespace = "mapquest"

// Recorder is an engine observer that turns notifications into metrics.
type Recorder struct {
	registry *prometheus.Registry

	notifications *prometheus.CounterVec
	sessions      prometheus.Counter
	defeats       prometheus.Counter
	hitPoints     prometheus.Gauge
	gold          prometheus.Gauge
	queued        prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "State change notifications by reason",
		}, []string{"reason"}),
		sessions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Game sessions started",
		}),
		defeats: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adventurer_defeats_total",
			Help:      "Sessions that ended with the adventurer defeated",
		}),
		hitPoints: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "adventurer_hit_points",
			Help:      "Current adventurer hit points",
		}),
		gold: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "adventurer_gold",
			Help:      "Current adventurer gold",
		}),
		queued: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "encounters_queued",
			Help:      "Encounters waiting behind the open one",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// StateChanged records one notification.
func (r *Recorder) StateChanged(n engine.Notification) {
	r.notifications.WithLabelValues(string(n.Reason)).Inc()

	switch n.Reason {
	case engine.ReasonSessionStarted:
		r.sessions.Inc()
	case engine.ReasonSessionEnded:
		r.defeats.Inc()
	}

	if a := n.Snapshot.Adventurer; a != nil {
		r.hitPoints.Set(float64(a.HitPoints))
		r.gold.Set(float64(a.Gold))
	}
	r.queued.Set(float64(n.Snapshot.Queued))
}

// Handler serves the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers working behind the middleware.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware collects HTTP request metrics. pattern maps a request to the
// route label, keeping path parameters out of label values.
func (r *Recorder) Middleware(pattern func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, req)

			path := req.URL.Path
			if pattern != nil {
				if p := pattern(req); p != "" {
					path = p
				}
			}
			r.httpRequests.WithLabelValues(req.Method, path, strconv.Itoa(rw.statusCode)).Inc()
			r.httpDuration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
