package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// httpMetrics groups the collectors of the prediction API.
type httpMetrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	throttled prometheus.Counter
	panics    prometheus.Counter
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	f := promauto.With(reg)
	return &httpMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "croprec_http_requests_total",
			Help: "Prediction API requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		// a KNN lookup over a few thousand rows takes well under a second
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "croprec_http_request_duration_seconds",
			Help:    "Prediction API latency by method and route.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"method", "path"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "croprec_http_requests_in_flight",
			Help: "Prediction API requests currently being served.",
		}),
		throttled: f.NewCounter(prometheus.CounterOpts{
			Name: "croprec_rate_limit_rejects_total",
			Help: "Prediction requests refused by the token bucket.",
		}),
		panics: f.NewCounter(prometheus.CounterOpts{
			Name: "croprec_panic_recoveries_total",
			Help: "Panics recovered while serving predictions.",
		}),
	}
}

var apiMetrics = newHTTPMetrics(prometheus.DefaultRegisterer)

// observe counts and times every request under its route template, so path
// parameters never become label values.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiMetrics.inFlight.Inc()
		defer apiMetrics.inFlight.Dec()

		rec := recorderFor(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := routePath(r)
		apiMetrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
		apiMetrics.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
