package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// requestsTotal counts served requests per route and status class, so an
// operator can watch match/connections/shapes traffic and error rates
// without grepping logs.
var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "transitsnap_requests_total",
	Help: "Total HTTP requests served by the Request Facade, by route and status class.",
}, []string{"route", "status_class"})

// emptyMatchesTotal counts /map-match calls that fell through to
// EmptyResult — a useful signal of Snapshot staleness or a badly-tuned
// matcher.Config, distinct from a malformed-request 400.
var emptyMatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "transitsnap_empty_matches_total",
	Help: "Total /map-match calls that returned an empty result.",
})

// instrumented wraps handler, observing its route in requestsTotal.
func instrumented(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		requestsTotal.WithLabelValues(route, statusClass(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// metricsHandler exposes the process's Prometheus metrics, unauthenticated
// like /healthz.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
