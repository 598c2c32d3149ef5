/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Counts HTTP traffic and wage-repricing outcomes, exposed on /metrics.

METRICS:
  wage_http_requests_total{method, route, code}
    Every request through the router, labeled by chi route pattern so
    /contracts/{id} stays one series regardless of the ID.

  wage_repricings_total{outcome}
    Every totals recalculation the contract service performs, labeled
    ok / schedule_missing / schedule_invalid / empty_roster / error.
    Wired via contract.Service.ObserveRepricing.

REGISTRY:
  Each Metrics owns its registry, so tests can build isolated handlers
  without duplicate-registration panics.

SEE ALSO:
  - server.go: Middleware and /metrics route wiring
  - contract/service.go: ObserveRepricing hook
*/
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/wage-engine/engine"
)

// Metrics holds the API's Prometheus collectors.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	repricings *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "wage_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		repricings: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "wage_repricings_total",
			Help: "Contract repricing attempts by outcome.",
		}, []string{"outcome"}),
	}
}

// Middleware counts every request after it has been served, so the
// status code and matched route pattern are known.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}

// ObserveRepricing records one repricing attempt. Pass it to
// contract.Service.ObserveRepricing.
func (m *Metrics) ObserveRepricing(err error) {
	m.repricings.WithLabelValues(repricingOutcome(err)).Inc()
}

// Handler serves the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func repricingOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case engine.IsScheduleMissing(err):
		return "schedule_missing"
	case engine.IsScheduleInvalid(err):
		return "schedule_invalid"
	case errors.Is(err, engine.ErrEmptyRoster):
		return "empty_roster"
	default:
		return "error"
	}
}
