package api

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/calc-engine/calc"
)

// Metrics implements calc.Observer and serves /metrics from its own
// registry, so tests can build as many as they like.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	storeErrors  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calc",
			Name:      "calculations_total",
			Help:      "Calculations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		storeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calc",
			Name:      "history_store_errors_total",
			Help:      "History store failures by store operation.",
		}, []string{"op"}),
	}
}

// ObserveCalculation counts one calculation. Unknown operation names are
// folded into "unknown" to bound label cardinality.
func (m *Metrics) ObserveCalculation(operation string, err error) {
	if !calc.Operation(operation).Valid() {
		operation = "unknown"
	}
	m.calculations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) ObserveStoreError(op string, _ error) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, calc.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, calc.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, calc.ErrNotFinite):
		return "not_finite"
	}
	return "error"
}
