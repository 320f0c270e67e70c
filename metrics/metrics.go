// Package metrics exposes the activity of a budget.Book to Prometheus.
package metrics

import (
	"errors"
	"net/http"

	"github.com/etnz/budget"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of budget_operations_total.
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// Collector implements budget.Observer on its own registry.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	balance    prometheus.Gauge
}

var _ budget.Observer = (*Collector)(nil)

// NewCollector creates a collector whose metrics are prefixed by namespace
// (no prefix if empty). Go runtime metrics are registered too.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_operations_total",
				Help:      "Total number of book commands per operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "budget_pool_balance",
			Help:      "Unallocated balance of the savings pool",
		}),
	}
	c.registry.MustRegister(c.operations, c.balance, collectors.NewGoCollector())
	return c
}

// Observe records the outcome of a command and the pool balance.
func (c *Collector) Observe(op string, err error, balance budget.Amount) {
	c.operations.WithLabelValues(op, Outcome(err)).Inc()
	c.balance.Set(float64(balance))
}

// SetBalance sets the pool balance gauge, typically after loading a book.
func (c *Collector) SetBalance(balance budget.Amount) { c.balance.Set(float64(balance)) }

// Registry returns the registry holding the collector metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Outcome classifies a command error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, budget.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, budget.ErrInsufficientFunds):
		return OutcomeInsufficientFunds
	case errors.Is(err, budget.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
