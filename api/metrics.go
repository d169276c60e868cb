package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts ledger operations by book, operation, and outcome so the
// ops dashboard can watch rejection rates per ledger.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics registers the API metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a private registry
// so parallel tests don't collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackedge",
			Subsystem: "api",
			Name:      "operations_total",
			Help:      "Ledger operations by book, operation, and outcome.",
		}, []string{"ledger", "op", "outcome"}),
	}
}

func (m *Metrics) observe(ledgerName, op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(ledgerName, op, outcome).Inc()
}
