package metrics

import (
	"math/big"
	"net/http"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/governance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records governance activity in a private Prometheus registry
type Metrics struct {
	operations    *prometheus.CounterVec
	disbursements prometheus.Counter
	disbursed     prometheus.Counter
	members       prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the governance metrics
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coop_governance_operations_total",
				Help: "Governance operations by name and outcome category",
			},
			[]string{"operation", "outcome"},
		),
		disbursements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coop_treasury_disbursements_total",
			Help: "Number of executed treasury disbursements",
		}),
		disbursed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coop_treasury_disbursed_base_units_total",
			Help: "Token base units paid out by executed proposals (approximate above 2^53)",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "coop_members",
			Help: "Registered association members",
		}),
		registry: registry,
	}

	registry.MustRegister(m.operations, m.disbursements, m.disbursed, m.members)
	return m
}

// ObserveOperation counts an operation, labelled ok or by error category
func (m *Metrics) ObserveOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(domain.Category(err))
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

// ObserveDisbursement records an executed payout
func (m *Metrics) ObserveDisbursement(amount *big.Int) {
	m.disbursements.Inc()
	if amount != nil {
		f, _ := new(big.Float).SetInt(amount).Float64()
		m.disbursed.Add(f)
	}
}

// SetMembers sets the registered member gauge
func (m *Metrics) SetMembers(n int) {
	m.members.Set(float64(n))
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ governance.Metrics = (*Metrics)(nil)
