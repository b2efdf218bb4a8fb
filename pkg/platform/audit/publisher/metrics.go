package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts audit delivery outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Published           prometheus.Counter
	Dropped             prometheus.Counter
	Failed              prometheus.Counter
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_audit_published_total",
			Help: "Audit events delivered to the sink",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_audit_dropped_total",
			Help: "Audit events dropped because the buffer was full or the circuit was open",
		}),
		Failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_audit_failed_total",
			Help: "Audit events the sink rejected",
		}),
		CircuitBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_audit_circuit_breaker_state",
			Help: "Audit sink circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) incFailed() {
	if m != nil {
		m.Failed.Inc()
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
		return
	}
	m.CircuitBreakerState.Set(0)
}
