package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for store resolution.
const (
	OutcomeSelected        = "selected"
	OutcomeDefault         = "default"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeNoStore         = "no_store"
	OutcomeError           = "error"
)

// Metrics provides observability for the tenant module.
// Tracks resolution outcomes, selection failures and the resolve critical path.
type Metrics struct {
	Resolutions        *prometheus.CounterVec
	SelectionFallbacks prometheus.Counter
	SelectionFailures  *prometheus.CounterVec
	ResolveDuration    prometheus.Histogram
	StoreCache         *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg (default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_store_resolutions_total",
			Help: "Current-store resolutions by outcome",
		}, []string{"outcome"}),
		SelectionFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_store_selection_fallbacks_total",
			Help: "Persisted selections that pointed at a missing store and fell back to the default store",
		}),
		SelectionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_store_selection_failures_total",
			Help: "Rejected store selections by reason",
		}, []string{"reason"}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_resolve_store_duration_seconds",
			Help:    "Duration of uncached ResolveCurrentStore computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		StoreCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_store_cache_total",
			Help: "Redis store lookup cache results",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementResolution(outcome string) {
	m.Resolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementSelectionFallback() {
	m.SelectionFallbacks.Inc()
}

func (m *Metrics) IncrementSelectionFailure(reason string) {
	m.SelectionFailures.WithLabelValues(reason).Inc()
}

// ObserveResolve records the duration of a resolution.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementStoreCacheHit()   { m.StoreCache.WithLabelValues("hit").Inc() }
func (m *Metrics) IncrementStoreCacheMiss()  { m.StoreCache.WithLabelValues("miss").Inc() }
func (m *Metrics) IncrementStoreCacheError() { m.StoreCache.WithLabelValues("error").Inc() }
