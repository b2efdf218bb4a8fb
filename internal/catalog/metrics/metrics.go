package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for catalogue pricing and promo management.
type Metrics struct {
	PricedProducts     *prometheus.CounterVec
	PromosCreated      *prometheus.CounterVec
	StorefrontDuration prometheus.Histogram
}

// New creates a Metrics instance registered with reg (default registerer when nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		PricedProducts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_priced_products_total",
			Help: "Products priced for a storefront, by whether a promo applied",
		}, []string{"discounted"}),
		PromosCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_promos_created_total",
			Help: "Promos created, by scope",
		}, []string{"scope"}),
		StorefrontDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_catalogue_build_duration_seconds",
			Help:    "Duration of priced catalogue assembly",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ObservePriced(discounted bool) {
	label := "false"
	if discounted {
		label = "true"
	}
	m.PricedProducts.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementPromoCreated(scope string) {
	m.PromosCreated.WithLabelValues(scope).Inc()
}

func (m *Metrics) ObserveStorefront(start time.Time) {
	m.StorefrontDuration.Observe(time.Since(start).Seconds())
}
