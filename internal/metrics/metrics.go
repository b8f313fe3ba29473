package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the cart and checkout metrics.
type StoreMetrics struct {
	cartOps          *prometheus.CounterVec
	promoRejections  *prometheus.CounterVec
	checkoutTotal    *prometheus.CounterVec
	orderValue       prometheus.Histogram
	checkoutDuration prometheus.Histogram
}

// NewStoreMetrics creates metrics registered on the default registerer.
func NewStoreMetrics() *StoreMetrics {
	return NewStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWithRegisterer creates metrics on a caller-supplied
// registerer; tests pass a fresh registry to avoid cross-test collisions.
func NewStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		cartOps: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "tarha_cart_operations_total",
			Help: "Total number of cart operations by operation and outcome",
		}, []string{"op", "outcome"}),
		promoRejections: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "tarha_promo_rejections_total",
			Help: "Total number of promo code rejections by reason",
		}, []string{"reason"}),
		checkoutTotal: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "tarha_checkouts_total",
			Help: "Total number of checkout attempts by outcome",
		}, []string{"outcome"}),
		orderValue: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "tarha_order_value",
			Help:    "Final order totals in store currency units",
			Buckets: []float64{50, 100, 200, 400, 600, 1000, 2000, 5000},
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "tarha_checkout_duration_seconds",
			Help:    "Duration of checkout processing in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordCartOp counts a cart operation with its outcome ("ok", "rejected" or
// "error").
func (m *StoreMetrics) RecordCartOp(op, outcome string) {
	m.cartOps.WithLabelValues(op, outcome).Inc()
}

// RecordPromoRejection counts a promo validation failure by its error code.
func (m *StoreMetrics) RecordPromoRejection(reason string) {
	m.promoRejections.WithLabelValues(reason).Inc()
}

// RecordCheckout counts a checkout attempt and, when successful, observes the
// order total and processing duration.
func (m *StoreMetrics) RecordCheckout(outcome string, total float64, duration time.Duration) {
	m.checkoutTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.orderValue.Observe(total)
		m.checkoutDuration.Observe(duration.Seconds())
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
