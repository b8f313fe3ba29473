package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMetrics_RecordCartOp(t *testing.T) {
	m := NewStoreMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordCartOp("add", "ok")
	m.RecordCartOp("add", "ok")
	m.RecordCartOp("add", "rejected")
	m.RecordCartOp("remove", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartOps.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOps.WithLabelValues("add", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOps.WithLabelValues("remove", "error")))
}

func TestStoreMetrics_RecordPromoRejection(t *testing.T) {
	m := NewStoreMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordPromoRejection("PROMO_EXPIRED")
	m.RecordPromoRejection("PROMO_EXPIRED")
	m.RecordPromoRejection("PROMO_EXHAUSTED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.promoRejections.WithLabelValues("PROMO_EXPIRED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promoRejections.WithLabelValues("PROMO_EXHAUSTED")))
}

func TestStoreMetrics_RecordCheckout(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewStoreMetricsWithRegisterer(registry)

	m.RecordCheckout("ok", 250, 120*time.Millisecond)
	m.RecordCheckout("rejected", 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutTotal.WithLabelValues("rejected")))

	// Only the successful checkout observed a value.
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() == "tarha_order_value" {
			require.Len(t, fam.GetMetric(), 1)
			assert.Equal(t, uint64(1), fam.GetMetric()[0].GetHistogram().GetSampleCount())
			assert.Equal(t, 250.0, fam.GetMetric()[0].GetHistogram().GetSampleSum())
		}
	}
}

func TestNewStoreMetricsWithRegisterer_Reregister(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewStoreMetricsWithRegisterer(registry)
	second := NewStoreMetricsWithRegisterer(registry)

	// Re-registration reuses the existing collectors rather than panicking.
	first.RecordCartOp("add", "ok")
	second.RecordCartOp("add", "ok")
	assert.Equal(t, 2.0, testutil.ToFloat64(second.cartOps.WithLabelValues("add", "ok")))
}
