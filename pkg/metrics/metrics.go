package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes.
type CartMetrics struct {
	operations      *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	couponRejected  *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations processed, labeled by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart snapshots that failed to persist.",
	}, []string{"op"})
	couponRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_coupon_rejections_total",
		Help: "Coupons that failed a validity gate, labeled by reason.",
	}, []string{"reason"})
	reg.MustRegister(operations, persistFailures, couponRejected)
	return &CartMetrics{
		operations:      operations,
		persistFailures: persistFailures,
		couponRejected:  couponRejected,
	}
}

// IncOperation increments the counter for the named mutation.
func (c *CartMetrics) IncOperation(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure increments the persistence failure counter for the named mutation.
func (c *CartMetrics) IncPersistFailure(op string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCouponRejected increments the rejection counter for the named gate.
func (c *CartMetrics) IncCouponRejected(reason string) {
	if c == nil || c.couponRejected == nil {
		return
	}
	c.couponRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
