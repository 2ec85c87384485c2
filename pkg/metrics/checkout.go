package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the order finalization pipeline.
// A nil receiver or unregistered instance is a no-op so tests and tools
// can skip wiring a registry.
type CheckoutMetrics struct {
	duration        *prometheus.HistogramVec
	ordersFinalized *prometheus.CounterVec
	checkoutFailed  *prometheus.CounterVec
	rewardsMinted   prometheus.Counter
	paymentsByState *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout pipeline runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	finalized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_finalized_total",
		Help: "Orders that reached a paid or finalized status.",
	}, []string{"status"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Checkout attempts rejected before an order was written.",
	}, []string{"reason"})
	rewards := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_rewards_minted_total",
		Help: "Loyalty reward coupons minted by the credit pipeline.",
	})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_updates_total",
		Help: "Payment gateway status updates processed.",
	}, []string{"status"})
	reg.MustRegister(duration, finalized, failed, rewards, payments)
	return &CheckoutMetrics{
		duration:        duration,
		ordersFinalized: finalized,
		checkoutFailed:  failed,
		rewardsMinted:   rewards,
		paymentsByState: payments,
	}
}

// ObserveDuration records a single checkout run. Mode is "sync" or "gateway".
func (c *CheckoutMetrics) ObserveDuration(mode string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncFinalized increments the finalized counter for the terminal status.
func (c *CheckoutMetrics) IncFinalized(status string) {
	if c == nil || c.ordersFinalized == nil {
		return
	}
	c.ordersFinalized.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncFailed increments the rejection counter for the given reason code.
func (c *CheckoutMetrics) IncFailed(reason string) {
	if c == nil || c.checkoutFailed == nil {
		return
	}
	c.checkoutFailed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncRewardMinted counts one loyalty reward coupon.
func (c *CheckoutMetrics) IncRewardMinted() {
	if c == nil || c.rewardsMinted == nil {
		return
	}
	c.rewardsMinted.Inc()
}

// IncPaymentUpdate counts a processed gateway status update.
func (c *CheckoutMetrics) IncPaymentUpdate(status string) {
	if c == nil || c.paymentsByState == nil {
		return
	}
	c.paymentsByState.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
