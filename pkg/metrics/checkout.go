package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records submission outcomes for the checkout pipeline.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"shop"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_success",
		Help: "Checkout submissions accepted upstream.",
	}, []string{"shop"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure",
		Help: "Checkout submissions rejected upstream or failed in transit.",
	}, []string{"shop"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_precondition_rejected",
		Help: "Checkout attempts rejected locally before any network call.",
	}, []string{"shop", "reason"})
	reg.MustRegister(duration, success, failure, rejected)
	return &CheckoutMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		rejected: rejected,
	}
}

// ObserveDuration records the duration for the shop's submission.
func (c *CheckoutMetrics) ObserveDuration(shop string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(shop)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the shop.
func (c *CheckoutMetrics) IncSuccess(shop string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(shop)).Inc()
}

// IncFailure increments the failure counter for the shop.
func (c *CheckoutMetrics) IncFailure(shop string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(shop)).Inc()
}

// IncRejected counts local precondition rejections by reason.
func (c *CheckoutMetrics) IncRejected(shop, reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(shop), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
