package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/greencart/checkout-client/pkg/enums"
)

// CheckoutMetrics records checkout attempt outcomes and durations. A nil
// registerer yields a no-op recorder, which the CLI uses by default.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	attempts *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_attempt_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by terminal outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, attempts)
	return &CheckoutMetrics{
		duration: duration,
		attempts: attempts,
	}
}

// ObserveAttempt records one finished attempt.
func (c *CheckoutMetrics) ObserveAttempt(outcome enums.CheckoutOutcome, duration time.Duration) {
	if c == nil {
		return
	}
	label := normalizeLabel(outcome.String())
	if c.attempts != nil {
		c.attempts.WithLabelValues(label).Inc()
	}
	if c.duration != nil {
		c.duration.WithLabelValues(label).Observe(duration.Seconds())
	}
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
