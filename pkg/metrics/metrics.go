package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxpay", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxpay", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxpay", Name: "auth_failures_total", Help: "Number of rejected credentials by internal reason."},
		[]string{"reason"},
	)
	Payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxpay", Name: "payments_total", Help: "Number of recorded payments by method."},
		[]string{"method"},
	)
	GatewayOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxpay", Name: "gateway_orders_total", Help: "Number of gateway order attempts by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(AuthFailures)
	reg.MustRegister(Payments)
	reg.MustRegister(GatewayOrders)
}
