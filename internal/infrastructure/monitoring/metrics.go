// internal/infrastructure/monitoring/metrics.go
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CheckoutsTotal counts checkout sessions by terminal outcome.
	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Checkout sessions by outcome",
		},
		[]string{"outcome"},
	)

	// ReceiptPollsTotal counts receipt poll attempts by result.
	ReceiptPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_polls_total",
			Help: "Transaction receipt poll attempts",
		},
		[]string{"result"},
	)

	// StarknetCallsTotal counts JSON-RPC calls by entry point and result.
	StarknetCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starknet_calls_total",
			Help: "Starknet JSON-RPC calls",
		},
		[]string{"entry_point", "result"},
	)

	// PriceRefreshTotal counts price feed refresh attempts.
	PriceRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_refresh_total",
			Help: "Price feed refresh attempts",
		},
		[]string{"result"},
	)
)
