// Package metrics 进程内所有 prometheus 指标，/metrics 暴露。
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "shop"

// HTTP
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route template, method and status"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP latency by route template",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"path", "method"},
	)
	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "http_in_flight_requests", Help: "Requests currently being served"},
	)
)

// 业务
var (
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "orders_created_total", Help: "Orders created, by source and payment method"},
		[]string{"source", "payment_method"},
	)
	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "order_status_transitions_total", Help: "Order status changes"},
		[]string{"from", "to"},
	)
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notifications_total", Help: "Notifications written, by type and result"},
		[]string{"type", "result"},
	)
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cart_mutations_total", Help: "Cart mutations by operation"},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPLatency, HTTPInFlight,
		OrdersCreated, StatusTransitions, NotificationsSent, CartMutations,
	)
}
