package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Total number of completed order status transitions",
	}, []string{"status"})

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_rejected_total",
		Help: "Total number of rejected status transitions",
	}, []string{"reason"})

	TransitionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_transition_latency_seconds",
		Help:    "Latency of order status transitions",
		Buckets: prometheus.DefBuckets,
	})

	StockAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Total number of stock adjustments applied",
	}, []string{"action"})

	StockAdjustmentFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_adjustment_failures_total",
		Help: "Total number of per-item stock adjustments that failed and were skipped",
	})

	NotificationsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_published_total",
		Help: "Total number of customer notifications published to the queue",
	}, []string{"kind"})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of notification publishes that failed",
	})

	NotificationsDeliveredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Total number of notifications handed to the notifier",
	}, []string{"kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
