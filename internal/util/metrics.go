package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders persisted with their line items",
	})

	OrderCreationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_creation_failures_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	PaymentsInitiatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_initiated_total",
		Help: "Total number of payment transactions created at the gateway",
	})

	PaymentSetupFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_setup_failures_total",
		Help: "Total number of gateway failures after order persistence",
	})

	PaymentGatewayLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_gateway_latency_seconds",
		Help:    "Latency of payment gateway transaction creation",
		Buckets: prometheus.DefBuckets,
	})

	WebhookSignatureFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webhook_signature_failures_total",
		Help: "Total number of webhook deliveries rejected for a bad signature",
	})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of order status updates applied from webhooks",
	}, []string{"status"})

	WorkflowNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_notifications_total",
		Help: "Total number of payment updates forwarded to the workflow endpoint",
	}, []string{"result"})

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
