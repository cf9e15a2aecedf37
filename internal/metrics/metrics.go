package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodshop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_orders_total",
			Help: "Total number of orders created",
		},
		[]string{"payment_method", "payment_source"},
	)

	OrderStatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_order_status_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to"},
	)

	PaymentCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_payment_callbacks_total",
			Help: "Total number of processor callback events",
		},
		[]string{"event", "result"},
	)

	CheckoutRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_checkout_rejections_total",
			Help: "Total number of rejected checkout attempts",
		},
		[]string{"reason"},
	)

	WalletTopUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_wallet_topups_total",
			Help: "Total number of wallet credits",
		},
		[]string{"type"},
	)

	WalletDebitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodshop_wallet_debits_total",
			Help: "Total number of wallet debits",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodshop_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodshop_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordOrder(paymentMethod, paymentSource string) {
	OrdersTotal.WithLabelValues(paymentMethod, paymentSource).Inc()
}

func RecordStatusTransition(from, to string) {
	OrderStatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordPaymentCallback(event, result string) {
	PaymentCallbacksTotal.WithLabelValues(event, result).Inc()
}

func RecordCheckoutRejection(reason string) {
	CheckoutRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordWalletTopUp(txType string) {
	WalletTopUpsTotal.WithLabelValues(txType).Inc()
}

func RecordWalletDebit() {
	WalletDebitsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
