package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/restaurants", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/restaurants", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordOrder(t *testing.T) {
	OrdersTotal.Reset()

	RecordOrder("online", "direct")
	RecordOrder("online", "wallet")
	RecordOrder("on_site", "direct")
	RecordOrder("online", "direct")

	assert.Equal(t, float64(2), testutil.ToFloat64(OrdersTotal.WithLabelValues("online", "direct")))
	assert.Equal(t, float64(1), testutil.ToFloat64(OrdersTotal.WithLabelValues("online", "wallet")))
	assert.Equal(t, float64(1), testutil.ToFloat64(OrdersTotal.WithLabelValues("on_site", "direct")))
}

func TestRecordStatusTransition(t *testing.T) {
	OrderStatusTransitionsTotal.Reset()

	RecordStatusTransition("new", "preparing")
	RecordStatusTransition("preparing", "ready")
	RecordStatusTransition("new", "preparing")

	assert.Equal(t, float64(2), testutil.ToFloat64(OrderStatusTransitionsTotal.WithLabelValues("new", "preparing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(OrderStatusTransitionsTotal.WithLabelValues("preparing", "ready")))
}

func TestRecordPaymentCallback(t *testing.T) {
	PaymentCallbacksTotal.Reset()

	RecordPaymentCallback("completed", "applied")
	RecordPaymentCallback("completed", "duplicate")
	RecordPaymentCallback("expired", "applied")

	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentCallbacksTotal.WithLabelValues("completed", "applied")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentCallbacksTotal.WithLabelValues("completed", "duplicate")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentCallbacksTotal.WithLabelValues("expired", "applied")))
}

func TestRecordWalletTopUp(t *testing.T) {
	WalletTopUpsTotal.Reset()

	RecordWalletTopUp("topup_stripe")
	RecordWalletTopUp("topup_admin")
	RecordWalletTopUp("topup_stripe")

	assert.Equal(t, float64(2), testutil.ToFloat64(WalletTopUpsTotal.WithLabelValues("topup_stripe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(WalletTopUpsTotal.WithLabelValues("topup_admin")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("order_confirmation", "success")
	RecordEmail("order_confirmation", "failed")
	RecordEmail("order_ready", "success")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("order_confirmation", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("order_confirmation", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("order_ready", "success")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
