package order

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodshop/internal/notify"
	"foodshop/internal/payment"
	"foodshop/internal/wallet"
)

func callbackRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	router := gin.New()
	router.GET("/payments/callback", h.ProcessorCallback)
	router.POST("/payments/callback", h.ProcessorCallback)
	return router
}

func expectPaidCallback(m *serviceMocks) {
	m.payments.On("VerifyCallback", mock.MatchedBy(func(v url.Values) bool {
		return v.Get("pp_Ref") == "sess-1"
	})).Return(&payment.CallbackResult{Event: payment.EventCompleted, Reference: "sess-1"}, nil)
	m.orders.On("MarkPaidBySession", mock.Anything, "sess-1").
		Return(createdOrder(MethodOnline, SourceDirect, true), true, nil)
	m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e notify.OrderEvent) bool {
		return e.Type == notify.EventOrderPaid
	})).Return()
	m.users.On("FindByID", mock.Anything, 7).Return(testCustomer(), nil)
	m.emails.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestProcessorCallbackGetQuery(t *testing.T) {
	svc, m := newTestService(t)
	expectPaidCallback(m)
	router := callbackRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/payments/callback?pp_Ref=sess-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	m.payments.AssertExpectations(t)
}

func TestProcessorCallbackPostFormBody(t *testing.T) {
	svc, m := newTestService(t)
	expectPaidCallback(m)
	router := callbackRouter(svc)

	// Server-to-server deliveries carry the signed params in the body, not
	// the query string.
	body := url.Values{"pp_Ref": {"sess-1"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/payments/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	m.payments.AssertExpectations(t)
}

func TestProcessorCallbackUnknownReference(t *testing.T) {
	svc, m := newTestService(t)
	m.payments.On("VerifyCallback", mock.Anything).
		Return(&payment.CallbackResult{Event: payment.EventCompleted, Reference: "sess-x"}, nil)
	m.orders.On("MarkPaidBySession", mock.Anything, "sess-x").Return(nil, false, nil)
	m.orders.On("GetBySessionRef", mock.Anything, "sess-x").Return(nil, ErrNotFound)
	m.wallets.On("GetTopupIntentByReference", mock.Anything, "sess-x").
		Return(nil, wallet.ErrIntentNotFound)
	router := callbackRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/payments/callback?pp_Ref=sess-x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
