package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/agrirent/rental-order-service/internal/domain"
	usecase "github.com/agrirent/rental-order-service/internal/usecase/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	valid  bool
	fields map[string]string
}

func (v *stubVerifier) VerifySignature(fields map[string]string) bool {
	v.fields = fields
	return v.valid
}

// fakeOrders overrides only the two operations the callback path touches.
type fakeOrders struct {
	usecase.OrderUsecase

	order      *domain.Order
	lookupErr  error
	confirmErr error
	confirmed  []string
	failed     []string
}

func (f *fakeOrders) GetOrderByMerchantOrderID(ctx context.Context, merchantOrderID string) (*domain.Order, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.order, nil
}

func (f *fakeOrders) ConfirmPayment(ctx context.Context, orderID string) (*domain.Order, error) {
	f.confirmed = append(f.confirmed, orderID)
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return f.order, nil
}

func (f *fakeOrders) MarkPaymentFailed(ctx context.Context, orderID string) error {
	f.failed = append(f.failed, orderID)
	return nil
}

func postCallback(t *testing.T, handler *PaymentCallbackHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/gateway/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.HandleCallback(recorder, req)
	return recorder
}

func validForm() url.Values {
	return url.Values{
		"out_trade_no": {"mo-123"},
		"trade_status": {"TRADE_SUCCESS"},
		"total_amount": {"300.00"},
		"sign":         {"c2lnbmF0dXJl"},
		"sign_type":    {"RSA2"},
	}
}

func TestHandleCallback(t *testing.T) {
	order := &domain.Order{ID: "order-1", MerchantOrderID: "mo-123", Status: domain.StatusAccepted}

	t.Run("verified payload confirms the order", func(t *testing.T) {
		orders := &fakeOrders{order: order}
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: true}, orders, nil)

		recorder := postCallback(t, handler, validForm())

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "success", recorder.Body.String())
		assert.Equal(t, []string{"order-1"}, orders.confirmed)
	})

	t.Run("verifier sees all form fields", func(t *testing.T) {
		verifier := &stubVerifier{valid: true}
		handler := NewPaymentCallbackHandler(verifier, &fakeOrders{order: order}, nil)

		postCallback(t, handler, validForm())

		require.NotNil(t, verifier.fields)
		assert.Equal(t, "mo-123", verifier.fields["out_trade_no"])
		assert.Equal(t, "c2lnbmF0dXJl", verifier.fields["sign"])
		assert.Equal(t, "RSA2", verifier.fields["sign_type"])
	})

	t.Run("verified closed trade fails the payment instead of settling", func(t *testing.T) {
		orders := &fakeOrders{order: order}
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: true}, orders, nil)

		form := validForm()
		form.Set("trade_status", "TRADE_CLOSED")
		recorder := postCallback(t, handler, form)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "success", recorder.Body.String())
		assert.Empty(t, orders.confirmed)
		assert.Equal(t, []string{"order-1"}, orders.failed)
	})

	t.Run("finished trade settles like success", func(t *testing.T) {
		orders := &fakeOrders{order: order}
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: true}, orders, nil)

		form := validForm()
		form.Set("trade_status", "TRADE_FINISHED")
		recorder := postCallback(t, handler, form)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, []string{"order-1"}, orders.confirmed)
		assert.Empty(t, orders.failed)
	})

	t.Run("bad signature is rejected before any lookup", func(t *testing.T) {
		orders := &fakeOrders{order: order}
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: false}, orders, nil)

		recorder := postCallback(t, handler, validForm())

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "failure")
		assert.Empty(t, orders.confirmed)
	})

	t.Run("missing out_trade_no", func(t *testing.T) {
		form := validForm()
		form.Del("out_trade_no")
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: true}, &fakeOrders{order: order}, nil)

		recorder := postCallback(t, handler, form)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown merchant order", func(t *testing.T) {
		orders := &fakeOrders{lookupErr: domain.ErrNotFound}
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: true}, orders, nil)

		recorder := postCallback(t, handler, validForm())

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Empty(t, orders.confirmed)
	})

	t.Run("confirmation failure asks the gateway to retry", func(t *testing.T) {
		orders := &fakeOrders{order: order, confirmErr: domain.ErrTransient}
		handler := NewPaymentCallbackHandler(&stubVerifier{valid: true}, orders, nil)

		recorder := postCallback(t, handler, validForm())

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "failure")
	})
}
