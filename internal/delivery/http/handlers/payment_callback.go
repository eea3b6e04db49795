package handlers

import (
	"log/slog"
	"net/http"

	"github.com/agrirent/rental-order-service/internal/infrastructure/metrics"
	usecase "github.com/agrirent/rental-order-service/internal/usecase/order"
)

const (
	ackSuccess = "success"
	ackFailure = "failure"
)

// CallbackVerifier is the inbound half of the gateway adapter.
type CallbackVerifier interface {
	VerifySignature(fields map[string]string) bool
}

// PaymentCallbackHandler receives asynchronous gateway notifications,
// verifies their authenticity and forwards validated payment events to the
// order usecase exactly once. Anything but a verified, processable payload
// answers with a failure token so the gateway retries.
type PaymentCallbackHandler struct {
	Verifier CallbackVerifier
	Orders   usecase.OrderUsecase
	Metrics  *metrics.OrderMetrics
}

func NewPaymentCallbackHandler(verifier CallbackVerifier, orders usecase.OrderUsecase, orderMetrics *metrics.OrderMetrics) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		Verifier: verifier,
		Orders:   orders,
		Metrics:  orderMetrics,
	}
}

func (h *PaymentCallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ackFailure, http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	if !h.Verifier.VerifySignature(fields) {
		if h.Metrics != nil {
			h.Metrics.CallbackVerifyFailuresTotal.Inc()
		}
		// sign and key material excluded from the audit line
		slog.Warn("gateway callback rejected on signature verification",
			"out_trade_no", fields["out_trade_no"],
			"trade_status", fields["trade_status"],
		)
		http.Error(w, ackFailure, http.StatusBadRequest)
		return
	}

	merchantOrderID := fields["out_trade_no"]
	if merchantOrderID == "" {
		http.Error(w, ackFailure, http.StatusBadRequest)
		return
	}

	order, err := h.Orders.GetOrderByMerchantOrderID(r.Context(), merchantOrderID)
	if err != nil {
		slog.Error("callback for unknown merchant order", "out_trade_no", merchantOrderID, "error", err.Error())
		http.Error(w, ackFailure, http.StatusNotFound)
		return
	}

	// Only success notifications settle the payment. A verified closed or
	// failed trade marks the record FAILED; the sweeper cancels the order
	// once the payment deadline passes.
	if !successStatus(fields["trade_status"]) {
		if err := h.Orders.MarkPaymentFailed(r.Context(), order.ID); err != nil {
			slog.Error("failed to record payment failure", "order_id", order.ID, "error", err.Error())
			http.Error(w, ackFailure, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ackSuccess))
		return
	}

	if _, err := h.Orders.ConfirmPayment(r.Context(), order.ID); err != nil {
		// Surface as failure so the gateway redelivers; ConfirmPayment is
		// idempotent, a duplicate of an applied payment succeeds above.
		slog.Error("payment confirmation failed", "order_id", order.ID, "error", err.Error())
		http.Error(w, ackFailure, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(ackSuccess))
}

func successStatus(tradeStatus string) bool {
	return tradeStatus == "TRADE_SUCCESS" || tradeStatus == "TRADE_FINISHED"
}
