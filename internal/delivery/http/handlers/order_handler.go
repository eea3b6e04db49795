package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agrirent/rental-order-service/internal/domain"
	usecase "github.com/agrirent/rental-order-service/internal/usecase/order"
	"github.com/gorilla/mux"
)

// OrderHandler exposes the lifecycle-mutating operations. Identity is
// resolved upstream; the handler trusts the X-User-ID / X-User-Role pair
// set by the auth proxy.
type OrderHandler struct {
	Orders usecase.OrderUsecase
}

func NewOrderHandler(orders usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type createOrderRequest struct {
	EquipmentID string `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type orderResponse struct {
	ID              string `json:"id"`
	EquipmentID     string `json:"equipment_id"`
	RenterID        string `json:"renter_id"`
	MerchantOrderID string `json:"merchant_order_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalAmount     string `json:"total_amount"`
	Status          string `json:"status"`
}

func toOrderResponse(order *domain.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		EquipmentID:     order.EquipmentID,
		RenterID:        order.RenterID,
		MerchantOrderID: order.MerchantOrderID,
		StartDate:       order.StartDate.Format(time.RFC3339),
		EndDate:         order.EndDate.Format(time.RFC3339),
		TotalAmount:     order.TotalAmount.StringFixed(2),
		Status:          string(order.Status),
	}
}

func actorFrom(r *http.Request) domain.Actor {
	return domain.Actor{
		ID:   r.Header.Get("X-User-ID"),
		Role: domain.Role(r.Header.Get("X-User-Role")),
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), &usecase.CreateOrderInput{
		EquipmentID: req.EquipmentID,
		RenterID:    actorFrom(r).ID,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Orders.AcceptOrder)
}

func (h *OrderHandler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Orders.RejectOrder)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Orders.CancelOrder)
}

func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Orders.CompleteOrder)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)) {
	orderID := mux.Vars(r)["id"]
	order, err := op(r.Context(), orderID, actorFrom(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.GetOrderByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	orders, total, err := h.Orders.GetOrdersByRenterID(r.Context(), actorFrom(r).ID, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": items,
		"total":  total,
	})
}

func (h *OrderHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	record, err := h.Orders.GetPaymentByOrderID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	body := map[string]string{
		"order_id": record.OrderID,
		"amount":   record.Amount.StringFixed(2),
		"status":   string(record.Status),
	}
	if record.PaidAt != nil {
		body["paid_at"] = record.PaidAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *OrderHandler) PaymentURL(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	url, err := h.Orders.PaymentURL(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"payment_url": url})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrTransient):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
