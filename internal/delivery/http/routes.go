package http

import (
	"net/http"

	"github.com/agrirent/rental-order-service/internal/delivery/http/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(orderHandler *handlers.OrderHandler, equipmentHandler *handlers.EquipmentHandler, callbackHandler *handlers.PaymentCallbackHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/orders", orderHandler.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", orderHandler.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/accept", orderHandler.AcceptOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/reject", orderHandler.RejectOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/cancel", orderHandler.CancelOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/complete", orderHandler.CompleteOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/payment", orderHandler.GetPayment).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/payment-url", orderHandler.PaymentURL).Methods(http.MethodGet)

	r.HandleFunc("/equipment", equipmentHandler.CreateEquipment).Methods(http.MethodPost)
	r.HandleFunc("/equipment/{id}", equipmentHandler.GetEquipment).Methods(http.MethodGet)
	r.HandleFunc("/equipment/{id}/status", equipmentHandler.SetStatus).Methods(http.MethodPatch)

	r.HandleFunc("/gateway/callback", callbackHandler.HandleCallback).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
