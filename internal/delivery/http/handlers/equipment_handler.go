package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agrirent/rental-order-service/internal/domain"
	usecase "github.com/agrirent/rental-order-service/internal/usecase/order"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type EquipmentHandler struct {
	Orders usecase.OrderUsecase
}

func NewEquipmentHandler(orders usecase.OrderUsecase) *EquipmentHandler {
	return &EquipmentHandler{Orders: orders}
}

type createEquipmentRequest struct {
	Name       string  `json:"name"`
	DailyPrice string  `json:"daily_price"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

type equipmentResponse struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"owner_id"`
	Name       string  `json:"name"`
	DailyPrice string  `json:"daily_price"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Status     string  `json:"status"`
}

func toEquipmentResponse(equipment *domain.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:         equipment.ID,
		OwnerID:    equipment.OwnerID,
		Name:       equipment.Name,
		DailyPrice: equipment.DailyPrice.StringFixed(2),
		Lat:        equipment.Lat,
		Lon:        equipment.Lon,
		Status:     string(equipment.Status),
	}
}

func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(req.DailyPrice)
	if err != nil {
		http.Error(w, "invalid daily_price", http.StatusBadRequest)
		return
	}

	equipment, err := h.Orders.CreateEquipment(r.Context(), &usecase.CreateEquipmentInput{
		OwnerID:    actorFrom(r).ID,
		Name:       req.Name,
		DailyPrice: price,
		Lat:        req.Lat,
		Lon:        req.Lon,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEquipmentResponse(equipment))
}

func (h *EquipmentHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.Orders.GetEquipmentByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentResponse(equipment))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus is the provider maintenance toggle: AVAILABLE, MAINTENANCE or
// OFFLINE. Lifecycle states are rejected downstream.
func (h *EquipmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Orders.SetEquipmentStatus(r.Context(), id, domain.EquipmentStatus(req.Status), actorFrom(r)); err != nil {
		writeDomainError(w, err)
		return
	}

	equipment, err := h.Orders.GetEquipmentByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentResponse(equipment))
}
