package mappers

import (
	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
)

func ToDomainEquipment(model *models.EquipmentModel) *domain.Equipment {
	return &domain.Equipment{
		ID:         model.ID,
		OwnerID:    model.OwnerID,
		Name:       model.Name,
		DailyPrice: model.DailyPrice,
		Lat:        model.Lat,
		Lon:        model.Lon,
		Status:     model.Status,
		AvgRating:  model.AvgRating,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func ToGORMEquipment(equipment *domain.Equipment) *models.EquipmentModel {
	return &models.EquipmentModel{
		ID:         equipment.ID,
		OwnerID:    equipment.OwnerID,
		Name:       equipment.Name,
		DailyPrice: equipment.DailyPrice,
		Lat:        equipment.Lat,
		Lon:        equipment.Lon,
		Status:     equipment.Status,
		AvgRating:  equipment.AvgRating,
		CreatedAt:  equipment.CreatedAt,
		UpdatedAt:  equipment.UpdatedAt,
	}
}
