package repository

import (
	"context"

	"github.com/agrirent/rental-order-service/internal/domain"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/mappers"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEquipmentRepository struct {
	DB *gorm.DB
}

func NewDefaultEquipmentRepository(db *gorm.DB) *DefaultEquipmentRepository {
	return &DefaultEquipmentRepository{DB: db}
}

func (r *DefaultEquipmentRepository) CreateEquipment(ctx context.Context, equipment *domain.Equipment) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMEquipment(equipment)).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *DefaultEquipmentRepository) GetEquipmentByID(ctx context.Context, equipmentID string) (*domain.Equipment, error) {
	var model models.EquipmentModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", equipmentID).Error; err != nil {
		return nil, translateError(err)
	}
	return mappers.ToDomainEquipment(&model), nil
}

func (r *DefaultEquipmentRepository) GetEquipmentByOwnerID(ctx context.Context, ownerID string) ([]*domain.Equipment, error) {
	var equipmentModels []models.EquipmentModel
	if err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&equipmentModels).Error; err != nil {
		return nil, translateError(err)
	}

	equipment := make([]*domain.Equipment, len(equipmentModels))
	for i, model := range equipmentModels {
		equipment[i] = mappers.ToDomainEquipment(&model)
	}
	return equipment, nil
}
