package postgres

import (
	"log"

	"github.com/agrirent/rental-order-service/internal/config"
	"github.com/agrirent/rental-order-service/internal/infrastructure/logger"
	"github.com/agrirent/rental-order-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.RentalConfig) *gorm.DB {
	dsn := cfg.RentalDB.Dsn
	// TranslateError makes the driver surface unique-index violations as
	// gorm.ErrDuplicatedKey, which the store maps to domain.ErrConflict.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.EquipmentModel{},
		&models.OrderModel{},
		&models.PaymentRecordModel{},
		&logger.OrderTransitionEvent{},
	)

	return db
}
