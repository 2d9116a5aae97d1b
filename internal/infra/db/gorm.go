package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
)

// Connect opens the postgres connection and returns *gorm.DB.
func Connect(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
}

// Migrate creates or updates every persisted table.
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.User{},
		&model.Business{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
	)
}
