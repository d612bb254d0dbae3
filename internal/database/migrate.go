package database

import (
	"fmt"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the dishes, orders, order_lines and revenues tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Dish{}, &models.Order{}, &models.OrderLine{}, &models.Revenue{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("Database schema migrated")
	return nil
}

// Open connects with InitDatabase and migrates the schema
func Open(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
