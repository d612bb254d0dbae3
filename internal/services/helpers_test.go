package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/tablepos/internal/database"
	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file::memory:?_foreign_keys=on",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func price(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(money(value))
}

func createDish(t *testing.T, db *gorm.DB, name, value string) models.Dish {
	t.Helper()
	dish, err := NewDishService(db).CreateDish(context.Background(), DishInput{Name: name, Price: price(value)})
	require.NoError(t, err)
	return dish
}

// storedTotal reads total_price straight from the table
func storedTotal(t *testing.T, db *gorm.DB, orderID uint) decimal.Decimal {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	return order.TotalPrice
}

// linesSum recomputes the expected total from the stored lines
func linesSum(t *testing.T, db *gorm.DB, orderID uint) decimal.Decimal {
	t.Helper()
	var lines []models.OrderLine
	require.NoError(t, db.Where("order_id = ?", orderID).Find(&lines).Error)
	return models.LinesTotal(lines)
}

func requireMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, money(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}
