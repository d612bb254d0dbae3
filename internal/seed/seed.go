// Package seed fills an empty database with a starter menu and demo orders.
package seed

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.WithField("component", "seed")

// MenuItem is one dish of the starter menu
type MenuItem struct {
	Name        string
	Price       string
	Description string
}

// Menu is the starter menu created on a fresh database
var Menu = []MenuItem{
	{Name: "Margherita", Price: "10.99", Description: "Tomato sauce, mozzarella, basil"},
	{Name: "Pepperoni", Price: "12.99", Description: "Tomato sauce, mozzarella, pepperoni"},
	{Name: "Caesar Salad", Price: "8.50", Description: "Romaine, parmesan, croutons"},
	{Name: "Minestrone", Price: "6.25", Description: "Vegetable soup"},
	{Name: "Tiramisu", Price: "5.75", Description: "Coffee and mascarpone dessert"},
	{Name: "Espresso", Price: "2.20"},
}

// IsEmpty reports whether the dishes table has no rows
func IsEmpty(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Dish{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count dishes: %w", err)
	}
	return count == 0, nil
}

// SeedMenu creates every menu item through the dish service and returns the stored dishes
func SeedMenu(ctx context.Context, dishes services.DishService) ([]models.Dish, error) {
	log.Info("Seeding menu")
	created := make([]models.Dish, 0, len(Menu))
	for _, item := range Menu {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("menu item %q: %w", item.Name, err)
		}
		input := services.DishInput{Name: item.Name, Price: decimal.NewNullDecimal(price)}
		if item.Description != "" {
			description := item.Description
			input.Description = &description
		}

		dish, err := dishes.CreateDish(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("seed dish %q: %w", item.Name, err)
		}
		created = append(created, dish)
	}
	log.WithField("dishes", len(created)).Info("Menu seeded")
	return created, nil
}

// SeedOrders places count demo orders spread over a few tables. Every third
// order is left pending, the rest alternate between ready and paid.
func SeedOrders(ctx context.Context, orders services.OrderService, menu []models.Dish, count int) ([]models.Order, error) {
	if len(menu) == 0 {
		return nil, fmt.Errorf("seed orders: empty menu")
	}

	placed := make([]models.Order, 0, count)
	for i := 0; i < count; i++ {
		status := models.OrderStatusPaid
		switch {
		case i%3 == 2:
			status = models.OrderStatusPending
		case i%2 == 1:
			status = models.OrderStatusReady
		}

		items := []services.LineInput{
			{DishID: menu[i%len(menu)].ID, Quantity: 1 + i%3},
			{DishID: menu[(i+2)%len(menu)].ID, Quantity: 1},
		}
		order, err := orders.CreateOrder(ctx, services.CreateOrderInput{
			TableNumber: 1 + i%8,
			Status:      status,
			Items:       items,
		})
		if err != nil {
			return nil, fmt.Errorf("seed order %d: %w", i+1, err)
		}
		placed = append(placed, order)
	}
	log.WithField("orders", len(placed)).Info("Demo orders seeded")
	return placed, nil
}
