package controllers

import (
	"time"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/shopspring/decimal"
)

// DishResponse is the JSON form of a dish. Money is a fixed two-decimal string.
type DishResponse struct {
	ID          uint    `json:"id" example:"1"`
	Name        string  `json:"name" example:"Margherita"`
	Price       string  `json:"price" example:"10.50"`
	Description *string `json:"description,omitempty"`
}

// OrderLineResponse is one line of an order
type OrderLineResponse struct {
	ID           uint   `json:"id" example:"1"`
	DishID       uint   `json:"dish_id" example:"1"`
	DishName     string `json:"dish_name" example:"Margherita"`
	Quantity     int    `json:"quantity" example:"2"`
	PriceAtOrder string `json:"price_at_order" example:"10.50"`
	Subtotal     string `json:"subtotal" example:"21.00"`
}

// OrderResponse is the JSON form of an order with its lines
type OrderResponse struct {
	ID          uint                `json:"id" example:"1"`
	TableNumber int                 `json:"table_number" example:"4"`
	Status      models.OrderStatus  `json:"status" example:"pending"`
	TotalPrice  string              `json:"total_price" example:"21.00"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Items       []OrderLineResponse `json:"items"`
}

// RevenueResponse is one ledger row
type RevenueResponse struct {
	ID           uint   `json:"id" example:"1"`
	Date         string `json:"date" example:"2025-03-10"`
	TotalRevenue string `json:"total_revenue" example:"800.00"`
}

// TodayRevenueResponse is the live revenue of the current day
type TodayRevenueResponse struct {
	TotalRevenue string `json:"total_revenue" example:"800.00"`
}

func formatMoney(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func newDishResponse(dish models.Dish) DishResponse {
	return DishResponse{
		ID:          dish.ID,
		Name:        dish.Name,
		Price:       formatMoney(dish.Price),
		Description: dish.Description,
	}
}

func newDishResponses(dishes []models.Dish) []DishResponse {
	out := make([]DishResponse, 0, len(dishes))
	for _, dish := range dishes {
		out = append(out, newDishResponse(dish))
	}
	return out
}

func newOrderResponse(order models.Order) OrderResponse {
	items := make([]OrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, OrderLineResponse{
			ID:           line.ID,
			DishID:       line.DishID,
			DishName:     line.Dish.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: formatMoney(line.PriceAtOrder),
			Subtotal:     formatMoney(line.Subtotal()),
		})
	}
	return OrderResponse{
		ID:          order.ID,
		TableNumber: order.TableNumber,
		Status:      order.Status,
		TotalPrice:  formatMoney(order.TotalPrice),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		Items:       items,
	}
}

func newOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, newOrderResponse(order))
	}
	return out
}

func newRevenueResponse(record models.Revenue) RevenueResponse {
	return RevenueResponse{
		ID:           record.ID,
		Date:         record.Day(),
		TotalRevenue: formatMoney(record.TotalRevenue),
	}
}

func newRevenueResponses(records []models.Revenue) []RevenueResponse {
	out := make([]RevenueResponse, 0, len(records))
	for _, record := range records {
		out = append(out, newRevenueResponse(record))
	}
	return out
}
