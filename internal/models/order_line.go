package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine is one dish in an order. PriceAtOrder is a snapshot of the dish
// price when the line was created and does not follow catalog edits.
type OrderLine struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	DishID       uint            `gorm:"not null;index" json:"dish_id"`
	Dish         Dish            `gorm:"foreignKey:DishID;constraint:OnDelete:CASCADE" json:"dish"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_order"`
}

// Subtotal returns quantity x price_at_order
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtOrder.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// BeforeSave validates the price snapshot for every writer
func (l *OrderLine) BeforeSave(tx *gorm.DB) error {
	if err := priceValidator.Validate(l.PriceAtOrder); err != nil {
		return err
	}
	l.PriceAtOrder = l.PriceAtOrder.Round(2)
	return nil
}
