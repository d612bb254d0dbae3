package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dish is a menu item. Order lines reference it but copy its price.
type Dish struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:250;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"price"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
}

// BeforeSave validates the price for every writer
func (d *Dish) BeforeSave(tx *gorm.DB) error {
	if err := priceValidator.Validate(d.Price); err != nil {
		return err
	}
	d.Price = d.Price.Round(2)
	return nil
}
