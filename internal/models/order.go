package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a table's order. TotalPrice is derived from Lines and is only
// written by the recalculation step.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TableNumber int             `gorm:"not null;index" json:"table_number"`
	Status      OrderStatus     `gorm:"size:10;not null;default:'pending';index" json:"status"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// LinesTotal sums quantity x price_at_order over the given lines
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
