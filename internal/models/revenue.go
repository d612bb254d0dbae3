package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Revenue is the ledger entry for one calendar date. There is at most one row per date.
type Revenue struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Date         datatypes.Date  `gorm:"uniqueIndex;not null" json:"date"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_revenue"`
}

// LedgerDate normalises a calendar day to the value stored in Revenue.Date
func LedgerDate(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Day returns the stored date formatted as YYYY-MM-DD
func (r Revenue) Day() string {
	return time.Time(r.Date).Format(time.DateOnly)
}
