package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidPriceError is returned when a price is below the configured minimum
type InvalidPriceError struct {
	MinPrice decimal.Decimal
	Value    decimal.Decimal
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("price %s is below the minimum of %s", e.Value.String(), e.MinPrice.String())
}

// MaxPrice is the largest price a dish or order line column can hold
var MaxPrice = decimal.RequireFromString("99999.99")

// PriceValidator rejects monetary values lower than MinPrice
type PriceValidator struct {
	MinPrice decimal.Decimal
}

// NewPriceValidator creates a validator with the given lower bound
func NewPriceValidator(minPrice decimal.Decimal) PriceValidator {
	return PriceValidator{MinPrice: minPrice}
}

// Validate fails when value < MinPrice. A value equal to the bound is accepted.
func (v PriceValidator) Validate(value decimal.Decimal) error {
	if value.LessThan(v.MinPrice) {
		return &InvalidPriceError{MinPrice: v.MinPrice, Value: value}
	}
	return nil
}

// priceValidator is used by the model save hooks
var priceValidator = NewPriceValidator(decimal.Zero)

// SetMinPrice changes the lower bound enforced when dishes and order lines are saved
func SetMinPrice(minPrice decimal.Decimal) {
	priceValidator = NewPriceValidator(minPrice)
}

// CurrentPriceValidator returns the validator the save hooks use
func CurrentPriceValidator() PriceValidator {
	return priceValidator
}
