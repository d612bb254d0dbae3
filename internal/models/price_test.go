package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceValidator(t *testing.T) {
	testCases := []struct {
		name     string
		minPrice string
		value    string
		wantErr  bool
	}{
		{name: "negative price fails", minPrice: "0", value: "-0.01", wantErr: true},
		{name: "zero price passes", minPrice: "0", value: "0", wantErr: false},
		{name: "positive price passes", minPrice: "0", value: "10.50", wantErr: false},
		{name: "price equal to custom minimum passes", minPrice: "5", value: "5.00", wantErr: false},
		{name: "price below custom minimum fails", minPrice: "5", value: "4.99", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewPriceValidator(decimal.RequireFromString(tt.minPrice))

			err := validator.Validate(decimal.RequireFromString(tt.value))

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var priceErr *InvalidPriceError
			require.ErrorAs(t, err, &priceErr)
			assert.True(t, priceErr.MinPrice.Equal(decimal.RequireFromString(tt.minPrice)))
			assert.True(t, priceErr.Value.Equal(decimal.RequireFromString(tt.value)))
		})
	}
}

func TestDishBeforeSaveRejectsNegativePrice(t *testing.T) {
	dish := &Dish{Name: "Broken", Price: decimal.NewFromInt(-10)}

	err := dish.BeforeSave(nil)

	var priceErr *InvalidPriceError
	assert.ErrorAs(t, err, &priceErr)
}

func TestOrderLineBeforeSaveRoundsSnapshot(t *testing.T) {
	line := &OrderLine{Quantity: 1, PriceAtOrder: decimal.RequireFromString("10.505")}

	require.NoError(t, line.BeforeSave(nil))

	assert.Equal(t, "10.51", line.PriceAtOrder.StringFixed(2))
}

func TestSetMinPrice(t *testing.T) {
	defer SetMinPrice(decimal.Zero)

	SetMinPrice(decimal.NewFromInt(1))

	assert.True(t, CurrentPriceValidator().MinPrice.Equal(decimal.NewFromInt(1)))
	assert.Error(t, (&Dish{Name: "Water", Price: decimal.Zero}).BeforeSave(nil))
}

func TestLinesTotal(t *testing.T) {
	lines := []OrderLine{
		{Quantity: 2, PriceAtOrder: decimal.RequireFromString("10.50")},
		{Quantity: 1, PriceAtOrder: decimal.RequireFromString("5.99")},
	}

	assert.Equal(t, "26.99", LinesTotal(lines).StringFixed(2))
	assert.True(t, LinesTotal(nil).IsZero())
}

func TestParseOrderStatuses(t *testing.T) {
	statuses, err := ParseOrderStatuses("paid, Ready")
	require.NoError(t, err)
	assert.Equal(t, []OrderStatus{OrderStatusPaid, OrderStatusReady}, statuses)

	_, err = ParseOrderStatuses("paid,cancelled")
	assert.Error(t, err)

	_, err = ParseOrderStatuses(" , ")
	assert.Error(t, err)
}
