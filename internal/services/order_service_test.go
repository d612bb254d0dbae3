package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTotalFollowsLineMutations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.50")

	order, err := service.CreateOrder(ctx, CreateOrderInput{TableNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	requireMoney(t, "0", order.TotalPrice)

	// add a line: 2 x 10.50
	order, err = service.AddLine(ctx, order.ID, LineInput{DishID: pizza.ID, Quantity: 2, PriceAtOrder: price("10.50")})
	require.NoError(t, err)
	requireMoney(t, "21.00", order.TotalPrice)
	requireMoney(t, "21.00", storedTotal(t, db, order.ID))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Pizza", order.Lines[0].Dish.Name)

	// bump quantity to 3
	quantity := 3
	order, err = service.UpdateLine(ctx, order.ID, order.Lines[0].ID, LineUpdate{Quantity: &quantity})
	require.NoError(t, err)
	requireMoney(t, "31.50", storedTotal(t, db, order.ID))

	// delete the only line
	order, err = service.RemoveDishFromOrder(ctx, order.ID, pizza.ID)
	require.NoError(t, err)
	assert.Empty(t, order.Lines)
	requireMoney(t, "0.00", storedTotal(t, db, order.ID))
}

func TestCreateOrderWithItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.99")
	soup := createDish(t, db, "Soup", "5.99")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 5,
		Items: []LineInput{
			{DishID: pizza.ID, Quantity: 2, PriceAtOrder: price("10.99")},
			{DishID: soup.ID, Quantity: 1, PriceAtOrder: price("5.99")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, order.TableNumber)
	assert.Len(t, order.Lines, 2)
	requireMoney(t, "27.97", order.TotalPrice)
	requireMoney(t, linesSum(t, db, order.ID).String(), storedTotal(t, db, order.ID))
}

func TestLineSnapshotsCatalogPrice(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	orders := NewOrderService(db)
	dishes := NewDishService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	order, err := orders.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 2,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	requireMoney(t, "10.00", order.Lines[0].PriceAtOrder)

	_, err = dishes.UpdateDish(ctx, pizza.ID, DishInput{Name: "Pizza", Price: price("15.00")})
	require.NoError(t, err)

	order, err = orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	requireMoney(t, "10.00", order.Lines[0].PriceAtOrder)
	requireMoney(t, "10.00", order.TotalPrice)
	requireMoney(t, "15.00", order.Lines[0].Dish.Price)
}

func TestUpdateOrderReplacesLines(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.99")
	soup := createDish(t, db, "Soup", "5.99")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 5,
		Items: []LineInput{
			{DishID: pizza.ID, Quantity: 2, PriceAtOrder: price("10.99")},
			{DishID: soup.ID, Quantity: 1, PriceAtOrder: price("5.99")},
		},
	})
	require.NoError(t, err)

	table := 7
	status := models.OrderStatusReady
	items := []LineInput{{DishID: pizza.ID, Quantity: 3, PriceAtOrder: price("10.99")}}
	order, err = service.UpdateOrder(ctx, order.ID, UpdateOrderInput{TableNumber: &table, Status: &status, Items: &items})
	require.NoError(t, err)

	assert.Equal(t, 7, order.TableNumber)
	assert.Equal(t, models.OrderStatusReady, order.Status)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, pizza.ID, order.Lines[0].DishID)
	requireMoney(t, "32.97", storedTotal(t, db, order.ID))

	var count int64
	require.NoError(t, db.Model(&models.OrderLine{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateOrderWithoutItemsKeepsLines(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	status := models.OrderStatusPaid
	order, err = service.UpdateOrder(ctx, order.ID, UpdateOrderInput{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Len(t, order.Lines, 1)
	requireMoney(t, "20.00", order.TotalPrice)
}

func TestUpdateOrderWithEmptyItemsClearsTotal(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	empty := []LineInput{}
	order, err = service.UpdateOrder(ctx, order.ID, UpdateOrderInput{Items: &empty})
	require.NoError(t, err)

	assert.Empty(t, order.Lines)
	requireMoney(t, "0", order.TotalPrice)
}

func TestRemoveDishFromOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.50")
	soup := createDish(t, db, "Soup", "4.00")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 2, PriceAtOrder: price("10.50")}},
	})
	require.NoError(t, err)

	t.Run("dish not in order", func(t *testing.T) {
		_, err := service.RemoveDishFromOrder(ctx, order.ID, soup.ID)

		assert.ErrorIs(t, err, ErrDishNotInOrder)
		assert.ErrorIs(t, err, ErrNotFound)
		requireMoney(t, "21.00", storedTotal(t, db, order.ID))
	})

	t.Run("order missing", func(t *testing.T) {
		_, err := service.RemoveDishFromOrder(ctx, order.ID+100, pizza.ID)

		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.NotErrorIs(t, err, ErrDishNotInOrder)
	})
}

func TestRemoveDishFromOrderRemovesFirstMatchOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 3,
		Items: []LineInput{
			{DishID: pizza.ID, Quantity: 1, PriceAtOrder: price("10.00")},
			{DishID: pizza.ID, Quantity: 2, PriceAtOrder: price("9.00")},
		},
	})
	require.NoError(t, err)
	requireMoney(t, "28.00", order.TotalPrice)
	firstLineID := order.Lines[0].ID

	order, err = service.RemoveDishFromOrder(ctx, order.ID, pizza.ID)
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.NotEqual(t, firstLineID, order.Lines[0].ID)
	requireMoney(t, "18.00", storedTotal(t, db, order.ID))
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	testCases := []struct {
		name   string
		input  CreateOrderInput
		fields []string
	}{
		{
			name:   "table number must be positive",
			input:  CreateOrderInput{TableNumber: 0},
			fields: []string{"table_number"},
		},
		{
			name:   "unknown status",
			input:  CreateOrderInput{TableNumber: 1, Status: "cancelled"},
			fields: []string{"status"},
		},
		{
			name:   "quantity and dish are checked per line",
			input:  CreateOrderInput{TableNumber: 1, Items: []LineInput{{DishID: pizza.ID, Quantity: 1}, {Quantity: 0}}},
			fields: []string{"items[1].dish_id", "items[1].quantity"},
		},
		{
			name:   "unknown dish",
			input:  CreateOrderInput{TableNumber: 1, Items: []LineInput{{DishID: pizza.ID + 50, Quantity: 1}}},
			fields: []string{"items[0].dish_id"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateOrder(ctx, tt.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, field := range tt.fields {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "failed creates must not leave orders behind")
}

func TestNegativeLinePriceIsRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	order, err := service.CreateOrder(ctx, CreateOrderInput{TableNumber: 1})
	require.NoError(t, err)

	_, err = service.AddLine(ctx, order.ID, LineInput{DishID: pizza.ID, Quantity: 1, PriceAtOrder: price("-1.00")})

	var priceErr *models.InvalidPriceError
	require.ErrorAs(t, err, &priceErr)
	requireMoney(t, "-1.00", priceErr.Value)
	requireMoney(t, "0", storedTotal(t, db, order.ID))
}

func TestZeroLinePriceIsAccepted(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	water := createDish(t, db, "Tap water", "0")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: water.ID, Quantity: 4, PriceAtOrder: price("0")}},
	})
	require.NoError(t, err)
	requireMoney(t, "0", order.TotalPrice)
}

func TestUpdateLineNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)

	order, err := service.CreateOrder(ctx, CreateOrderInput{TableNumber: 1})
	require.NoError(t, err)

	quantity := 2
	_, err = service.UpdateLine(ctx, order.ID, 999, LineUpdate{Quantity: &quantity})
	assert.ErrorIs(t, err, ErrLineNotFound)

	zero := 0
	_, err = service.UpdateLine(ctx, order.ID, 999, LineUpdate{Quantity: &zero})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeleteOrderRemovesLines(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteOrder(ctx, order.ID))

	_, err = service.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	var count int64
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, service.DeleteOrder(ctx, order.ID), ErrNotFound)
}

func TestListOrdersFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)

	for _, input := range []CreateOrderInput{
		{TableNumber: 1},
		{TableNumber: 1, Status: models.OrderStatusPaid},
		{TableNumber: 2, Status: models.OrderStatusPaid},
	} {
		_, err := service.CreateOrder(ctx, input)
		require.NoError(t, err)
	}

	table := 1
	paid := models.OrderStatusPaid
	ready := models.OrderStatusReady
	missingTable := 42

	testCases := []struct {
		name     string
		filter   OrderFilter
		expected int
	}{
		{name: "no filter", filter: OrderFilter{}, expected: 3},
		{name: "by table", filter: OrderFilter{TableNumber: &table}, expected: 2},
		{name: "by status", filter: OrderFilter{Status: &paid}, expected: 2},
		{name: "by table and status", filter: OrderFilter{TableNumber: &table, Status: &paid}, expected: 1},
		{name: "nothing matches", filter: OrderFilter{Status: &ready}, expected: 0},
		{name: "unknown table", filter: OrderFilter{TableNumber: &missingTable}, expected: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := service.ListOrders(ctx, tt.filter)

			require.NoError(t, err)
			assert.NotNil(t, orders)
			assert.Len(t, orders, tt.expected)
		})
	}
}

func TestRecalculateTotalRepairsDrift(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "12.25")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).UpdateColumn("total_price", money("1.00")).Error)

	total, err := service.RecalculateTotal(ctx, order.ID)
	require.NoError(t, err)
	requireMoney(t, "24.50", total)
	requireMoney(t, "24.50", storedTotal(t, db, order.ID))

	_, err = service.RecalculateTotal(ctx, order.ID+1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestTotalMatchesLinesAcrossMixedMutations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.50")
	soup := createDish(t, db, "Soup", "3.25")
	cake := createDish(t, db, "Cake", "6.10")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 4,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	steps := []func() error{
		func() error {
			_, err := service.AddLine(ctx, order.ID, LineInput{DishID: soup.ID, Quantity: 3})
			return err
		},
		func() error {
			_, err := service.AddLine(ctx, order.ID, LineInput{DishID: cake.ID, Quantity: 2, PriceAtOrder: price("5.00")})
			return err
		},
		func() error {
			_, err := service.RemoveDishFromOrder(ctx, order.ID, pizza.ID)
			return err
		},
		func() error {
			items := []LineInput{{DishID: cake.ID, Quantity: 7}, {DishID: soup.ID, Quantity: 1}}
			_, err := service.UpdateOrder(ctx, order.ID, UpdateOrderInput{Items: &items})
			return err
		},
		func() error {
			return NewDishService(db).DeleteDish(ctx, soup.ID)
		},
	}

	for i, step := range steps {
		require.NoErrorf(t, step(), "step %d", i)
		expected := linesSum(t, db, order.ID)
		actual := storedTotal(t, db, order.ID)
		require.Truef(t, expected.Equal(actual), "step %d: total %s, lines sum to %s", i, actual, expected)
	}
	requireMoney(t, "42.70", storedTotal(t, db, order.ID))
}

func TestLinePriceUpperBound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	service := NewOrderService(db)
	pizza := createDish(t, db, "Pizza", "10.00")

	_, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 1, PriceAtOrder: price("100000")}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].price_at_order")

	order, err := service.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = service.UpdateLine(ctx, order.ID, order.Lines[0].ID, LineUpdate{PriceAtOrder: price("250000")})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price_at_order")
	requireMoney(t, "10.00", storedTotal(t, db, order.ID))
}
