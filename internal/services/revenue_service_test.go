package services

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// insertOrder writes an order with a fixed total, bypassing the line pipeline
func insertOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, total string, createdAt time.Time) {
	t.Helper()
	order := models.Order{
		TableNumber: 1,
		Status:      status,
		TotalPrice:  money(total),
		CreatedAt:   createdAt.UTC(),
	}
	require.NoError(t, db.Create(&order).Error)
}

func countRevenueRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Revenue{}).Count(&count).Error)
	return count
}

func TestCalculateTotalRevenueZeroBaseline(t *testing.T) {
	db := setupTestDB(t)
	service := NewRevenueService(db, RevenueOptions{})

	total, err := service.CalculateTotalRevenue(context.Background())

	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestCalculateTotalRevenueSumsPaidOrdersOfToday(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	insertOrder(t, db, models.OrderStatusPaid, "500.00", now)
	insertOrder(t, db, models.OrderStatusPaid, "300.00", now)
	insertOrder(t, db, models.OrderStatusPending, "999.00", now)
	insertOrder(t, db, models.OrderStatusReady, "50.00", now)
	insertOrder(t, db, models.OrderStatusPaid, "700.00", now.AddDate(0, 0, -2))

	service := NewRevenueService(db, RevenueOptions{})

	total, err := service.CalculateTotalRevenue(context.Background())

	require.NoError(t, err)
	requireMoney(t, "800.00", total)
}

func TestCalculateTotalRevenueQualifyingStatusesAreConfigurable(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	insertOrder(t, db, models.OrderStatusPaid, "500.00", now)
	insertOrder(t, db, models.OrderStatusReady, "50.25", now)
	insertOrder(t, db, models.OrderStatusPending, "999.00", now)

	service := NewRevenueService(db, RevenueOptions{
		QualifyingStatuses: []models.OrderStatus{models.OrderStatusPaid, models.OrderStatusReady},
	})

	total, err := service.CalculateTotalRevenue(context.Background())

	require.NoError(t, err)
	requireMoney(t, "550.25", total)
}

func TestCalculateTotalRevenueUsesConfiguredDay(t *testing.T) {
	db := setupTestDB(t)
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 22:30 UTC on the 9th is already the 10th at UTC+3
	clock := func() time.Time { return time.Date(2025, 3, 10, 1, 30, 0, 0, loc) }

	insertOrder(t, db, models.OrderStatusPaid, "10.00", time.Date(2025, 3, 9, 22, 30, 0, 0, time.UTC))
	insertOrder(t, db, models.OrderStatusPaid, "20.00", time.Date(2025, 3, 9, 20, 59, 0, 0, time.UTC))
	insertOrder(t, db, models.OrderStatusPaid, "40.00", time.Date(2025, 3, 10, 20, 59, 0, 0, time.UTC))
	insertOrder(t, db, models.OrderStatusPaid, "80.00", time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC))

	service := NewRevenueService(db, RevenueOptions{Location: loc, Now: clock})

	total, err := service.CalculateTotalRevenue(context.Background())
	require.NoError(t, err)
	requireMoney(t, "50.00", total)

	record, err := service.CloseShiftAndSaveRevenue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", record.Day())
}

func TestCloseShiftAndSaveRevenue(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()
	insertOrder(t, db, models.OrderStatusPaid, "500.00", now)
	insertOrder(t, db, models.OrderStatusPaid, "300.00", now)

	service := NewRevenueService(db, RevenueOptions{})

	first, err := service.CloseShiftAndSaveRevenue(ctx)
	require.NoError(t, err)
	requireMoney(t, "800.00", first.TotalRevenue)
	assert.Equal(t, now.UTC().Format(time.DateOnly), first.Day())
	assert.NotZero(t, first.ID)

	t.Run("closing again without changes is idempotent", func(t *testing.T) {
		again, err := service.CloseShiftAndSaveRevenue(ctx)
		require.NoError(t, err)

		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, first.Day(), again.Day())
		requireMoney(t, "800.00", again.TotalRevenue)
		assert.Equal(t, int64(1), countRevenueRows(t, db))
	})

	t.Run("closing after a new paid order overwrites the same row", func(t *testing.T) {
		insertOrder(t, db, models.OrderStatusPaid, "200.00", now)

		updated, err := service.CloseShiftAndSaveRevenue(ctx)
		require.NoError(t, err)

		assert.Equal(t, first.ID, updated.ID)
		requireMoney(t, "1000.00", updated.TotalRevenue)
		assert.Equal(t, int64(1), countRevenueRows(t, db))

		var stored models.Revenue
		require.NoError(t, db.First(&stored, first.ID).Error)
		requireMoney(t, "1000.00", stored.TotalRevenue)
	})
}

func TestCloseShiftWithoutOrdersStoresZero(t *testing.T) {
	db := setupTestDB(t)
	service := NewRevenueService(db, RevenueOptions{})

	record, err := service.CloseShiftAndSaveRevenue(context.Background())

	require.NoError(t, err)
	assert.True(t, record.TotalRevenue.IsZero())
	assert.Equal(t, int64(1), countRevenueRows(t, db))
}

func TestCloseShiftOnDifferentDaysCreatesOneRowPerDay(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return day }
	service := NewRevenueService(db, RevenueOptions{Now: clock})

	insertOrder(t, db, models.OrderStatusPaid, "12.00", day)
	_, err := service.CloseShiftAndSaveRevenue(ctx)
	require.NoError(t, err)

	day = day.AddDate(0, 0, 1)
	insertOrder(t, db, models.OrderStatusPaid, "30.00", day)
	_, err = service.CloseShiftAndSaveRevenue(ctx)
	require.NoError(t, err)
	_, err = service.CloseShiftAndSaveRevenue(ctx)
	require.NoError(t, err)

	records, err := service.ListRevenue(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-06-02", records[0].Day())
	requireMoney(t, "30.00", records[0].TotalRevenue)
	assert.Equal(t, "2025-06-01", records[1].Day())
	requireMoney(t, "12.00", records[1].TotalRevenue)
}

func TestRevenueFollowsOrderPipeline(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	orders := NewOrderService(db)
	revenue := NewRevenueService(db, RevenueOptions{})
	pizza := createDish(t, db, "Pizza", "10.50")

	order, err := orders.CreateOrder(ctx, CreateOrderInput{
		TableNumber: 1,
		Status:      models.OrderStatusPaid,
		Items:       []LineInput{{DishID: pizza.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	total, err := revenue.CalculateTotalRevenue(ctx)
	require.NoError(t, err)
	requireMoney(t, "21.00", total)

	_, err = orders.RemoveDishFromOrder(ctx, order.ID, pizza.ID)
	require.NoError(t, err)

	total, err = revenue.CalculateTotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.Zero))
}

func TestListRevenueEmpty(t *testing.T) {
	db := setupTestDB(t)

	records, err := NewRevenueService(db, RevenueOptions{}).ListRevenue(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
