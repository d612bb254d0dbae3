package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LineInput describes one dish to put into an order. When PriceAtOrder is not
// set the dish's current catalog price is snapshotted.
type LineInput struct {
	DishID       uint
	Quantity     int
	PriceAtOrder decimal.NullDecimal
}

// CreateOrderInput is the payload for CreateOrder. An empty Status means pending.
type CreateOrderInput struct {
	TableNumber int
	Status      models.OrderStatus
	Items       []LineInput
}

// UpdateOrderInput changes only the fields that are set. A non-nil Items
// replaces every existing line of the order.
type UpdateOrderInput struct {
	TableNumber *int
	Status      *models.OrderStatus
	Items       *[]LineInput
}

// LineUpdate changes the quantity and/or price snapshot of a single line
type LineUpdate struct {
	Quantity     *int
	PriceAtOrder decimal.NullDecimal
}

// OrderFilter narrows ListOrders. Nil fields are ignored.
type OrderFilter struct {
	TableNumber *int
	Status      *models.OrderStatus
}

// OrderService manages orders and keeps Order.TotalPrice equal to the sum of
// its lines. Every operation that touches lines recalculates the total in the
// same transaction, holding a lock on the order row.
type OrderService interface {
	// ListOrders retrieves orders with their lines, optionally filtered
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// GetOrder retrieves an order with its lines
	GetOrder(ctx context.Context, id uint) (models.Order, error)
	// CreateOrder creates an order together with its initial lines
	CreateOrder(ctx context.Context, input CreateOrderInput) (models.Order, error)
	// UpdateOrder changes table number and status and replaces the lines when given
	UpdateOrder(ctx context.Context, id uint, input UpdateOrderInput) (models.Order, error)
	// DeleteOrder removes an order and its lines
	DeleteOrder(ctx context.Context, id uint) error
	// AddLine appends a single line to an order
	AddLine(ctx context.Context, orderID uint, input LineInput) (models.Order, error)
	// UpdateLine changes a single line of an order
	UpdateLine(ctx context.Context, orderID, lineID uint, input LineUpdate) (models.Order, error)
	// RemoveDishFromOrder deletes the first line of the order that references the dish
	RemoveDishFromOrder(ctx context.Context, orderID, dishID uint) (models.Order, error)
	// RecalculateTotal recomputes and stores the order total from its current lines
	RecalculateTotal(ctx context.Context, orderID uint) (decimal.Decimal, error)
}

type orderService struct {
	db *gorm.DB
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := withLines(s.db.WithContext(ctx)).Order("id")
	if filter.TableNumber != nil {
		query = query.Where("table_number = ?", *filter.TableNumber)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (models.Order, error) {
	return loadOrder(s.db.WithContext(ctx), id)
}

func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (models.Order, error) {
	var verr *ValidationError
	verr = validateTableNumber(verr, input.TableNumber)
	if input.Status != "" && !input.Status.Valid() {
		verr = verr.add("status", fmt.Sprintf("unknown status %q", input.Status))
	}
	verr = validateLineInputs(verr, "items", input.Items)
	if err := verr.orNil(); err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		TableNumber: input.TableNumber,
		Status:      input.Status,
		TotalPrice:  decimal.Zero,
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}
		if err := insertLines(tx, order.ID, "items", input.Items); err != nil {
			return err
		}
		_, err := recalculateTotal(tx, order.ID)
		return err
	})
	if err != nil {
		return models.Order{}, wrapError("create order", err)
	}

	log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"table_number": order.TableNumber,
		"lines":        len(input.Items),
	}).Info("order created")
	return loadOrder(s.db.WithContext(ctx), order.ID)
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, input UpdateOrderInput) (models.Order, error) {
	var verr *ValidationError
	if input.TableNumber != nil {
		verr = validateTableNumber(verr, *input.TableNumber)
	}
	if input.Status != nil && !input.Status.Valid() {
		verr = verr.add("status", fmt.Sprintf("unknown status %q", *input.Status))
	}
	if input.Items != nil {
		verr = validateLineInputs(verr, "items", *input.Items)
	}
	if err := verr.orNil(); err != nil {
		return models.Order{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if input.TableNumber != nil {
			changes["table_number"] = *input.TableNumber
		}
		if input.Status != nil {
			changes["status"] = *input.Status
		}
		if len(changes) > 0 {
			if err := tx.Model(&order).Omit(clause.Associations).Updates(changes).Error; err != nil {
				return err
			}
		}

		if input.Items == nil {
			return nil
		}
		// Replace, not merge: lines missing from the new list are dropped.
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		if err := insertLines(tx, id, "items", *input.Items); err != nil {
			return err
		}
		_, err = recalculateTotal(tx, id)
		return err
	})
	if err != nil {
		return models.Order{}, wrapError("update order", err)
	}

	log.WithFields(logrus.Fields{
		"order_id":       id,
		"lines_replaced": input.Items != nil,
	}).Info("order updated")
	return loadOrder(s.db.WithContext(ctx), id)
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, id); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		return wrapError("delete order", err)
	}

	log.WithField("order_id", id).Info("order deleted")
	return nil
}

func (s *orderService) AddLine(ctx context.Context, orderID uint, input LineInput) (models.Order, error) {
	items := []LineInput{input}
	if err := validateLineInputs(nil, "", items).orNil(); err != nil {
		return models.Order{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, orderID); err != nil {
			return err
		}
		if err := insertLines(tx, orderID, "", items); err != nil {
			return err
		}
		_, err := recalculateTotal(tx, orderID)
		return err
	})
	if err != nil {
		return models.Order{}, wrapError("add order line", err)
	}

	log.WithFields(logrus.Fields{
		"order_id": orderID,
		"dish_id":  input.DishID,
		"quantity": input.Quantity,
	}).Info("dish added to order")
	return loadOrder(s.db.WithContext(ctx), orderID)
}

func (s *orderService) UpdateLine(ctx context.Context, orderID, lineID uint, input LineUpdate) (models.Order, error) {
	var verr *ValidationError
	if input.Quantity != nil && *input.Quantity < 1 {
		verr = verr.add("quantity", "must be at least 1")
	}
	if input.PriceAtOrder.Valid && exceedsMaxPrice(input.PriceAtOrder.Decimal) {
		verr = verr.add("price_at_order", "must be at most "+models.MaxPrice.StringFixed(2))
	}
	if err := verr.orNil(); err != nil {
		return models.Order{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, orderID); err != nil {
			return err
		}

		var line models.OrderLine
		if err := tx.Where("id = ? AND order_id = ?", lineID, orderID).First(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLineNotFound
			}
			return err
		}
		if input.Quantity != nil {
			line.Quantity = *input.Quantity
		}
		if input.PriceAtOrder.Valid {
			line.PriceAtOrder = input.PriceAtOrder.Decimal
		}
		if err := tx.Omit(clause.Associations).Save(&line).Error; err != nil {
			return err
		}
		_, err := recalculateTotal(tx, orderID)
		return err
	})
	if err != nil {
		return models.Order{}, wrapError("update order line", err)
	}

	log.WithFields(logrus.Fields{
		"order_id": orderID,
		"line_id":  lineID,
	}).Info("order line updated")
	return loadOrder(s.db.WithContext(ctx), orderID)
}

func (s *orderService) RemoveDishFromOrder(ctx context.Context, orderID, dishID uint) (models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, orderID); err != nil {
			return err
		}

		// Only the first matching line goes, even when the dish appears twice.
		var line models.OrderLine
		if err := tx.Where("order_id = ? AND dish_id = ?", orderID, dishID).Order("id").First(&line).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDishNotInOrder
			}
			return err
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		_, err := recalculateTotal(tx, orderID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"order_id": orderID,
				"dish_id":  dishID,
			}).WithError(err).Warn("dish not removed from order")
		}
		return models.Order{}, wrapError("remove dish from order", err)
	}

	log.WithFields(logrus.Fields{
		"order_id": orderID,
		"dish_id":  dishID,
	}).Info("dish removed from order")
	return loadOrder(s.db.WithContext(ctx), orderID)
}

func (s *orderService) RecalculateTotal(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOrder(tx, orderID); err != nil {
			return err
		}
		var err error
		total, err = recalculateTotal(tx, orderID)
		return err
	})
	if err != nil {
		return decimal.Zero, wrapError("recalculate order total", err)
	}
	return total, nil
}

// recalculateTotal re-reads the order's lines through tx, sums
// quantity x price_at_order and stores only total_price.
func recalculateTotal(tx *gorm.DB, orderID uint) (decimal.Decimal, error) {
	var lines []models.OrderLine
	if err := tx.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return decimal.Zero, fmt.Errorf("read lines of order %d: %w", orderID, err)
	}

	total := models.LinesTotal(lines).Round(2)
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).UpdateColumn("total_price", total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("store total of order %d: %w", orderID, err)
	}

	log.WithFields(logrus.Fields{
		"order_id":    orderID,
		"lines":       len(lines),
		"total_price": total.StringFixed(2),
	}).Debug("order total recalculated")
	return total, nil
}

// insertLines creates the lines for orderID. Dish references are checked here
// and reported as validation problems under fieldPrefix.
func insertLines(tx *gorm.DB, orderID uint, fieldPrefix string, items []LineInput) error {
	for i, item := range items {
		dish, err := findDish(tx, item.DishID)
		if errors.Is(err, ErrDishNotFound) {
			return (*ValidationError)(nil).add(lineField(fieldPrefix, i, "dish_id"), fmt.Sprintf("dish %d does not exist", item.DishID))
		}
		if err != nil {
			return err
		}

		price := dish.Price
		if item.PriceAtOrder.Valid {
			price = item.PriceAtOrder.Decimal
		}
		line := models.OrderLine{
			OrderID:      orderID,
			DishID:       dish.ID,
			Quantity:     item.Quantity,
			PriceAtOrder: price,
		}
		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			return err
		}
	}
	return nil
}

func lockOrder(tx *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("lock order %d: %w", id, err)
	}
	return order, nil
}

func loadOrder(db *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	if err := withLines(db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("load order %d: %w", id, err)
	}
	return order, nil
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_lines.id")
	}).Preload("Lines.Dish")
}

func validateTableNumber(verr *ValidationError, tableNumber int) *ValidationError {
	if tableNumber < 1 {
		return verr.add("table_number", "must be a positive integer")
	}
	return verr
}

func validateLineInputs(verr *ValidationError, fieldPrefix string, items []LineInput) *ValidationError {
	for i, item := range items {
		if item.DishID == 0 {
			verr = verr.add(lineField(fieldPrefix, i, "dish_id"), "is required")
		}
		if item.Quantity < 1 {
			verr = verr.add(lineField(fieldPrefix, i, "quantity"), "must be at least 1")
		}
		if item.PriceAtOrder.Valid && exceedsMaxPrice(item.PriceAtOrder.Decimal) {
			verr = verr.add(lineField(fieldPrefix, i, "price_at_order"), "must be at most "+models.MaxPrice.StringFixed(2))
		}
	}
	return verr
}

func lineField(prefix string, index int, field string) string {
	if prefix == "" {
		return field
	}
	return fmt.Sprintf("%s[%d].%s", prefix, index, field)
}
