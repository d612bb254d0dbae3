package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DishInput carries the writable fields of a dish
type DishInput struct {
	Name        string
	Price       decimal.NullDecimal
	Description *string
}

// DishService manages the menu catalog
type DishService interface {
	// ListDishes retrieves every dish ordered by id
	ListDishes(ctx context.Context) ([]models.Dish, error)
	// GetDish retrieves a dish by its ID
	GetDish(ctx context.Context, id uint) (models.Dish, error)
	// CreateDish adds a dish to the catalog
	CreateDish(ctx context.Context, input DishInput) (models.Dish, error)
	// UpdateDish changes a dish. Existing order lines keep their price snapshot.
	UpdateDish(ctx context.Context, id uint, input DishInput) (models.Dish, error)
	// DeleteDish removes a dish and every order line that references it
	DeleteDish(ctx context.Context, id uint) error
}

type dishService struct {
	db *gorm.DB
}

// NewDishService creates a new instance of DishService
func NewDishService(db *gorm.DB) DishService {
	return &dishService{db: db}
}

func (s *dishService) ListDishes(ctx context.Context) ([]models.Dish, error) {
	dishes := []models.Dish{}
	if err := s.db.WithContext(ctx).Order("id").Find(&dishes).Error; err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return dishes, nil
}

func (s *dishService) GetDish(ctx context.Context, id uint) (models.Dish, error) {
	return findDish(s.db.WithContext(ctx), id)
}

func (s *dishService) CreateDish(ctx context.Context, input DishInput) (models.Dish, error) {
	if err := validateDishInput(input); err != nil {
		return models.Dish{}, err
	}

	dish := models.Dish{
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price.Decimal,
		Description: input.Description,
	}
	if err := s.db.WithContext(ctx).Create(&dish).Error; err != nil {
		return models.Dish{}, wrapError("create dish", err)
	}

	log.WithField("dish_id", dish.ID).Info("dish created")
	return dish, nil
}

func (s *dishService) UpdateDish(ctx context.Context, id uint, input DishInput) (models.Dish, error) {
	if err := validateDishInput(input); err != nil {
		return models.Dish{}, err
	}

	var dish models.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if dish, err = findDish(tx, id); err != nil {
			return err
		}
		dish.Name = strings.TrimSpace(input.Name)
		dish.Price = input.Price.Decimal
		dish.Description = input.Description
		return tx.Save(&dish).Error
	})
	if err != nil {
		return models.Dish{}, wrapError("update dish", err)
	}

	log.WithField("dish_id", dish.ID).Info("dish updated")
	return dish, nil
}

func (s *dishService) DeleteDish(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findDish(tx, id); err != nil {
			return err
		}

		// Removing the lines is a line mutation, so every affected order is recalculated.
		var orderIDs []uint
		if err := tx.Model(&models.OrderLine{}).Distinct().Where("dish_id = ?", id).Pluck("order_id", &orderIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("dish_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Dish{}, id).Error; err != nil {
			return err
		}
		for _, orderID := range orderIDs {
			if _, err := recalculateTotal(tx, orderID); err != nil {
				return err
			}
		}

		log.WithFields(logrus.Fields{
			"dish_id":         id,
			"affected_orders": len(orderIDs),
		}).Info("dish deleted")
		return nil
	})
	return wrapError("delete dish", err)
}

func findDish(db *gorm.DB, id uint) (models.Dish, error) {
	var dish models.Dish
	if err := db.First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Dish{}, ErrDishNotFound
		}
		return models.Dish{}, fmt.Errorf("find dish %d: %w", id, err)
	}
	return dish, nil
}

func validateDishInput(input DishInput) error {
	var verr *ValidationError
	if strings.TrimSpace(input.Name) == "" {
		verr = verr.add("name", "is required")
	} else if len(input.Name) > 250 {
		verr = verr.add("name", "must be at most 250 characters")
	}
	if !input.Price.Valid {
		verr = verr.add("price", "is required")
	} else if exceedsMaxPrice(input.Price.Decimal) {
		verr = verr.add("price", "must be at most "+models.MaxPrice.StringFixed(2))
	}
	return verr.orNil()
}

// exceedsMaxPrice reports whether value, once rounded for storage, overflows the price columns
func exceedsMaxPrice(value decimal.Decimal) bool {
	return value.Round(2).GreaterThan(models.MaxPrice)
}
