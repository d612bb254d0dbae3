package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DishRequest is the payload for creating or replacing a dish.
// Price accepts a JSON number or string.
type DishRequest struct {
	Name        string              `json:"name" binding:"required,max=250" example:"Margherita"`
	Price       decimal.NullDecimal `json:"price" swaggertype:"string" example:"10.50"`
	Description *string             `json:"description" example:"Tomato, mozzarella, basil"`
}

func (r DishRequest) input() services.DishInput {
	return services.DishInput{Name: r.Name, Price: r.Price, Description: r.Description}
}

// DishController handles HTTP requests related to the menu
type DishController interface {
	// ListDishes retrieves all dishes
	ListDishes(c *gin.Context)
	// GetDish retrieves a dish by its ID
	GetDish(c *gin.Context)
	// CreateDish creates a new dish
	CreateDish(c *gin.Context)
	// UpdateDish replaces an existing dish
	UpdateDish(c *gin.Context)
	// DeleteDish deletes a dish and its order lines
	DeleteDish(c *gin.Context)
}

type dishController struct {
	service services.DishService
}

// NewDishController creates a new instance of DishController
func NewDishController(service services.DishService) DishController {
	return &dishController{service: service}
}

// ListDishes godoc
// @Summary List dishes
// @Description Get every dish on the menu
// @Tags dishes
// @Produce json
// @Success 200 {array} DishResponse
// @Failure 500 {object} models.APIError
// @Router /api/v1/dishes [get]
func (c *dishController) ListDishes(ctx *gin.Context) {
	dishes, err := c.service.ListDishes(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, newDishResponses(dishes))
}

// GetDish godoc
// @Summary Get dish by ID
// @Tags dishes
// @Produce json
// @Param id path int true "Dish ID"
// @Success 200 {object} DishResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/dishes/{id} [get]
func (c *dishController) GetDish(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	dish, err := c.service.GetDish(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, logrus.Fields{"dish_id": id})
		return
	}
	ctx.JSON(http.StatusOK, newDishResponse(dish))
}

// CreateDish godoc
// @Summary Create a dish
// @Description Add a dish to the menu. The price must not be below the configured minimum.
// @Tags dishes
// @Accept json
// @Produce json
// @Param dish body DishRequest true "Dish"
// @Success 201 {object} DishResponse
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/dishes [post]
func (c *dishController) CreateDish(ctx *gin.Context) {
	var req DishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	dish, err := c.service.CreateDish(ctx.Request.Context(), req.input())
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusCreated, newDishResponse(dish))
}

// UpdateDish godoc
// @Summary Update a dish
// @Description Replace a dish. Existing order lines keep the price they were ordered at.
// @Tags dishes
// @Accept json
// @Produce json
// @Param id path int true "Dish ID"
// @Param dish body DishRequest true "Dish"
// @Success 200 {object} DishResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/dishes/{id} [put]
func (c *dishController) UpdateDish(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req DishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	dish, err := c.service.UpdateDish(ctx.Request.Context(), id, req.input())
	if err != nil {
		respondError(ctx, err, logrus.Fields{"dish_id": id})
		return
	}
	ctx.JSON(http.StatusOK, newDishResponse(dish))
}

// DeleteDish godoc
// @Summary Delete a dish
// @Description Delete a dish. Its order lines are removed and the affected order totals recalculated.
// @Tags dishes
// @Param id path int true "Dish ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/dishes/{id} [delete]
func (c *dishController) DeleteDish(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.DeleteDish(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err, logrus.Fields{"dish_id": id})
		return
	}
	ctx.Status(http.StatusNoContent)
}
