package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LineRequest is one dish in an order payload. Without price_at_order the
// dish's current price is used.
type LineRequest struct {
	DishID       uint                `json:"dish_id" binding:"required" example:"1"`
	Quantity     int                 `json:"quantity" binding:"min=1" example:"2"`
	PriceAtOrder decimal.NullDecimal `json:"price_at_order" swaggertype:"string" example:"10.50"`
}

// CreateOrderRequest is the payload for a new order
type CreateOrderRequest struct {
	TableNumber int                `json:"table_number" binding:"required,min=1" example:"4"`
	Status      models.OrderStatus `json:"status" binding:"omitempty,order_status" example:"pending"`
	Items       []LineRequest      `json:"items" binding:"omitempty,dive"`
}

// UpdateOrderRequest changes an order. Items, when present, replace every line.
type UpdateOrderRequest struct {
	TableNumber *int                `json:"table_number" binding:"omitempty,min=1" example:"4"`
	Status      *models.OrderStatus `json:"status" binding:"omitempty,order_status" example:"paid"`
	Items       *[]LineRequest      `json:"items" binding:"omitempty,dive"`
}

// UpdateLineRequest changes one line of an order
type UpdateLineRequest struct {
	Quantity     *int                `json:"quantity" binding:"omitempty,min=1" example:"3"`
	PriceAtOrder decimal.NullDecimal `json:"price_at_order" swaggertype:"string" example:"9.90"`
}

func lineInputs(items []LineRequest) []services.LineInput {
	inputs := make([]services.LineInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, item.input())
	}
	return inputs
}

func (r LineRequest) input() services.LineInput {
	return services.LineInput{DishID: r.DishID, Quantity: r.Quantity, PriceAtOrder: r.PriceAtOrder}
}

// OrderController handles HTTP requests related to orders and their lines
type OrderController interface {
	// ListOrders retrieves orders, optionally filtered by table and status
	ListOrders(c *gin.Context)
	// GetOrder retrieves an order by its ID
	GetOrder(c *gin.Context)
	// CreateOrder creates an order with its initial items
	CreateOrder(c *gin.Context)
	// UpdateOrder updates an order, replacing its items when given
	UpdateOrder(c *gin.Context)
	// DeleteOrder deletes an order and its lines
	DeleteOrder(c *gin.Context)
	// AddItem adds one dish to an order
	AddItem(c *gin.Context)
	// UpdateItem changes one line of an order
	UpdateItem(c *gin.Context)
	// RemoveDish removes one line of the given dish from an order
	RemoveDish(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) OrderController {
	return &orderController{service: service}
}

// ListOrders godoc
// @Summary List orders
// @Description Get orders with their items, optionally filtered
// @Tags orders
// @Produce json
// @Param table_number query int false "Filter by table number"
// @Param status query string false "Filter by status" Enums(pending, ready, paid)
// @Success 200 {array} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders [get]
func (c *orderController) ListOrders(ctx *gin.Context) {
	var filter services.OrderFilter
	if raw := ctx.Query("table_number"); raw != "" {
		tableNumber, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid table_number format", map[string]interface{}{
				"table_number": raw,
			}))
			return
		}
		filter.TableNumber = &tableNumber
	}
	if raw := ctx.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid status", map[string]interface{}{
				"status": raw,
			}))
			return
		}
		filter.Status = &status
	}

	orders, err := c.service.ListOrders(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, newOrderResponses(orders))
}

// GetOrder godoc
// @Summary Get order by ID
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/orders/{id} [get]
func (c *orderController) GetOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	order, err := c.service.GetOrder(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, logrus.Fields{"order_id": id})
		return
	}
	ctx.JSON(http.StatusOK, newOrderResponse(order))
}

// CreateOrder godoc
// @Summary Create an order
// @Description Create an order for a table with its initial items. The total is computed from the items.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "Order"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders [post]
func (c *orderController) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, err := c.service.CreateOrder(ctx.Request.Context(), services.CreateOrderInput{
		TableNumber: req.TableNumber,
		Status:      req.Status,
		Items:       lineInputs(req.Items),
	})
	if err != nil {
		respondError(ctx, err, logrus.Fields{"table_number": req.TableNumber})
		return
	}
	ctx.JSON(http.StatusCreated, newOrderResponse(order))
}

// UpdateOrder godoc
// @Summary Update an order
// @Description PUT requires table_number. Items, when present, replace every existing line and the total is recomputed.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body UpdateOrderRequest true "Order changes"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders/{id} [put]
// @Router /api/v1/orders/{id} [patch]
func (c *orderController) UpdateOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if ctx.Request.Method == http.MethodPut && req.TableNumber == nil {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Request validation failed", map[string]interface{}{
			"table_number": "is required",
		}))
		return
	}

	input := services.UpdateOrderInput{
		TableNumber: req.TableNumber,
		Status:      req.Status,
	}
	if req.Items != nil {
		items := lineInputs(*req.Items)
		input.Items = &items
	}

	order, err := c.service.UpdateOrder(ctx.Request.Context(), id, input)
	if err != nil {
		respondError(ctx, err, logrus.Fields{"order_id": id})
		return
	}
	ctx.JSON(http.StatusOK, newOrderResponse(order))
}

// DeleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Param id path int true "Order ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders/{id} [delete]
func (c *orderController) DeleteOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.DeleteOrder(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err, logrus.Fields{"order_id": id})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddItem godoc
// @Summary Add a dish to an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param item body LineRequest true "Order line"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders/{id}/items [post]
func (c *orderController) AddItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req LineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, err := c.service.AddLine(ctx.Request.Context(), id, req.input())
	if err != nil {
		respondError(ctx, err, logrus.Fields{"order_id": id, "dish_id": req.DishID})
		return
	}
	ctx.JSON(http.StatusCreated, newOrderResponse(order))
}

// UpdateItem godoc
// @Summary Update an order line
// @Description Change the quantity or price snapshot of one line. The order total is recomputed.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param line_id path int true "Order line ID"
// @Param item body UpdateLineRequest true "Line changes"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders/{id}/items/{line_id} [patch]
func (c *orderController) UpdateItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	lineID, ok := parseID(ctx, "line_id")
	if !ok {
		return
	}

	var req UpdateLineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, err := c.service.UpdateLine(ctx.Request.Context(), id, lineID, services.LineUpdate{
		Quantity:     req.Quantity,
		PriceAtOrder: req.PriceAtOrder,
	})
	if err != nil {
		respondError(ctx, err, logrus.Fields{"order_id": id, "line_id": lineID})
		return
	}
	ctx.JSON(http.StatusOK, newOrderResponse(order))
}

// RemoveDish godoc
// @Summary Remove a dish from an order
// @Description Delete the first line of the order that references the dish and recompute the total
// @Tags orders
// @Param id path int true "Order ID"
// @Param dish_id path int true "Dish ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /api/v1/orders/{id}/dishes/{dish_id} [delete]
func (c *orderController) RemoveDish(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	dishID, ok := parseID(ctx, "dish_id")
	if !ok {
		return
	}

	if _, err := c.service.RemoveDishFromOrder(ctx.Request.Context(), id, dishID); err != nil {
		respondError(ctx, err, logrus.Fields{"order_id": id, "dish_id": dishID})
		return
	}
	ctx.Status(http.StatusNoContent)
}
