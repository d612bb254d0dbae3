package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/gin-gonic/gin"
)

// RevenueController exposes the daily revenue ledger
type RevenueController interface {
	// ListRevenue retrieves the ledger, newest date first
	ListRevenue(c *gin.Context)
	// TodayRevenue computes the revenue of the current day without storing it
	TodayRevenue(c *gin.Context)
	// CloseShift stores the current day's revenue
	CloseShift(c *gin.Context)
}

type revenueController struct {
	service services.RevenueService
}

// NewRevenueController creates a new instance of RevenueController
func NewRevenueController(service services.RevenueService) RevenueController {
	return &revenueController{service: service}
}

// ListRevenue godoc
// @Summary List revenue records
// @Tags revenue
// @Produce json
// @Success 200 {array} RevenueResponse
// @Failure 500 {object} models.APIError
// @Router /api/v1/revenue [get]
func (c *revenueController) ListRevenue(ctx *gin.Context) {
	records, err := c.service.ListRevenue(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, newRevenueResponses(records))
}

// TodayRevenue godoc
// @Summary Today's revenue
// @Description Sum of the totals of today's qualifying orders. Zero when there are none.
// @Tags revenue
// @Produce json
// @Success 200 {object} TodayRevenueResponse
// @Failure 500 {object} models.APIError
// @Router /api/v1/revenue/today [get]
func (c *revenueController) TodayRevenue(ctx *gin.Context) {
	total, err := c.service.CalculateTotalRevenue(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, TodayRevenueResponse{TotalRevenue: formatMoney(total)})
}

// CloseShift godoc
// @Summary Close the shift
// @Description Store today's revenue. Closing again the same day overwrites the stored amount.
// @Tags revenue
// @Produce json
// @Success 200 {object} RevenueResponse
// @Failure 500 {object} models.APIError
// @Router /api/v1/revenue/close-shift [post]
func (c *revenueController) CloseShift(ctx *gin.Context) {
	record, err := c.service.CloseShiftAndSaveRevenue(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, newRevenueResponse(record))
}
