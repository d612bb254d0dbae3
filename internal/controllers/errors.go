package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/tablepos/internal/middleware"
	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "controllers")

// respondError translates a service error into an APIError response.
// Anything unrecognised is logged and hidden behind a generic 500.
func respondError(ctx *gin.Context, err error, fields logrus.Fields) {
	var priceErr *models.InvalidPriceError
	var validationErr *services.ValidationError
	var bindErrs validator.ValidationErrors

	switch {
	case errors.As(err, &priceErr):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrInvalidPrice, priceErr.Error(), map[string]interface{}{
			"min_price": priceErr.MinPrice.StringFixed(2),
			"value":     priceErr.Value.StringFixed(2),
		}))
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Request validation failed", fieldDetails(validationErr.Fields)))
	case errors.As(err, &bindErrs):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, "Request validation failed", bindingDetails(bindErrs)))
	case errors.Is(err, services.ErrOrderNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrOrderNotFound, "Order not found"))
	case errors.Is(err, services.ErrDishNotInOrder):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrDishNotFound, "Dish not found in order"))
	case errors.Is(err, services.ErrDishNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrDishNotFound, "Dish not found"))
	case errors.Is(err, services.ErrLineNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrOrderLineNotFound, "Order line not found"))
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "Resource not found"))
	default:
		log.WithFields(fields).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(ctx),
			"method":     ctx.Request.Method,
			"path":       ctx.FullPath(),
		}).WithError(err).Error("request failed")
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
	}
}

// respondBindError handles a failed ShouldBindJSON. Field problems keep their
// details, malformed JSON becomes a plain bad request.
func respondBindError(ctx *gin.Context, err error) {
	var bindErrs validator.ValidationErrors
	if errors.As(err, &bindErrs) {
		respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body", map[string]interface{}{
		"error": err.Error(),
	}))
}

func fieldDetails(fields map[string]string) map[string]interface{} {
	details := make(map[string]interface{}, len(fields))
	for field, message := range fields {
		details[field] = message
	}
	return details
}

func bindingDetails(errs validator.ValidationErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(errs))
	for _, fe := range errs {
		details[fieldPath(fe)] = describeFieldError(fe)
	}
	return details
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "order_status":
		return "must be one of pending, ready, paid"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// parseID reads a positive integer path parameter
func parseID(ctx *gin.Context, param string) (uint, bool) {
	raw := ctx.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid "+param+" format", map[string]interface{}{
			param: raw,
		}))
		return 0, false
	}
	return uint(id), true
}
