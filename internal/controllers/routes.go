package controllers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the dish, order and revenue endpoints on api
func RegisterRoutes(api gin.IRouter, dishes DishController, orders OrderController, revenue RevenueController) {
	dishRoutes := api.Group("/dishes")
	{
		dishRoutes.GET("", dishes.ListDishes)
		dishRoutes.POST("", dishes.CreateDish)
		dishRoutes.GET("/:id", dishes.GetDish)
		dishRoutes.PUT("/:id", dishes.UpdateDish)
		dishRoutes.DELETE("/:id", dishes.DeleteDish)
	}

	orderRoutes := api.Group("/orders")
	{
		orderRoutes.GET("", orders.ListOrders)
		orderRoutes.POST("", orders.CreateOrder)
		orderRoutes.GET("/:id", orders.GetOrder)
		orderRoutes.PUT("/:id", orders.UpdateOrder)
		orderRoutes.PATCH("/:id", orders.UpdateOrder)
		orderRoutes.DELETE("/:id", orders.DeleteOrder)
		orderRoutes.POST("/:id/items", orders.AddItem)
		orderRoutes.PATCH("/:id/items/:line_id", orders.UpdateItem)
		orderRoutes.DELETE("/:id/dishes/:dish_id", orders.RemoveDish)
	}

	revenueRoutes := api.Group("/revenue")
	{
		revenueRoutes.GET("", revenue.ListRevenue)
		revenueRoutes.GET("/today", revenue.TodayRevenue)
		revenueRoutes.POST("/close-shift", revenue.CloseShift)
	}
}
