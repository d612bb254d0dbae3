package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/franciscosanchezn/tablepos/internal/config"
	"github.com/franciscosanchezn/tablepos/internal/database"
	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/franciscosanchezn/tablepos/internal/seed"
	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	orderCount := flag.Int("orders", 12, "Number of demo orders to place")
	closeShift := flag.Bool("close-shift", false, "Close today's shift after seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	models.SetMinPrice(conf.MinPrice)

	db, err := database.Open(conf.Database())
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	ctx := context.Background()
	dishService := services.NewDishService(db)

	// Reuse the existing menu, create it only on an empty database
	empty, err := seed.IsEmpty(ctx, db)
	if err != nil {
		log.Fatal(err)
	}
	var menu []models.Dish
	if empty {
		menu, err = seed.SeedMenu(ctx, dishService)
	} else {
		menu, err = dishService.ListDishes(ctx)
	}
	if err != nil {
		log.Fatal("Failed to prepare menu: ", err)
	}

	orders, err := seed.SeedOrders(ctx, services.NewOrderService(db), menu, *orderCount)
	if err != nil {
		log.Fatal("Failed to seed orders: ", err)
	}
	fmt.Printf("✓ %d dishes on the menu, %d demo orders placed\n", len(menu), len(orders))

	revenue := services.NewRevenueService(db, services.RevenueOptions{
		Location:           conf.Location,
		QualifyingStatuses: conf.RevenueStatuses,
	})
	if *closeShift {
		record, err := revenue.CloseShiftAndSaveRevenue(ctx)
		if err != nil {
			log.Fatal("Failed to close shift: ", err)
		}
		fmt.Printf("✓ Shift closed for %s: %s\n", record.Day(), record.TotalRevenue.StringFixed(2))
		return
	}

	total, err := revenue.CalculateTotalRevenue(ctx)
	if err != nil {
		log.Fatal("Failed to compute revenue: ", err)
	}
	fmt.Printf("Revenue so far today: %s\n", total.StringFixed(2))
	fmt.Println("\nClose the shift with:")
	fmt.Printf("curl -X POST http://%s:%d/api/v1/revenue/close-shift\n", conf.Host, conf.Port)
}
