package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/tablepos/docs" // Import generated docs
	"github.com/franciscosanchezn/tablepos/internal/config"
	"github.com/franciscosanchezn/tablepos/internal/controllers"
	"github.com/franciscosanchezn/tablepos/internal/database"
	"github.com/franciscosanchezn/tablepos/internal/middleware"
	"github.com/franciscosanchezn/tablepos/internal/models"
	"github.com/franciscosanchezn/tablepos/internal/seed"
	"github.com/franciscosanchezn/tablepos/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db                *gorm.DB
	dishService       services.DishService
	orderService      services.OrderService
	revenueService    services.RevenueService
	dishController    controllers.DishController
	orderController   controllers.OrderController
	revenueController controllers.RevenueController
	configuration     *config.Config
)

// @title TablePOS API
// @version 1.0
// @description Restaurant point of sale: dishes, table orders and the daily revenue ledger
// @host localhost:8080
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Prices below the configured minimum are rejected on every write
	models.SetMinPrice(configuration.MinPrice)

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	dishService = services.NewDishService(db)
	orderService = services.NewOrderService(db)
	revenueService = services.NewRevenueService(db, services.RevenueOptions{
		Location:           configuration.Location,
		QualifyingStatuses: configuration.RevenueStatuses,
	})
	dishController = controllers.NewDishController(dishService)
	orderController = controllers.NewOrderController(orderService)
	revenueController = controllers.NewRevenueController(revenueService)

	if configuration.SeedOnStart {
		seedDatabase()
	}

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)

	// LOG_LEVEL overrides the environment default when it parses
	if level, err := log.ParseLevel(conf.LogLevel); err == nil && config.GetEnvWithDefault("LOG_LEVEL", "") != "" {
		log.SetLevel(level)
	}
	database.SetLogLevel(log.GetLevel())
	return conf
}

// setupDatabase connects to the configured store and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.Open(conf.Database())
	checkPanicErr(err)
	return db
}

// seedDatabase creates the starter menu when the dish table is empty
func seedDatabase() {
	ctx := context.Background()
	empty, err := seed.IsEmpty(ctx, db)
	checkPanicErr(err)
	if !empty {
		log.Info("Database already seeded with initial data")
		return
	}

	log.Info("Database is empty, seeding initial data")
	_, err = seed.SeedMenu(ctx, dishService)
	checkPanicErr(err)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery(), middleware.CORS(configuration.CORSOrigins))

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	controllers.RegisterRoutes(v1, dishController, orderController, revenueController)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service and its database are reachable
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tablepos",
	})
}
