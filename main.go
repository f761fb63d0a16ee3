package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"budgetd/internal/config"
	"budgetd/internal/database"
	"budgetd/internal/handlers"
	"budgetd/internal/logger"
	"budgetd/internal/middleware"
	"budgetd/internal/services"
	"budgetd/internal/storage"
	"budgetd/internal/validator"
)

// @title           budgetd API
// @version         1.0
// @description     budgetd is a personal budget tracker: CSV transaction import, transaction CRUD, and monthly income/expense summaries.

// @host      localhost:3001
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	storageConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load storage configuration: %w", err)
	}

	store, err := storage.Open(storageConfig)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()
	log.Infof("Storage backend: %s", storageConfig.Driver)

	validator.Register()

	// Services and handlers take the storage handle explicitly; there is
	// no process-wide connection singleton.
	userService := services.NewUserService(store)
	transactionService := services.NewTransactionService(store)

	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	summaryHandler := handlers.NewSummaryHandler(transactionService)
	healthHandler := handlers.NewHealthHandler()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler.Check)

	// Public routes
	auth := router.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/imports", transactionHandler.ImportCSV)
	protected.POST("/transactions/batch", transactionHandler.BatchCreate)
	protected.GET("/transactions", transactionHandler.List)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)
	protected.GET("/summary/monthly", summaryHandler.Monthly)

	log.Infof("Starting budgetd server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
