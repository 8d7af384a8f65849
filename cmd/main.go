package main

import (
	"shopapi/internal/handler"
	mid "shopapi/internal/middleware"
	"shopapi/internal/service"
	"shopapi/pkg/config"
	"shopapi/pkg/database"
	"shopapi/pkg/jwtutil"
	"shopapi/pkg/logger"
	"shopapi/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig.Log.Level, appConfig.Server.Env); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting shopapi",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the orchestrators
	jwtUtil := jwtutil.NewJWTUtil(&appConfig.JWT)
	orderService := service.NewOrderService(database.GetDB(), log)
	authService := service.NewAuthService(database.GetDB(), jwtUtil, appConfig.Auth.RefreshTokenExpiration, log)
	handler.InitServices(orderService, authService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	auth := e.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/refresh", handler.RefreshToken)
	auth.POST("/logout", handler.Logout)
	auth.GET("/me", handler.Me, mid.JWTAuthMiddleware(jwtUtil))

	// Protected API routes
	api := e.Group("/api", mid.JWTAuthMiddleware(jwtUtil))

	products := api.Group("/products")
	products.GET("", handler.ListProducts)
	products.GET("/:id", handler.GetProduct)
	products.POST("", handler.CreateProduct)
	products.PUT("/:id", handler.UpdateProduct)
	products.DELETE("/:id", handler.DeleteProduct)
	products.GET("/:id/reviews", handler.ListProductReviews)
	products.GET("/:id/rating", handler.ProductRating)

	categories := api.Group("/categories")
	categories.GET("", handler.ListCategories)
	categories.GET("/:id", handler.GetCategory)
	categories.POST("", handler.CreateCategory)
	categories.PUT("/:id", handler.UpdateCategory)
	categories.DELETE("/:id", handler.DeleteCategory)

	suppliers := api.Group("/suppliers")
	suppliers.GET("", handler.ListSuppliers)
	suppliers.GET("/:id", handler.GetSupplier)
	suppliers.POST("", handler.CreateSupplier)
	suppliers.PUT("/:id", handler.UpdateSupplier)
	suppliers.DELETE("/:id", handler.DeleteSupplier)

	customers := api.Group("/customers")
	customers.GET("", handler.ListCustomers)
	customers.GET("/:id", handler.GetCustomer)
	customers.POST("", handler.CreateCustomer)
	customers.PUT("/:id", handler.UpdateCustomer)
	customers.DELETE("/:id", handler.DeleteCustomer)

	orders := api.Group("/orders")
	orders.GET("", handler.ListOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.POST("", handler.CreateOrder)
	orders.PUT("/:id", handler.UpdateOrder)
	orders.PUT("/:id/status", handler.UpdateOrderStatus)
	orders.POST("/:id/cancel", handler.CancelOrder)

	reviews := api.Group("/reviews")
	reviews.POST("", handler.CreateReview)
	reviews.GET("/pending", handler.ListPendingReviews)
	reviews.PUT("/:id", handler.UpdateReview)
	reviews.PUT("/:id/approve", handler.ApproveReview)
	reviews.DELETE("/:id", handler.DeleteReview)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
