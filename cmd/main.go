package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"marketplace-service/internal/clients"
	"marketplace-service/internal/config"
	"marketplace-service/internal/events"
	"marketplace-service/internal/handlers"
	"marketplace-service/internal/middleware"
	"marketplace-service/internal/repository"
	"marketplace-service/internal/services"
)

// @title Marketplace Service API
// @version 1.0
// @description Multi-vendor marketplace backend: catalog, orders, reviews, follows and notifications
// @BasePath /api/v1
func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := config.NewLogger(cfg)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	rdb := config.InitRedis(cfg)
	if rdb == nil {
		log.Info("Redis not configured, product cache disabled")
	}

	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = events.NewPublisher(cfg.NATS.URL, cfg.NATS.ClientName, log)
		if err != nil {
			log.WithError(err).Warn("Event publishing disabled")
		} else {
			defer publisher.Close()
		}
	} else {
		log.Info("NATS not configured, event publishing disabled")
	}

	// Repositories
	productRepo := repository.NewProductRepository(db, rdb)
	shopRepo := repository.NewShopRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Clients and services
	pushClient := clients.NewPushClient(cfg.Push.GatewayURL)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, pushClient, log)
	followService := services.NewFollowService(followRepo, shopRepo, notificationService, log)
	productService := services.NewProductService(productRepo, shopRepo, followService, publisher, log)
	orderService := services.NewOrderService(orderRepo, productRepo, shopRepo, reviewRepo, notificationService, publisher, log)
	reviewService := services.NewReviewService(reviewRepo, productRepo, shopRepo, orderRepo, publisher, log)
	shopService := services.NewShopService(shopRepo, productRepo, orderRepo, reviewRepo, followRepo, log)
	categoryService := services.NewCategoryService(categoryRepo, productRepo, log)
	assistantService := services.NewAssistantService(productRepo, shopRepo, orderRepo, reviewRepo)

	// Handlers
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	followHandler := handlers.NewFollowHandler(followService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	shopHandler := handlers.NewShopHandler(shopService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SetupCORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	// Public catalog reads
	v1.GET("/products", productHandler.ListProducts)
	v1.GET("/products/:id", productHandler.GetProduct)
	v1.GET("/products/:id/reviews", reviewHandler.GetProductReviews)
	v1.POST("/products/:id/view", productHandler.TrackView)
	v1.POST("/products/:id/cart", productHandler.TrackAddToCart)
	v1.POST("/products/:id/wishlist", productHandler.TrackWishlist)
	v1.GET("/shops", shopHandler.ListShops)
	v1.GET("/shops/:shopId", shopHandler.GetShop)
	v1.GET("/shops/:shopId/reviews", reviewHandler.GetShopReviews)
	v1.GET("/categories", categoryHandler.ListCategories)
	v1.GET("/categories/:id", categoryHandler.GetCategory)

	// Assistant read-only queries
	assistant := v1.Group("/assistant")
	assistant.GET("/products/search", assistantHandler.SearchProducts)
	assistant.GET("/deals", assistantHandler.GetBestDeals)
	assistant.GET("/shops/top", assistantHandler.GetTopShops)
	assistant.GET("/shops/search", assistantHandler.SearchShops)
	assistant.GET("/site-stats", assistantHandler.GetSiteStats)

	// Authenticated routes
	auth := v1.Group("")
	auth.Use(middleware.AuthMiddleware())

	auth.POST("/orders", orderHandler.PlaceOrder)
	auth.GET("/orders", orderHandler.ListMyOrders)
	auth.GET("/orders/:id", orderHandler.GetOrder)
	auth.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
	auth.POST("/orders/:id/cancel", orderHandler.CancelOrder)

	auth.POST("/reviews", reviewHandler.UpsertReview)
	auth.PUT("/reviews/:id", reviewHandler.UpdateReview)
	auth.DELETE("/reviews/:id", reviewHandler.DeleteReview)
	auth.GET("/vendor/reviews", reviewHandler.GetVendorReviews)

	auth.POST("/shops/:shopId/follow", followHandler.FollowShop)
	auth.DELETE("/shops/:shopId/follow", followHandler.UnfollowShop)
	auth.GET("/shops/:shopId/follow", followHandler.FollowStatus)
	auth.GET("/me/followed-shops", followHandler.ListFollowedShops)
	auth.GET("/shops/:shopId/followers", followHandler.ListShopFollowers)

	auth.GET("/notifications", notificationHandler.ListNotifications)
	auth.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	auth.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	auth.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
	auth.DELETE("/notifications/:id", notificationHandler.DeleteNotification)

	// Vendor routes
	vendor := auth.Group("")
	vendor.Use(middleware.RequireRole("vendor", "admin"))
	vendor.POST("/shops/:shopId/products", productHandler.CreateProduct)
	vendor.PUT("/products/:id", productHandler.UpdateProduct)
	vendor.DELETE("/products/:id", productHandler.DeleteProduct)
	vendor.GET("/products/:id/analytics", productHandler.GetProductAnalytics)
	vendor.GET("/shops/:shopId/orders", orderHandler.ListVendorOrders)
	vendor.POST("/shops/:shopId/stats/recompute", shopHandler.RecomputeShopStats)

	// Admin routes
	admin := auth.Group("")
	admin.Use(middleware.RequireRole("admin"))
	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	admin.POST("/categories/:id/stats/recompute", categoryHandler.RecomputeCategoryStats)

	log.WithField("address", cfg.GetServerAddress()).Info("Starting marketplace service")
	if err := router.Run(cfg.GetServerAddress()); err != nil {
		log.WithError(err).Fatal("Server exited")
	}
}
