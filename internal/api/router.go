package api

import (
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/api/handlers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/api/middleware"
	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter настраивает и возвращает роутер с всеми эндпоинтами
func SetupRouter(
	botService *service.BotService,
	jwtMiddleware *middleware.JWTMiddleware,
	tokenTTL time.Duration,
	logger *logrus.Logger,
	ginMode string,
) *gin.Engine {
	// Установка режима Gin
	gin.SetMode(ginMode)

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Инициализация handlers
	authHandler := handlers.NewAuthHandler(botService, jwtMiddleware, tokenTTL, logger)
	convertHandler := handlers.NewConvertHandler(botService, logger)
	trendHandler := handlers.NewTrendHandler(botService, logger)
	currencyHandler := handlers.NewCurrencyHandler(botService, logger)
	settingsHandler := handlers.NewSettingsHandler(botService, logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(botService, logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (без авторизации)
		v1.POST("/register", authHandler.Register)
		v1.POST("/login", authHandler.Login)

		// Protected routes (требуют авторизации)
		authorized := v1.Group("")
		authorized.Use(jwtMiddleware.Auth())
		{
			// Conversion and price comparison
			authorized.POST("/convert", convertHandler.Convert)
			authorized.GET("/compare/:symbol", convertHandler.Compare)
			authorized.GET("/rates/fiat", convertHandler.PopularFiat)
			authorized.GET("/rates/crypto", convertHandler.PopularCrypto)

			// Price history and trend
			authorized.GET("/trend/:symbol", trendHandler.Trend)

			// Currency catalog
			authorized.GET("/currencies/fiat", currencyHandler.ListFiat)
			authorized.GET("/currencies/crypto", currencyHandler.ListCrypto)
			authorized.GET("/currencies/check/:code", currencyHandler.Check)

			// User settings
			authorized.GET("/settings", settingsHandler.Get)
			authorized.PUT("/settings", settingsHandler.Update)

			// Subscriptions
			authorized.POST("/subscriptions", subscriptionHandler.Subscribe)
			authorized.GET("/subscriptions", subscriptionHandler.List)
			authorized.DELETE("/subscriptions/:pair", subscriptionHandler.Unsubscribe)
		}
	}

	return router
}
