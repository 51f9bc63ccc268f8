package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheDucklet/FinancialTelegramBot/internal/api"
	"github.com/TheDucklet/FinancialTelegramBot/internal/api/middleware"
	"github.com/TheDucklet/FinancialTelegramBot/internal/config"
	"github.com/TheDucklet/FinancialTelegramBot/internal/kafka"
	"github.com/TheDucklet/FinancialTelegramBot/internal/logger"
	"github.com/TheDucklet/FinancialTelegramBot/internal/providers"
	"github.com/TheDucklet/FinancialTelegramBot/internal/rates"
	"github.com/TheDucklet/FinancialTelegramBot/internal/service"
	"github.com/TheDucklet/FinancialTelegramBot/internal/storages/postgres"
	"github.com/TheDucklet/FinancialTelegramBot/internal/trend"
	"github.com/TheDucklet/FinancialTelegramBot/internal/watcher"
)

// @title RatePulse API
// @version 1.0
// @description Multi-source currency price resolution and conversion API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Парсинг флагов командной строки
	configPath := flag.String("c", "", "Path to config file")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Валидация конфигурации
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	log := logger.New(cfg.Logger.Level)
	log.Info("Starting ratepulse service...")

	// Подключение к базе данных
	dbConfig := &postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	storage, err := postgres.New(dbConfig, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer storage.Close()

	// Проверка подключения к БД
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := storage.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("Database ping failed: %v", err)
	}
	cancel()
	log.Info("Database connection established")

	// Таблица курсов ЦБ с кешем
	cbrClient := rates.NewCBRClient(cfg.Rates.CBRURL, cfg.Rates.Timeout, log)
	ratesCache := rates.NewCache(cbrClient, cfg.Rates.CacheTTL, log)
	converter := rates.NewConverter(ratesCache)
	log.Info("Rates cache initialized")

	// Источники цен криптовалют
	binanceClient := providers.NewBinanceClient(cfg.Providers.BinanceURL, cfg.Providers.Timeout, log)
	resolver := providers.NewResolver(&providers.Config{
		BinanceURL: cfg.Providers.BinanceURL,
		GateioURL:  cfg.Providers.GateioURL,
		BybitURL:   cfg.Providers.BybitURL,
		Timeout:    cfg.Providers.Timeout,
	}, log)

	// Построитель истории цен
	seriesBuilder := trend.NewSeriesBuilder(
		cfg.Providers.BinanceURL,
		cfg.History.FXHistoryURL,
		cfg.History.Timeout,
		log,
	)

	// Инициализация Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	defer kafkaProducer.Close()

	// Создание сервисного слоя
	botService := service.NewBotService(
		storage,
		converter,
		resolver,
		seriesBuilder,
		binanceClient,
		log,
	)
	log.Info("Bot service initialized")

	// Фоновый наблюдатель за подписками
	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()

	if cfg.Watcher.Enabled {
		priceWatcher := watcher.New(storage, resolver, kafkaProducer, cfg.Watcher.Interval, log)
		priceWatcher.Start(watcherCtx)
		defer priceWatcher.Stop()
	} else {
		log.Info("Price watcher disabled")
	}

	// Создание JWT middleware
	jwtMiddleware := middleware.NewJWTMiddleware(cfg.JWT.Secret, log)

	// Настройка роутера
	router := api.SetupRouter(botService, jwtMiddleware, cfg.JWT.Expiration, log, cfg.Server.GinMode)

	// Создание HTTP сервера
	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	// Запуск HTTP сервера в горутине
	go func() {
		log.Infof("HTTP server is listening on port %s", cfg.Server.HTTPPort)
		log.Infof("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Ожидание сигнала завершения
	<-done
	log.Info("Shutting down server...")

	watcherCancel()

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
