package config

import "time"

// Server defaults
const (
	DefaultHTTPPort = "8080"
	DefaultGinMode  = "release"
	DefaultLogLevel = "info"
)

// Database defaults
const (
	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultDBUser            = "pulse_user"
	DefaultDBPassword        = "pulse_password"
	DefaultDBName            = "pulse_db"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxOpenConns    = 25
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = 5 * time.Minute
)

// JWT defaults
const (
	DefaultJWTSecret     = "change-me-in-production"
	DefaultJWTExpiration = 24 * time.Hour
)

// Rates defaults (ЦБ РФ)
const (
	DefaultCBRURL        = "https://www.cbr-xml-daily.ru"
	DefaultCBRTimeout    = 3 * time.Second
	DefaultRatesCacheTTL = 60 * time.Second
)

// Provider defaults
const (
	DefaultBinanceURL      = "https://api.binance.com"
	DefaultGateioURL       = "https://api.gateio.ws"
	DefaultBybitURL        = "https://api.bybit.com"
	DefaultProviderTimeout = 3 * time.Second
)

// History defaults
const (
	DefaultFXHistoryURL   = "https://api.exchangerate.host"
	DefaultHistoryTimeout = 5 * time.Second
)

// Kafka defaults
const (
	DefaultKafkaBrokers  = "localhost:9092"
	DefaultKafkaTopic    = "price-alerts"
	DefaultKafkaGroupID  = "price-alerts-notifier"
	DefaultKafkaMinBytes = 1
	DefaultKafkaMaxBytes = 10485760 // 10MB
	DefaultKafkaMaxWait  = 500 * time.Millisecond
)

// Watcher defaults
const (
	DefaultWatcherEnabled  = true
	DefaultWatcherInterval = 1 * time.Minute
)

// MongoDB defaults (сервис notifier)
const (
	DefaultMongoURI         = "mongodb://localhost:27017"
	DefaultMongoDatabase    = "pulse_notifications"
	DefaultMongoCollection  = "price_alerts"
	DefaultMongoTimeout     = 10 * time.Second
	DefaultMongoMaxPoolSize = 100
	DefaultMongoMinPoolSize = 10
)

// Processing defaults (сервис notifier)
const (
	DefaultBatchSize         = 50
	DefaultWorkers           = 4
	DefaultFlushInterval     = 5 * time.Second
	DefaultRetryAttempts     = 3
	DefaultRetryDelay        = 2 * time.Second
	DefaultMaxProcessingTime = 30 * time.Second
)
