package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Rates      RatesConfig
	Providers  ProvidersConfig
	History    HistoryConfig
	Kafka      KafkaConfig
	Watcher    WatcherConfig
	MongoDB    MongoDBConfig
	Processing ProcessingConfig
	Logger     LoggerConfig
}

// ServerConfig содержит конфигурацию HTTP сервера
type ServerConfig struct {
	HTTPPort string
	GinMode  string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig содержит конфигурацию JWT
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// RatesConfig содержит конфигурацию источника курсов ЦБ РФ
type RatesConfig struct {
	CBRURL   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ProvidersConfig содержит конфигурацию криптовалютных источников
type ProvidersConfig struct {
	BinanceURL string
	GateioURL  string
	BybitURL   string
	Timeout    time.Duration
}

// HistoryConfig содержит конфигурацию источников исторических данных
type HistoryConfig struct {
	FXHistoryURL string
	Timeout      time.Duration
}

// KafkaConfig содержит конфигурацию Kafka
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
	MaxWait  time.Duration
}

// WatcherConfig содержит конфигурацию наблюдателя за подписками
type WatcherConfig struct {
	Enabled  bool
	Interval time.Duration
}

// MongoDBConfig содержит конфигурацию MongoDB для сервиса notifier
type MongoDBConfig struct {
	URI         string
	Database    string
	Collection  string
	Timeout     time.Duration
	MaxPoolSize uint64
	MinPoolSize uint64
}

// ProcessingConfig содержит конфигурацию пакетной обработки уведомлений
type ProcessingConfig struct {
	BatchSize         int
	Workers           int
	FlushInterval     time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	MaxProcessingTime time.Duration
}

// LoggerConfig содержит конфигурацию логгера
type LoggerConfig struct {
	Level string
}

// Load загружает конфигурацию из файла окружения
func Load(configPath string) (*Config, error) {
	// Загрузка переменных окружения из файла
	if configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg := &Config{}

	// Server
	cfg.Server.HTTPPort = getEnv("HTTP_PORT", DefaultHTTPPort)
	cfg.Server.GinMode = getEnv("GIN_MODE", DefaultGinMode)

	// Database
	cfg.Database.Host = getEnv("DB_HOST", DefaultDBHost)
	cfg.Database.Port = getEnvInt("DB_PORT", DefaultDBPort)
	cfg.Database.User = getEnv("DB_USER", DefaultDBUser)
	cfg.Database.Password = getEnv("DB_PASSWORD", DefaultDBPassword)
	cfg.Database.DBName = getEnv("DB_NAME", DefaultDBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", DefaultDBSSLMode)
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", DefaultDBMaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", DefaultDBMaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", DefaultDBConnMaxLifetime)

	// JWT
	cfg.JWT.Secret = getEnv("JWT_SECRET", DefaultJWTSecret)
	cfg.JWT.Expiration = getEnvDuration("JWT_EXPIRATION", DefaultJWTExpiration)

	// Rates (ЦБ РФ)
	cfg.Rates.CBRURL = getEnv("CBR_URL", DefaultCBRURL)
	cfg.Rates.Timeout = getEnvDuration("CBR_TIMEOUT", DefaultCBRTimeout)
	cfg.Rates.CacheTTL = getEnvDuration("RATES_CACHE_TTL", DefaultRatesCacheTTL)

	// Providers
	cfg.Providers.BinanceURL = getEnv("BINANCE_URL", DefaultBinanceURL)
	cfg.Providers.GateioURL = getEnv("GATEIO_URL", DefaultGateioURL)
	cfg.Providers.BybitURL = getEnv("BYBIT_URL", DefaultBybitURL)
	cfg.Providers.Timeout = getEnvDuration("PROVIDER_TIMEOUT", DefaultProviderTimeout)

	// History
	cfg.History.FXHistoryURL = getEnv("FX_HISTORY_URL", DefaultFXHistoryURL)
	cfg.History.Timeout = getEnvDuration("HISTORY_TIMEOUT", DefaultHistoryTimeout)

	// Kafka
	brokers := getEnv("KAFKA_BROKERS", DefaultKafkaBrokers)
	cfg.Kafka.Brokers = strings.Split(brokers, ",")
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", DefaultKafkaTopic)
	cfg.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", DefaultKafkaGroupID)
	cfg.Kafka.MinBytes = getEnvInt("KAFKA_MIN_BYTES", DefaultKafkaMinBytes)
	cfg.Kafka.MaxBytes = getEnvInt("KAFKA_MAX_BYTES", DefaultKafkaMaxBytes)
	cfg.Kafka.MaxWait = getEnvDuration("KAFKA_MAX_WAIT", DefaultKafkaMaxWait)

	// Watcher
	cfg.Watcher.Enabled = getEnvBool("WATCHER_ENABLED", DefaultWatcherEnabled)
	cfg.Watcher.Interval = getEnvDuration("WATCHER_INTERVAL", DefaultWatcherInterval)

	// MongoDB
	cfg.MongoDB.URI = getEnv("MONGO_URI", DefaultMongoURI)
	cfg.MongoDB.Database = getEnv("MONGO_DATABASE", DefaultMongoDatabase)
	cfg.MongoDB.Collection = getEnv("MONGO_COLLECTION", DefaultMongoCollection)
	cfg.MongoDB.Timeout = getEnvDuration("MONGO_TIMEOUT", DefaultMongoTimeout)
	cfg.MongoDB.MaxPoolSize = uint64(getEnvInt("MONGO_MAX_POOL_SIZE", DefaultMongoMaxPoolSize))
	cfg.MongoDB.MinPoolSize = uint64(getEnvInt("MONGO_MIN_POOL_SIZE", DefaultMongoMinPoolSize))

	// Processing
	cfg.Processing.BatchSize = getEnvInt("PROCESSING_BATCH_SIZE", DefaultBatchSize)
	cfg.Processing.Workers = getEnvInt("PROCESSING_WORKERS", DefaultWorkers)
	cfg.Processing.FlushInterval = getEnvDuration("PROCESSING_FLUSH_INTERVAL", DefaultFlushInterval)
	cfg.Processing.RetryAttempts = getEnvInt("PROCESSING_RETRY_ATTEMPTS", DefaultRetryAttempts)
	cfg.Processing.RetryDelay = getEnvDuration("PROCESSING_RETRY_DELAY", DefaultRetryDelay)
	cfg.Processing.MaxProcessingTime = getEnvDuration("PROCESSING_MAX_TIME", DefaultMaxProcessingTime)

	// Logger
	cfg.Logger.Level = getEnv("LOG_LEVEL", DefaultLogLevel)

	return cfg, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленную переменную окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool получает булеву переменную окружения
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения типа duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Rates.CBRURL == "" {
		return fmt.Errorf("CBR_URL is required")
	}

	if c.Rates.CacheTTL <= 0 {
		return fmt.Errorf("RATES_CACHE_TTL must be positive")
	}

	if c.Watcher.Interval <= 0 {
		return fmt.Errorf("WATCHER_INTERVAL must be positive")
	}

	if _, err := logrus.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Logger.Level)
	}

	return nil
}
