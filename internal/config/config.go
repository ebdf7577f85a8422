package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	LogLevel string
	HTTP     *HTTPConfig
	GRPC     *GRPCConfig
	Catalog  *CatalogConfig
	Redis    *RedisConfig
	Kafka    *KafkaConfig
}

type HTTPConfig struct {
	Port               string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	MaxRequestBodySize int64
}

type GRPCConfig struct {
	Port string
}

// CatalogConfig points at the SQLite catalog. An empty DBPath selects the
// built-in static catalog.
type CatalogConfig struct {
	DBPath string
}

// RedisConfig is optional: an empty Addr disables the catalog cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig is optional: no brokers disables publishing and consuming.
type KafkaConfig struct {
	Brokers       []string
	StateTopic    string
	OrdersTopic   string
	CheckoutTopic string
	GroupID       string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, err
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTP:     httpCfg,
		GRPC:     &GRPCConfig{Port: getEnv("GRPC_PORT", "50052")},
		Catalog:  &CatalogConfig{DBPath: getEnv("CATALOG_DB_PATH", "")},
		Redis:    redisCfg,
		Kafka:    loadKafkaConfig(),
	}, nil
}

func loadHTTPConfig() (*HTTPConfig, error) {
	const (
		defaultRequestTimeout  = 30 * time.Second
		defaultShutdownTimeout = 10 * time.Second
		defaultReadTimeout     = 10 * time.Second
		defaultWriteTimeout    = 10 * time.Second
		defaultIdleTimeout     = 60 * time.Second
	)

	requestTimeout, err := parseDurationEnv("HTTP_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_REQUEST_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := parseDurationEnv("HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_SHUTDOWN_TIMEOUT: %w", err)
	}

	return &HTTPConfig{
		Port:               getEnv("HTTP_PORT", "8080"),
		RequestTimeout:     requestTimeout,
		ShutdownTimeout:    shutdownTimeout,
		ReadTimeout:        defaultReadTimeout,
		WriteTimeout:       defaultWriteTimeout,
		IdleTimeout:        defaultIdleTimeout,
		MaxRequestBodySize: 1 << 20, // 1MB
	}, nil
}

func loadRedisConfig() (*RedisConfig, error) {
	db, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttl, err := parseDurationEnv("REDIS_CATALOG_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CATALOG_TTL: %w", err)
	}

	return &RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      ttl,
	}, nil
}

func loadKafkaConfig() *KafkaConfig {
	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &KafkaConfig{
		Brokers:       brokers,
		StateTopic:    getEnv("KAFKA_STATE_TOPIC", "storefront-state"),
		OrdersTopic:   getEnv("KAFKA_ORDERS_TOPIC", "storefront-orders"),
		CheckoutTopic: getEnv("KAFKA_CHECKOUT_TOPIC", "checkout-outbox"),
		GroupID:       getEnv("KAFKA_GROUP_ID", "storefront"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}
	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	if v := os.Getenv(key); v != "" {
		return strconv.Atoi(v)
	}
	return defaultValue, nil
}
