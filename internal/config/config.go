package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything resolved from the environment at startup.
// Nothing here is read again after Load returns.
type Config struct {
	HTTPPort           string
	AllowedOrigins     []string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	// Remote commerce gateway (storefront API)
	ShopDomain      string
	StorefrontToken string
	APIVersion      string
	GatewayTimeout  time.Duration

	// Postgres (blog content, newsletter, order mirror)
	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	MigrationsDirPath string

	// Redis (checkout session mirror + catalog cache)
	RedisAddr     string
	RedisPassword string

	// Kafka (order mirror outbox)
	KafkaBrokers []string
}

func Load() (*Config, error) {
	// .env is optional, continue without it
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB

		ShopDomain:      getEnv("SHOP_DOMAIN", ""),
		StorefrontToken: getEnv("STOREFRONT_API_TOKEN", ""),
		APIVersion:      getEnv("STOREFRONT_API_VERSION", "2024-01"),
		GatewayTimeout:  15 * time.Second,

		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            dbPort,
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "storefront"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
	}

	if cfg.ShopDomain == "" {
		return nil, fmt.Errorf("SHOP_DOMAIN is required")
	}
	if cfg.StorefrontToken == "" {
		return nil, fmt.Errorf("STOREFRONT_API_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
