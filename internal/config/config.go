// catalog-service/internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Config - настройки процесса, читаются из окружения.
type Config struct {
	StoreBackend   string
	DBDriver       string
	DatabaseURL    string
	InitSchema     bool
	HTTPPort       string
	GRPCPort       string
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// Load читает .env.local (если есть) и переменные окружения.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		logger.Info("No .env.local file found, using system environment variables")
	}

	cfg := &Config{
		StoreBackend: GetEnv("CATALOG_STORE", StoreBackendPostgres),
		DBDriver:     GetEnv("CATALOG_DB_DRIVER", "postgres"),
		DatabaseURL:  GetEnv("CATALOG_DATABASE_URL", ""),
		HTTPPort:     GetEnv("CATALOG_HTTP_PORT", "8081"),
		GRPCPort:     GetEnv("CATALOG_GRPC_PORT", "9092"),
		JWTSecret:    GetEnv("CATALOG_JWT_SECRET", ""),
	}

	var err error
	if cfg.InitSchema, err = strconv.ParseBool(GetEnv("CATALOG_INIT_SCHEMA", "true")); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_INIT_SCHEMA: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(GetEnv("CATALOG_RATE_LIMIT_RPS", "20"), 64); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(GetEnv("CATALOG_RATE_LIMIT_BURST", "40")); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_RATE_LIMIT_BURST: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(GetEnv("CATALOG_REQUEST_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_REQUEST_TIMEOUT: %w", err)
	}

	switch cfg.StoreBackend {
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("CATALOG_DATABASE_URL is required for the %q store", StoreBackendPostgres)
		}
		if cfg.DBDriver != "postgres" && cfg.DBDriver != "pgx" {
			return nil, fmt.Errorf("unsupported CATALOG_DB_DRIVER %q (want postgres or pgx)", cfg.DBDriver)
		}
	case StoreBackendMemory:
	default:
		return nil, fmt.Errorf("unsupported CATALOG_STORE %q", cfg.StoreBackend)
	}

	if cfg.JWTSecret == "" {
		logger.Warn("CATALOG_JWT_SECRET is not set, all requests will be treated as anonymous")
	}
	return cfg, nil
}

// GetEnv возвращает значение переменной окружения или defaultValue, если она пуста.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
