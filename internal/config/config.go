package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Black179/Digi-gold/internal/models"

	"go.uber.org/zap"
)

// Load reads the full application configuration from the environment,
// falling back to demo-friendly defaults.
func Load() models.Config {
	return models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "digigold.db"),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
			PingTimeout:     getEnvDuration("DATABASE_PING_TIMEOUT", 5*time.Second),
			CreateDemoUsers: getEnvBool("CREATE_DEMO_USERS", true),
		},
		Server: models.ServerConfig{
			Addr:            getEnvString("SERVER_ADDR", ":8080"),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Monitor: models.MonitorConfig{
			Interval: getEnvDuration("MONITOR_INTERVAL", 30*time.Second),
		},
		Prices: models.PricesConfig{
			ApiUrl:      getEnvString("PRICE_API_URL", ""),
			ApiToken:    getEnvString("PRICE_API_TOKEN", ""),
			AssetsFile:  getEnvString("ASSETS_FILE", "assets.yaml"),
			CacheMaxAge: getEnvDuration("PRICE_CACHE_MAX_AGE", 30*time.Second),
			Currency:    getEnvString("PRICE_CURRENCY", "INR"),
		},
	}
}

func getEnvString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Invalid duration in environment, using fallback",
			zap.String("key", key),
			zap.String("value", value),
			zap.Duration("fallback", fallback))
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Invalid integer in environment, using fallback",
			zap.String("key", key),
			zap.String("value", value),
			zap.Int("fallback", fallback))
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("Invalid boolean in environment, using fallback",
			zap.String("key", key),
			zap.String("value", value),
			zap.Bool("fallback", fallback))
		return fallback
	}
	return parsed
}
