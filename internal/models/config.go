package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Monitor  MonitorConfig
	Prices   PricesConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	CreateDemoUsers bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// MonitorConfig holds price-alert monitor settings
type MonitorConfig struct {
	Interval time.Duration
}

// PricesConfig holds price feed settings
type PricesConfig struct {
	ApiUrl      string
	ApiToken    string
	AssetsFile  string
	CacheMaxAge time.Duration
	Currency    string
}
