package common

import (
	"context"
	"log"
	"strings"

	"github.com/Black179/Digi-gold/internal/database"
	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/monitor"
	"github.com/Black179/Digi-gold/internal/prices"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService    *database.Service
	PriceService *prices.Service
	Monitor      *monitor.PriceMonitor
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Loading gold price feed", zap.String("assets_file", cfg.Prices.AssetsFile))
	priceService, err := prices.NewService(cfg.Prices)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	priceMonitor, err := monitor.NewPriceMonitor(monitor.Config{
		Store:    dbService,
		Feed:     priceService,
		Interval: cfg.Monitor.Interval,
	})
	if err != nil {
		dbService.Close()
		return nil, err
	}

	return &Services{
		DbService:    dbService,
		PriceService: priceService,
		Monitor:      priceMonitor,
	}, nil
}

// InitializeDatabaseOnly initializes just the database service without the
// price feed or monitor. Useful for maintenance tooling.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
