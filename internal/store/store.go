package store

import (
	"context"
	"errors"
	"time"

	"github.com/Black179/Digi-gold/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across the persistence layer and its callers.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrHoldingNotFound        = errors.New("holding not found")
	ErrAlertNotFound          = errors.New("alert not found")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrInvalidSession         = errors.New("invalid or expired session")
	ErrInsufficientHoldings   = errors.New("insufficient holdings")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// TradeParams contains the parameters for executing a trade.
type TradeParams struct {
	UserId   string
	Side     models.TradeSide
	GoldType string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// AlertParams contains the parameters for creating a price alert.
type AlertParams struct {
	UserId      string
	GoldType    string
	TargetPrice decimal.Decimal
	Condition   models.AlertCondition
}

// NotificationParams contains the parameters for creating a notification.
type NotificationParams struct {
	UserId    string
	Message   string
	Kind      string
	Payload   string
	Timestamp time.Time
}

// MarketDataParams contains the parameters for recording a price point.
type MarketDataParams struct {
	GoldType  string
	Price     decimal.Decimal
	ChangePct decimal.Decimal
	Volume    int64
}

// TradingStore defines the persistence contract the trading core consumes.
type TradingStore interface {
	// --- Users & sessions ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	CreateSession(ctx context.Context, userId string, ttl time.Duration) (*models.Session, error)
	ValidateSession(ctx context.Context, token string) (string, error)

	// --- Trades & holdings ---
	ExecuteTrade(ctx context.Context, params TradeParams) (*models.Trade, error)
	GetTrades(ctx context.Context, userId string, limit int) ([]models.Trade, error)
	GetHolding(ctx context.Context, userId, goldType string) (*models.GoldHolding, error)
	GetHoldings(ctx context.Context, userId string) ([]models.GoldHolding, error)

	// --- Price alerts ---
	CreateAlert(ctx context.Context, params AlertParams) (*models.PriceAlert, error)
	GetAlerts(ctx context.Context, userId string) ([]models.PriceAlert, error)
	ListActiveAlerts(ctx context.Context) ([]models.PriceAlert, error)
	DeactivateAlert(ctx context.Context, alertId string) error

	// --- Notifications ---
	CreateNotification(ctx context.Context, params NotificationParams) (*models.Notification, error)
	GetNotifications(ctx context.Context, userId string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationId string) error

	// --- Market data ---
	InsertMarketData(ctx context.Context, params MarketDataParams) (*models.MarketData, error)
	GetLatestMarketData(ctx context.Context) ([]models.MarketData, error)

	// --- Lifecycle ---
	Close()
}
