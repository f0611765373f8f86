package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade. Only the two declared values are
// valid; every dispatch on it must be an exhaustive switch.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

func (s TradeSide) Validate() error {
	switch s {
	case SideBuy, SideSell:
		return nil
	default:
		return fmt.Errorf("invalid trade side: %q", string(s))
	}
}

// AlertCondition is the threshold direction of a price alert.
type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

func (c AlertCondition) Validate() error {
	switch c {
	case ConditionAbove, ConditionBelow:
		return nil
	default:
		return fmt.Errorf("invalid alert condition: %q", string(c))
	}
}

// Met reports whether the condition is satisfied by the current price.
// Both comparisons are inclusive: a price exactly at the target triggers.
func (c AlertCondition) Met(current, target decimal.Decimal) (bool, error) {
	switch c {
	case ConditionAbove:
		return current.GreaterThanOrEqual(target), nil
	case ConditionBelow:
		return current.LessThanOrEqual(target), nil
	default:
		return false, fmt.Errorf("invalid alert condition: %q", string(c))
	}
}

// NotificationPriceAlert tags notifications produced by the alert monitor.
const NotificationPriceAlert = "price_alert"

// TradeStatusCompleted is the only trade status in this demo; there are no
// partial fills.
const TradeStatusCompleted = "COMPLETED"

// User represents a user in the system
type User struct {
	Id        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Session is a demo bearer-token session
type Session struct {
	Token     string    `db:"token"`
	UserId    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// GoldHolding represents a user's cumulative position in one gold type.
// At most one row exists per (user, gold type); Version guards concurrent
// read-modify-write cycles.
type GoldHolding struct {
	Id        string          `json:"id" db:"id"`
	UserId    string          `json:"userId" db:"user_id"`
	GoldType  string          `json:"goldType" db:"gold_type"`
	Quantity  decimal.Decimal `json:"quantity" db:"quantity"`
	AvgPrice  decimal.Decimal `json:"avgPrice" db:"avg_price"`
	Version   int64           `json:"-" db:"version"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// Trade is an immutable record of a single executed buy or sell
type Trade struct {
	Id        string          `json:"id" db:"id"`
	UserId    string          `json:"userId" db:"user_id"`
	Side      TradeSide       `json:"type" db:"side"`
	GoldType  string          `json:"goldType" db:"gold_type"`
	Quantity  decimal.Decimal `json:"amount" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// PriceAlert is a standing instruction to notify the user once a price
// threshold is crossed. It is created active and flips inactive exactly once.
type PriceAlert struct {
	Id          string          `json:"id" db:"id"`
	UserId      string          `json:"userId" db:"user_id"`
	GoldType    string          `json:"goldType" db:"gold_type"`
	TargetPrice decimal.Decimal `json:"targetPrice" db:"target_price"`
	Condition   AlertCondition  `json:"condition" db:"condition"`
	Active      bool            `json:"isActive" db:"active"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	TriggeredAt *time.Time      `json:"triggeredAt,omitempty" db:"triggered_at"`
}

// Notification is a one-way message to a user
type Notification struct {
	Id        string    `json:"id" db:"id"`
	UserId    string    `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Kind      string    `json:"type" db:"kind"`
	Payload   string    `json:"data" db:"payload"`
	Read      bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}

// MarketData is one observed price point, kept for charting history
type MarketData struct {
	Id        string          `json:"id" db:"id"`
	GoldType  string          `json:"goldType" db:"gold_type"`
	Price     decimal.Decimal `json:"price" db:"price"`
	ChangePct decimal.Decimal `json:"change" db:"change_pct"`
	Volume    int64           `json:"volume" db:"volume"`
	CreatedAt time.Time       `json:"timestamp" db:"created_at"`
}

// GoldPrice is a live quote from the price feed
type GoldPrice struct {
	GoldType      string          `json:"goldType"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Volume        int64           `json:"volume"`
	Timestamp     time.Time       `json:"timestamp"`
	Currency      string          `json:"currency"`
}

// PricePoint is one sample of synthetic price history
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}
