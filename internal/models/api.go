package models

import "github.com/shopspring/decimal"

// LoginRequest is the demo login payload
type LoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse carries the session token for subsequent requests
type LoginResponse struct {
	Token     string `json:"token"`
	UserId    string `json:"userId"`
	Name      string `json:"name"`
	ExpiresAt string `json:"expiresAt"`
}

// TradeRequest is the POST /trades payload
type TradeRequest struct {
	Type     TradeSide       `json:"type"`
	GoldType string          `json:"goldType"`
	Amount   decimal.Decimal `json:"amount"`
	Price    decimal.Decimal `json:"price"`
}

// AlertRequest is the POST /alerts payload
type AlertRequest struct {
	GoldType    string          `json:"goldType"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	Condition   AlertCondition  `json:"condition"`
}

// MarketDataRequest is the POST /markets payload (demo data injection)
type MarketDataRequest struct {
	GoldType string          `json:"goldType"`
	Price    decimal.Decimal `json:"price"`
	Change   decimal.Decimal `json:"change"`
	Volume   int64           `json:"volume"`
}

// PortfolioResponse aggregates holdings against latest market prices
type PortfolioResponse struct {
	Holdings             []GoldHolding   `json:"holdings"`
	TotalValue           decimal.Decimal `json:"totalValue"`
	TotalInvestment      decimal.Decimal `json:"totalInvestment"`
	ProfitLoss           decimal.Decimal `json:"profitLoss"`
	ProfitLossPercentage decimal.Decimal `json:"profitLossPercentage"`
	RecentTrades         []Trade         `json:"recentTrades"`
	MarketData           []MarketData    `json:"marketData"`
}

// ErrorResponse is the uniform JSON error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}
