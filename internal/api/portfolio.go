package api

import (
	"net/http"

	"github.com/Black179/Digi-gold/internal/models"

	"github.com/shopspring/decimal"
)

const recentTradesLimit = 10

// handlePortfolio values the user's holdings against the latest recorded
// market prices. A gold type with no recorded price contributes zero to the
// portfolio value rather than failing the whole request.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, userId string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	holdings, err := s.store.GetHoldings(r.Context(), userId)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	marketData, err := s.store.GetLatestMarketData(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	priceByType := make(map[string]decimal.Decimal, len(marketData))
	for _, record := range marketData {
		priceByType[record.GoldType] = record.Price
	}

	totalValue := decimal.Zero
	totalInvestment := decimal.Zero
	for _, holding := range holdings {
		totalInvestment = totalInvestment.Add(holding.Quantity.Mul(holding.AvgPrice))
		if price, ok := priceByType[holding.GoldType]; ok {
			totalValue = totalValue.Add(holding.Quantity.Mul(price))
		}
	}

	profitLoss := totalValue.Sub(totalInvestment)
	profitLossPct := decimal.Zero
	if totalInvestment.IsPositive() {
		profitLossPct = profitLoss.Div(totalInvestment).Mul(decimal.NewFromInt(100)).Round(2)
	}

	trades, err := s.store.GetTrades(r.Context(), userId, recentTradesLimit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	if holdings == nil {
		holdings = []models.GoldHolding{}
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	if marketData == nil {
		marketData = []models.MarketData{}
	}

	writeJSON(w, http.StatusOK, models.PortfolioResponse{
		Holdings:             holdings,
		TotalValue:           totalValue.Round(2),
		TotalInvestment:      totalInvestment.Round(2),
		ProfitLoss:           profitLoss.Round(2),
		ProfitLossPercentage: profitLossPct,
		RecentTrades:         trades,
		MarketData:           marketData,
	})
}
