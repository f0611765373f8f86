package api

import (
	"net/http"
	"strconv"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"go.uber.org/zap"
)

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request, userId string) {
	switch r.Method {
	case http.MethodGet:
		s.currentMarkets(w, r)
	case http.MethodPost:
		s.insertMarketData(w, r)
	default:
		methodNotAllowed(w)
	}
}

// currentMarkets fetches live quotes and records each one as a market data
// point so the portfolio and history endpoints see fresh prices.
func (s *Server) currentMarkets(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.feed.FetchCurrentPrices(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	for _, quote := range quotes {
		_, err := s.store.InsertMarketData(r.Context(), store.MarketDataParams{
			GoldType:  quote.GoldType,
			Price:     quote.Price,
			ChangePct: quote.ChangePercent,
			Volume:    quote.Volume,
		})
		if err != nil {
			// Quotes are still served even when recording one fails.
			zap.L().Warn("Failed to record market data point",
				zap.String("gold_type", quote.GoldType),
				zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, quotes)
}

// insertMarketData lets demo tooling inject a price point directly.
func (s *Server) insertMarketData(w http.ResponseWriter, r *http.Request) {
	var req models.MarketDataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GoldType == "" || !req.Price.IsPositive() {
		writeError(w, http.StatusBadRequest, "Gold type and a positive price are required")
		return
	}

	record, err := s.store.InsertMarketData(r.Context(), store.MarketDataParams{
		GoldType:  req.GoldType,
		Price:     req.Price,
		ChangePct: req.Change,
		Volume:    req.Volume,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleMarketHistory(w http.ResponseWriter, r *http.Request, userId string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	goldType := r.URL.Query().Get("goldType")
	if goldType == "" {
		writeError(w, http.StatusBadRequest, "goldType is required")
		return
	}

	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 24*30 {
			writeError(w, http.StatusBadRequest, "Invalid hours")
			return
		}
		hours = parsed
	}

	writeJSON(w, http.StatusOK, s.feed.PriceHistory(goldType, hours))
}
