package api

import (
	"net/http"
	"strconv"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"
)

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request, userId string) {
	switch r.Method {
	case http.MethodGet:
		s.listTrades(w, r, userId)
	case http.MethodPost:
		s.executeTrade(w, r, userId)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request, userId string) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	trades, err := s.store.GetTrades(r.Context(), userId, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) executeTrade(w http.ResponseWriter, r *http.Request, userId string) {
	var req models.TradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := req.Type.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GoldType == "" {
		writeError(w, http.StatusBadRequest, "Gold type is required")
		return
	}
	if !req.Amount.IsPositive() || !req.Price.IsPositive() {
		writeError(w, http.StatusBadRequest, "Amount and price must be positive")
		return
	}

	trade, err := s.store.ExecuteTrade(r.Context(), store.TradeParams{
		UserId:   userId,
		Side:     req.Type,
		GoldType: req.GoldType,
		Quantity: req.Amount,
		Price:    req.Price,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, trade)
}
