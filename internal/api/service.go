package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by path and method",
	},
	[]string{"path", "method"},
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
}

// PriceFeed is the slice of the price service the API consumes.
type PriceFeed interface {
	FetchCurrentPrices(ctx context.Context) ([]models.GoldPrice, error)
	PriceHistory(goldType string, hours int) []models.PricePoint
}

// Server exposes the trading backend over HTTP. All domain routes require a
// bearer session token obtained from POST /auth/login.
type Server struct {
	store store.TradingStore
	feed  PriceFeed
}

func NewServer(tradingStore store.TradingStore, feed PriceFeed) (*Server, error) {
	if tradingStore == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if feed == nil {
		return nil, fmt.Errorf("price feed cannot be nil")
	}
	return &Server{store: tradingStore, feed: feed}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/trades", s.requireAuth(s.handleTrades))
	mux.HandleFunc("/portfolio", s.requireAuth(s.handlePortfolio))
	mux.HandleFunc("/markets", s.requireAuth(s.handleMarkets))
	mux.HandleFunc("/markets/history", s.requireAuth(s.handleMarketHistory))
	mux.HandleFunc("/alerts", s.requireAuth(s.handleAlerts))
	mux.HandleFunc("/notifications", s.requireAuth(s.handleNotifications))
	mux.HandleFunc("/notifications/", s.requireAuth(s.handleNotificationRead))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s.countRequests(mux)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method).Inc()
		next.ServeHTTP(w, r)
	})
}

// authedHandler receives the authenticated user's id resolved from the
// bearer token.
type authedHandler func(w http.ResponseWriter, r *http.Request, userId string)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		userId, err := s.store.ValidateSession(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrInvalidSession) {
				writeError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}
			s.internalError(w, r, err)
			return
		}

		next(w, r, userId)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// storeError maps persistence-layer sentinels onto HTTP statuses; anything
// unrecognized is a 500 with the detail kept out of the response.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrInsufficientHoldings):
		writeError(w, http.StatusBadRequest, "Insufficient holdings for this sale")
	case errors.Is(err, store.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "Holding was modified concurrently, please retry")
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrHoldingNotFound),
		errors.Is(err, store.ErrAlertNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "Invalid or expired session")
	default:
		s.internalError(w, r, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
