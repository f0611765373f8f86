package api

import (
	"net/http"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"
)

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request, userId string) {
	switch r.Method {
	case http.MethodGet:
		s.listAlerts(w, r, userId)
	case http.MethodPost:
		s.createAlert(w, r, userId)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request, userId string) {
	alerts, err := s.store.GetAlerts(r.Context(), userId)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []models.PriceAlert{}
	}

	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) createAlert(w http.ResponseWriter, r *http.Request, userId string) {
	var req models.AlertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := req.Condition.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GoldType == "" {
		writeError(w, http.StatusBadRequest, "Gold type is required")
		return
	}
	if !req.TargetPrice.IsPositive() {
		writeError(w, http.StatusBadRequest, "Target price must be positive")
		return
	}

	alert, err := s.store.CreateAlert(r.Context(), store.AlertParams{
		UserId:      userId,
		GoldType:    req.GoldType,
		TargetPrice: req.TargetPrice,
		Condition:   req.Condition,
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}
