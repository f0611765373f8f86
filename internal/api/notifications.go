package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Black179/Digi-gold/internal/models"
)

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request, userId string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	notifications, err := s.store.GetNotifications(r.Context(), userId, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}

// handleNotificationRead serves POST /notifications/{id}/read.
func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request, userId string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/notifications/")
	notificationId, ok := strings.CutSuffix(rest, "/read")
	if !ok || notificationId == "" || strings.Contains(notificationId, "/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := s.store.MarkNotificationRead(r.Context(), notificationId); err != nil {
		s.storeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
