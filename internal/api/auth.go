package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"
)

const sessionTtl = 24 * time.Hour

// handleLogin is the demo login: any known email gets a fresh bearer token.
// There are no passwords in this demo backend.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Unknown user")
			return
		}
		s.internalError(w, r, err)
		return
	}

	session, err := s.store.CreateSession(r.Context(), user.Id, sessionTtl)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:     session.Token,
		UserId:    user.Id,
		Name:      user.Name,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
