package api

import (
	"net/http"

	"github.com/byronwade/rebuzzle/internal/errors"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/services"
)

type createGuestRequest struct {
	DeviceID string `json:"deviceId"`
}

type convertRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userView(u *models.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"isGuest":  u.IsGuest,
	}
}

func (s *Server) handleCreateGuest(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	// An existing session keeps its account.
	if user := userFromContext(r.Context()); user != nil {
		respondJSON(w, r, http.StatusOK, userView(user))
		return
	}

	var req createGuestRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	user, err := s.Users.CreateGuest(r.Context(), req.DeviceID, clientIP(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	setGuestCookie(w, user.GuestToken)
	log.Info("guest session issued for %s", user.ID)
	respondJSON(w, r, http.StatusCreated, userView(user))
}

func (s *Server) handleConvertGuest(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("a guest session is required"))
		return
	}

	var req convertRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	converted, err := s.Users.ConvertGuest(r.Context(), services.ConvertInput{
		UserID:   user.ID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, userView(converted))
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("a session is required"))
		return
	}

	if err := s.Stats.ClearData(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cleared": true})
}
