package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/state"
	"github.com/meltforce/kinetic/internal/timer"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps hub and gateway errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gateway.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, gateway.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gateway.ErrOwnerConflict),
		errors.Is(err, state.ErrWorkoutActive),
		errors.Is(err, state.ErrNoActiveWorkout):
		status = http.StatusConflict
	case errors.Is(err, gateway.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, gateway.ErrRemote):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// pathID returns the {id} URL parameter, rejecting anything but a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return "", false
	}
	return id, true
}

func wantRefresh(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "true"
}

type meResponse struct {
	User      *models.Identity `json:"user"`
	ExpiresAt int64            `json:"expires_at,omitempty"`
	Tailnet   UserInfo         `json:"tailnet"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	resp := meResponse{User: s.hub.User.Get(), Tailnet: userInfoFromContext(r)}
	if sess := s.hub.Session.Get(); sess != nil {
		resp.ExpiresAt = sess.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("email and password are required"))
		return
	}
	id := s.hub.SignIn(r.Context(), req.Email, req.Password)
	if id == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("sign in failed"))
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.hub.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.DeleteAccount(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusResponse struct {
	Status       string `json:"status"`
	Timer        int    `json:"timer"`
	TimerDisplay string `json:"timer_display"`
	TimerRunning bool   `json:"timer_running"`
}

func (s *Server) statusSnapshot() statusResponse {
	n := s.hub.Timer.Elapsed()
	return statusResponse{
		Status:       string(s.hub.Status.Get()),
		Timer:        n,
		TimerDisplay: timer.FormatTime(n),
		TimerRunning: s.hub.Timer.Running(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.statusSnapshot())
}
