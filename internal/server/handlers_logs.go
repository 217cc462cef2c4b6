package server

import (
	"net/http"

	"github.com/meltforce/kinetic/internal/models"
)

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if wantRefresh(r) {
		if err := s.hub.RefreshWorkoutLogs(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.hub.WorkoutLogs.Get())
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	for _, l := range s.hub.WorkoutLogs.Get() {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	if s.hub.User.Get() == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("not signed in"))
		return
	}
	l, err := s.hub.Gateway().GetWorkoutLog(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var l models.WorkoutLog
	if !decodeJSON(w, r, &l) {
		return
	}
	created, err := s.hub.AddWorkoutLog(r.Context(), l)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.WorkoutLogPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	updated, err := s.hub.UpdateWorkoutLog(r.Context(), id, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.hub.DeleteWorkoutLog(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Active workout

type activeResponse struct {
	Workout *models.WorkoutLog `json:"workout"`
	statusResponse
}

func (s *Server) handleGetActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, activeResponse{Workout: s.hub.ActiveWorkout.Get(), statusResponse: s.statusSnapshot()})
}

type startRequest struct {
	WorkoutName string `json:"workout_name"`
}

func (s *Server) handleStartActive(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WorkoutName == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("workout_name is required"))
		return
	}
	active, err := s.hub.StartWorkout(req.WorkoutName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, active)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var set models.LoggedSet
	if !decodeJSON(w, r, &set) {
		return
	}
	active, err := s.hub.LogSet(set)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleFinishActive(w http.ResponseWriter, r *http.Request) {
	done, err := s.hub.FinishWorkout(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, done)
}

func (s *Server) handleDiscardActive(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.DiscardWorkout(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
