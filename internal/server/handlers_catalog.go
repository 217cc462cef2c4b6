package server

import (
	"net/http"

	"github.com/meltforce/kinetic/internal/models"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	if wantRefresh(r) {
		if err := s.hub.RefreshExercises(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.hub.Exercises.Get())
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var e models.Exercise
	if !decodeJSON(w, r, &e) {
		return
	}
	created, err := s.hub.AddExercise(r.Context(), e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var e models.Exercise
	if !decodeJSON(w, r, &e) {
		return
	}
	updated, err := s.hub.UpdateExercise(r.Context(), id, e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.hub.DeleteExercise(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	if wantRefresh(r) {
		if err := s.hub.RefreshWorkouts(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.hub.Workouts.Get())
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if s.hub.User.Get() == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody("not signed in"))
		return
	}
	workout, err := s.hub.Gateway().GetWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var wo models.Workout
	if !decodeJSON(w, r, &wo) {
		return
	}
	created, err := s.hub.AddWorkout(r.Context(), wo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var wo models.Workout
	if !decodeJSON(w, r, &wo) {
		return
	}
	updated, err := s.hub.UpdateWorkout(r.Context(), id, wo)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.hub.DeleteWorkout(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	var we models.WorkoutExercise
	if !decodeJSON(w, r, &we) {
		return
	}
	created, err := s.hub.AddExerciseToWorkout(r.Context(), we)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.WorkoutExercisePatch
	if !decodeJSON(w, r, &p) {
		return
	}
	updated, err := s.hub.UpdateExerciseInWorkout(r.Context(), id, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemoveWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.hub.RemoveExerciseFromWorkout(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
