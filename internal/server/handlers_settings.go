package server

import (
	"net/http"

	"github.com/meltforce/kinetic/internal/models"
)

type taxonomies struct {
	ExerciseTypes  []string `json:"exercise_types"`
	EquipmentTypes []string `json:"equipment_types"`
	WorkoutTypes   []string `json:"workout_types"`
}

func (s *Server) currentTaxonomies() taxonomies {
	return taxonomies{
		ExerciseTypes:  s.hub.ExerciseTypes.Get(),
		EquipmentTypes: s.hub.EquipmentTypes.Get(),
		WorkoutTypes:   s.hub.WorkoutTypes.Get(),
	}
}

// handleGetSettings returns the taxonomy lists in effect. With refresh=true
// the signed-in user's stored overrides are loaded first.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if wantRefresh(r) {
		if _, err := s.hub.LoadSettings(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.currentTaxonomies())
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req taxonomies
	if !decodeJSON(w, r, &req) {
		return
	}
	_, err := s.hub.SaveSettings(r.Context(), models.UserSettings{
		ExerciseTypes:  req.ExerciseTypes,
		EquipmentTypes: req.EquipmentTypes,
		WorkoutTypes:   req.WorkoutTypes,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.currentTaxonomies())
}
