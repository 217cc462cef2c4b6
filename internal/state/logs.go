package state

import (
	"context"
	"slices"

	"github.com/meltforce/kinetic/internal/models"
)

// AddWorkoutLog stores l for the signed-in user and prepends the stored
// record to WorkoutLogs.
func (h *Hub) AddWorkoutLog(ctx context.Context, l models.WorkoutLog) (*models.WorkoutLog, error) {
	id, err := h.identity()
	if err != nil {
		return nil, err
	}
	created, err := h.gw.CreateWorkoutLog(ctx, id, l)
	if err != nil {
		return nil, err
	}
	h.WorkoutLogs.Update(func(logs []models.WorkoutLog) []models.WorkoutLog {
		return append([]models.WorkoutLog{*created}, logs...)
	})
	return created, nil
}

// UpdateWorkoutLog applies p remotely and swaps the stored record into
// place. Entries that are not loaded locally are left untouched.
func (h *Hub) UpdateWorkoutLog(ctx context.Context, logID string, p models.WorkoutLogPatch) (*models.WorkoutLog, error) {
	if _, err := h.identity(); err != nil {
		return nil, err
	}
	updated, err := h.gw.UpdateWorkoutLog(ctx, logID, p)
	if err != nil {
		return nil, err
	}
	h.WorkoutLogs.Update(func(logs []models.WorkoutLog) []models.WorkoutLog {
		out := slices.Clone(logs)
		for i := range out {
			if out[i].ID == logID {
				out[i] = *updated
			}
		}
		return out
	})
	return updated, nil
}

func (h *Hub) DeleteWorkoutLog(ctx context.Context, logID string) error {
	if _, err := h.identity(); err != nil {
		return err
	}
	if err := h.gw.DeleteWorkoutLog(ctx, logID); err != nil {
		return err
	}
	h.WorkoutLogs.Update(func(logs []models.WorkoutLog) []models.WorkoutLog {
		return slices.DeleteFunc(slices.Clone(logs), func(l models.WorkoutLog) bool { return l.ID == logID })
	})
	return nil
}

// RefreshWorkoutLogs replaces WorkoutLogs with the backend's list.
func (h *Hub) RefreshWorkoutLogs(ctx context.Context) error {
	id, err := h.identity()
	if err != nil {
		return err
	}
	logs, err := h.gw.ListWorkoutLogs(ctx, id)
	if err != nil {
		return err
	}
	h.WorkoutLogs.Set(logs)
	return nil
}
