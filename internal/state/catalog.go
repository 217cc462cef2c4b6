package state

import (
	"context"
	"slices"

	"github.com/meltforce/kinetic/internal/models"
)

// Exercises

func (h *Hub) RefreshExercises(ctx context.Context) error {
	id, err := h.identity()
	if err != nil {
		return err
	}
	list, err := h.gw.ListExercises(ctx, id)
	if err != nil {
		return err
	}
	h.Exercises.Set(list)
	return nil
}

func (h *Hub) AddExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	id, err := h.identity()
	if err != nil {
		return nil, err
	}
	created, err := h.gw.CreateExercise(ctx, id, e)
	if err != nil {
		return nil, err
	}
	h.Exercises.Update(func(list []models.Exercise) []models.Exercise {
		return append(slices.Clone(list), *created)
	})
	return created, nil
}

func (h *Hub) UpdateExercise(ctx context.Context, exerciseID string, e models.Exercise) (*models.Exercise, error) {
	if _, err := h.identity(); err != nil {
		return nil, err
	}
	updated, err := h.gw.UpdateExercise(ctx, exerciseID, e)
	if err != nil {
		return nil, err
	}
	h.Exercises.Update(func(list []models.Exercise) []models.Exercise {
		out := slices.Clone(list)
		for i := range out {
			if out[i].ID == exerciseID {
				out[i] = *updated
			}
		}
		return out
	})
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		return mapLinks(list, func(we models.WorkoutExercise) (models.WorkoutExercise, bool) {
			if we.ExerciseID == exerciseID {
				ex := *updated
				we.Exercise = &ex
			}
			return we, true
		})
	})
	return updated, nil
}

// DeleteExercise removes the exercise and, locally, every link to it; the
// backend cascades the same way.
func (h *Hub) DeleteExercise(ctx context.Context, exerciseID string) error {
	if _, err := h.identity(); err != nil {
		return err
	}
	if err := h.gw.DeleteExercise(ctx, exerciseID); err != nil {
		return err
	}
	h.Exercises.Update(func(list []models.Exercise) []models.Exercise {
		return slices.DeleteFunc(slices.Clone(list), func(e models.Exercise) bool { return e.ID == exerciseID })
	})
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		return mapLinks(list, func(we models.WorkoutExercise) (models.WorkoutExercise, bool) {
			return we, we.ExerciseID != exerciseID
		})
	})
	return nil
}

// Workouts

func (h *Hub) RefreshWorkouts(ctx context.Context) error {
	id, err := h.identity()
	if err != nil {
		return err
	}
	list, err := h.gw.ListWorkouts(ctx, id)
	if err != nil {
		return err
	}
	h.Workouts.Set(list)
	return nil
}

func (h *Hub) AddWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	id, err := h.identity()
	if err != nil {
		return nil, err
	}
	created, err := h.gw.CreateWorkout(ctx, id, w)
	if err != nil {
		return nil, err
	}
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		return append(slices.Clone(list), *created)
	})
	return created, nil
}

// UpdateWorkout changes the workout's own fields and keeps its loaded
// exercises.
func (h *Hub) UpdateWorkout(ctx context.Context, workoutID string, w models.Workout) (*models.Workout, error) {
	if _, err := h.identity(); err != nil {
		return nil, err
	}
	updated, err := h.gw.UpdateWorkout(ctx, workoutID, w)
	if err != nil {
		return nil, err
	}
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		out := slices.Clone(list)
		for i := range out {
			if out[i].ID == workoutID {
				children := out[i].Exercises
				out[i] = *updated
				out[i].Exercises = children
				*updated = out[i]
			}
		}
		return out
	})
	return updated, nil
}

func (h *Hub) DeleteWorkout(ctx context.Context, workoutID string) error {
	if _, err := h.identity(); err != nil {
		return err
	}
	if err := h.gw.DeleteWorkout(ctx, workoutID); err != nil {
		return err
	}
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		return slices.DeleteFunc(slices.Clone(list), func(w models.Workout) bool { return w.ID == workoutID })
	})
	return nil
}

// Workout exercises

// AddExerciseToWorkout links an exercise into a workout and appends the
// link, with its exercise attached, to the loaded workout.
func (h *Hub) AddExerciseToWorkout(ctx context.Context, we models.WorkoutExercise) (*models.WorkoutExercise, error) {
	if _, err := h.identity(); err != nil {
		return nil, err
	}
	created, err := h.gw.AddExerciseToWorkout(ctx, we)
	if err != nil {
		return nil, err
	}
	if created.Exercise == nil {
		for _, e := range h.Exercises.Get() {
			if e.ID == created.ExerciseID {
				ex := e
				created.Exercise = &ex
				break
			}
		}
	}
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		out := slices.Clone(list)
		for i := range out {
			if out[i].ID == created.WorkoutID {
				out[i].Exercises = append(slices.Clone(out[i].Exercises), *created)
			}
		}
		return out
	})
	return created, nil
}

func (h *Hub) UpdateExerciseInWorkout(ctx context.Context, linkID string, p models.WorkoutExercisePatch) (*models.WorkoutExercise, error) {
	if _, err := h.identity(); err != nil {
		return nil, err
	}
	updated, err := h.gw.UpdateExerciseInWorkout(ctx, linkID, p)
	if err != nil {
		return nil, err
	}
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		return mapLinks(list, func(we models.WorkoutExercise) (models.WorkoutExercise, bool) {
			if we.ID == linkID {
				p.Apply(&we)
			}
			return we, true
		})
	})
	return updated, nil
}

func (h *Hub) RemoveExerciseFromWorkout(ctx context.Context, linkID string) error {
	if _, err := h.identity(); err != nil {
		return err
	}
	if err := h.gw.RemoveExerciseFromWorkout(ctx, linkID); err != nil {
		return err
	}
	h.Workouts.Update(func(list []models.Workout) []models.Workout {
		return mapLinks(list, func(we models.WorkoutExercise) (models.WorkoutExercise, bool) {
			return we, we.ID != linkID
		})
	})
	return nil
}

// mapLinks rebuilds every workout's links through fn, dropping links for
// which fn reports false.
func mapLinks(list []models.Workout, fn func(models.WorkoutExercise) (models.WorkoutExercise, bool)) []models.Workout {
	out := slices.Clone(list)
	for i := range out {
		links := []models.WorkoutExercise{}
		for _, we := range out[i].Exercises {
			if we, keep := fn(we); keep {
				links = append(links, we)
			}
		}
		out[i].Exercises = links
	}
	return out
}

// Settings

// LoadSettings applies the user's stored taxonomy overrides. Lists the user
// never set keep their current value.
func (h *Hub) LoadSettings(ctx context.Context) (*models.UserSettings, error) {
	id, err := h.identity()
	if err != nil {
		return nil, err
	}
	s, err := h.gw.GetUserSettings(ctx, id)
	if err != nil || s == nil {
		return s, err
	}
	h.applySettings(*s)
	return s, nil
}

// SaveSettings writes s for the signed-in user. Empty lists are stored as
// the current container values.
func (h *Hub) SaveSettings(ctx context.Context, s models.UserSettings) (*models.UserSettings, error) {
	id, err := h.identity()
	if err != nil {
		return nil, err
	}
	if len(s.ExerciseTypes) == 0 {
		s.ExerciseTypes = h.ExerciseTypes.Get()
	}
	if len(s.EquipmentTypes) == 0 {
		s.EquipmentTypes = h.EquipmentTypes.Get()
	}
	if len(s.WorkoutTypes) == 0 {
		s.WorkoutTypes = h.WorkoutTypes.Get()
	}
	saved, err := h.gw.UpsertUserSettings(ctx, id, s)
	if err != nil {
		return nil, err
	}
	h.applySettings(*saved)
	return saved, nil
}

func (h *Hub) applySettings(s models.UserSettings) {
	if len(s.ExerciseTypes) > 0 {
		h.ExerciseTypes.Set(slices.Clone(s.ExerciseTypes))
	}
	if len(s.EquipmentTypes) > 0 {
		h.EquipmentTypes.Set(slices.Clone(s.EquipmentTypes))
	}
	if len(s.WorkoutTypes) > 0 {
		h.WorkoutTypes.Set(slices.Clone(s.WorkoutTypes))
	}
}
