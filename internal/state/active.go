package state

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/models"
)

// StartWorkout begins a session named name and starts the timer from zero.
func (h *Hub) StartWorkout(name string) (*models.WorkoutLog, error) {
	if _, err := h.identity(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("starting workout: %w: name is required", gateway.ErrInvalid)
	}
	h.activeMu.Lock()
	defer h.activeMu.Unlock()
	if h.ActiveWorkout.Get() != nil {
		return nil, ErrWorkoutActive
	}
	active := &models.WorkoutLog{
		ID:          uuid.NewString(),
		WorkoutName: name,
		StartedAt:   h.now().UTC(),
		Sets:        []models.LoggedSet{},
	}
	h.ActiveWorkout.Set(active)
	h.Timer.Reset()
	h.Timer.Start()
	h.log.Info("workout started", "name", name)
	return cloneLog(active), nil
}

// LogSet appends s to the active session, stamped with the timer count and
// the current time.
func (h *Hub) LogSet(s models.LoggedSet) (*models.WorkoutLog, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("logging set: %w: %w", gateway.ErrInvalid, err)
	}
	h.activeMu.Lock()
	defer h.activeMu.Unlock()
	active := h.ActiveWorkout.Get()
	if active == nil {
		return nil, ErrNoActiveWorkout
	}
	if s.ExerciseName == "" {
		for _, e := range h.Exercises.Get() {
			if e.ID == s.ExerciseID {
				s.ExerciseName = e.Name
				break
			}
		}
	}
	s.Elapsed = h.Timer.Elapsed()
	s.LoggedAt = h.now().UTC()

	next := cloneLog(active)
	next.Sets = append(next.Sets, s)
	h.ActiveWorkout.Set(next)
	return cloneLog(next), nil
}

// FinishWorkout stops the timer and stores the session as a workout log.
// If storing fails the session stays active and the timer stays stopped, so
// the caller can retry. Sets logged while storing wait for the outcome.
func (h *Hub) FinishWorkout(ctx context.Context) (*models.WorkoutLog, error) {
	h.activeMu.Lock()
	defer h.activeMu.Unlock()
	active := h.ActiveWorkout.Get()
	if active == nil {
		return nil, ErrNoActiveWorkout
	}
	h.Timer.Stop()

	done := cloneLog(active)
	ended := h.now().UTC()
	done.EndedAt = &ended

	created, err := h.AddWorkoutLog(ctx, *done)
	if err != nil {
		return nil, fmt.Errorf("finishing workout: %w", err)
	}
	h.ActiveWorkout.Remove()
	h.Timer.Reset()
	h.log.Info("workout finished", "name", created.WorkoutName, "sets", len(created.Sets), "log", created.ID)
	return created, nil
}

// DiscardWorkout drops the active session without storing it.
func (h *Hub) DiscardWorkout() error {
	h.activeMu.Lock()
	defer h.activeMu.Unlock()
	if h.ActiveWorkout.Get() == nil {
		return ErrNoActiveWorkout
	}
	h.ActiveWorkout.Remove()
	h.Timer.Reset()
	return nil
}

// resumeActiveWorkout restarts the timer for a session restored from device
// storage, counting the time that passed while the process was down.
func (h *Hub) resumeActiveWorkout() {
	active := h.ActiveWorkout.Get()
	if active == nil {
		return
	}
	if h.User.Get() == nil {
		h.log.Info("discarding active workout without a session", "name", active.WorkoutName)
		h.ActiveWorkout.Remove()
		return
	}
	ticks := int(h.now().Sub(active.StartedAt) / h.Timer.Interval())
	if ticks < 0 {
		ticks = 0
	}
	h.Timer.Value().Set(ticks)
	h.Timer.Start()
	h.log.Info("resumed active workout", "name", active.WorkoutName, "elapsed", ticks)
}

func cloneLog(l *models.WorkoutLog) *models.WorkoutLog {
	out := *l
	out.Sets = slices.Clone(l.Sets)
	if l.EndedAt != nil {
		t := *l.EndedAt
		out.EndedAt = &t
	}
	return &out
}
