package state

import (
	"context"
	"fmt"

	"github.com/meltforce/kinetic/internal/models"
)

// SignIn authenticates and, on success, publishes the session and then the
// identity. Failures are logged and reported as a nil identity.
func (h *Hub) SignIn(ctx context.Context, email, password string) *models.Identity {
	if h.auth == nil {
		h.log.Error("sign in: no auth provider configured")
		return nil
	}
	id, sess, err := h.auth.SignIn(ctx, email, password)
	if err != nil {
		h.log.Warn("sign in failed", "email", email, "error", err)
		return nil
	}
	h.Session.Set(sess)
	h.User.Set(id)
	h.log.Info("signed in", "user", id.ID)
	return id
}

// SignOut ends the provider session and clears everything tied to the
// identity. Provider errors are logged; local state is cleared regardless.
func (h *Hub) SignOut(ctx context.Context) {
	if h.auth != nil {
		if err := h.auth.SignOut(ctx, h.Session.Get()); err != nil {
			h.log.Warn("sign out failed", "error", err)
		}
	}
	prev := h.User.Get()

	h.User.Set(nil)
	h.Session.Set(nil)
	h.Exercises.Set([]models.Exercise{})
	h.Workouts.Set([]models.Workout{})
	h.activeMu.Lock()
	h.ActiveWorkout.Remove()
	h.Timer.Reset()
	h.activeMu.Unlock()
	h.ExerciseTypes.Remove()
	h.EquipmentTypes.Remove()
	h.WorkoutTypes.Remove()

	if prev != nil {
		h.log.Info("signed out", "user", prev.ID)
	}
}

// DeleteAccount removes all of the user's rows and then signs out. On
// failure the user stays signed in.
func (h *Hub) DeleteAccount(ctx context.Context) error {
	id, err := h.identity()
	if err != nil {
		return err
	}
	if err := h.gw.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	h.log.Info("account deleted", "user", id.ID)
	h.SignOut(ctx)
	return nil
}
