// Package gateway is the single path from the application to the hosted
// backend. Every call checks identity where it needs one, attaches the
// owner on creates and reports its lifecycle to a syncstatus.Tracker.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/syncstatus"
)

// Gateway wraps a Backend with identity checks and status tracking.
type Gateway struct {
	backend Backend
	status  *syncstatus.Tracker
}

// New returns a Gateway over b. A nil tracker gets a private one.
func New(b Backend, status *syncstatus.Tracker) *Gateway {
	if status == nil {
		status = syncstatus.NewTracker()
	}
	return &Gateway{backend: b, status: status}
}

// Status returns the tracker every call reports to.
func (g *Gateway) Status() *syncstatus.Tracker { return g.status }

func track[T any](g *Gateway, s syncstatus.Status, op string, fn func() (T, error)) (T, error) {
	var out T
	err := g.status.Track(s, func() error {
		v, err := fn()
		if err != nil {
			return classify(op, err)
		}
		out = v
		return nil
	})
	return out, err
}

func trackErr(g *Gateway, s syncstatus.Status, op string, fn func() error) error {
	_, err := track(g, s, op, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func userID(id *models.Identity) (string, error) {
	if id == nil || id.ID == "" {
		return "", ErrUnauthenticated
	}
	return id.ID, nil
}

func owner(id *models.Identity, claimed string) (string, error) {
	uid, err := userID(id)
	if err != nil {
		return "", err
	}
	if claimed != "" && claimed != uid {
		return "", ErrOwnerConflict
	}
	return uid, nil
}

// Exercises

func (g *Gateway) ListExercises(ctx context.Context, id *models.Identity) ([]models.Exercise, error) {
	uid, err := userID(id)
	if err != nil {
		return nil, err
	}
	return track(g, syncstatus.Loading, "list exercises", func() ([]models.Exercise, error) {
		return g.backend.ListExercises(ctx, uid)
	})
}

func (g *Gateway) CreateExercise(ctx context.Context, id *models.Identity, e models.Exercise) (*models.Exercise, error) {
	uid, err := owner(id, e.UserID)
	if err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, invalid(err)
	}
	e.ID = ""
	e.UserID = uid
	return track(g, syncstatus.Syncing, "create exercise", func() (*models.Exercise, error) {
		return g.backend.InsertExercise(ctx, e)
	})
}

func (g *Gateway) UpdateExercise(ctx context.Context, exerciseID string, e models.Exercise) (*models.Exercise, error) {
	if err := e.Validate(); err != nil {
		return nil, invalid(err)
	}
	return track(g, syncstatus.Syncing, "update exercise", func() (*models.Exercise, error) {
		return g.backend.UpdateExercise(ctx, exerciseID, e)
	})
}

func (g *Gateway) DeleteExercise(ctx context.Context, exerciseID string) error {
	return trackErr(g, syncstatus.Syncing, "delete exercise", func() error {
		return g.backend.DeleteExercise(ctx, exerciseID)
	})
}

// Workouts

func (g *Gateway) ListWorkouts(ctx context.Context, id *models.Identity) ([]models.Workout, error) {
	uid, err := userID(id)
	if err != nil {
		return nil, err
	}
	return track(g, syncstatus.Loading, "list workouts", func() ([]models.Workout, error) {
		return g.backend.ListWorkouts(ctx, uid)
	})
}

func (g *Gateway) GetWorkout(ctx context.Context, workoutID string) (*models.Workout, error) {
	return track(g, syncstatus.Loading, "get workout", func() (*models.Workout, error) {
		return g.backend.GetWorkout(ctx, workoutID)
	})
}

func (g *Gateway) CreateWorkout(ctx context.Context, id *models.Identity, w models.Workout) (*models.Workout, error) {
	uid, err := owner(id, w.UserID)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, invalid(err)
	}
	w.ID = ""
	w.UserID = uid
	w.Exercises = nil
	return track(g, syncstatus.Syncing, "create workout", func() (*models.Workout, error) {
		return g.backend.InsertWorkout(ctx, w)
	})
}

func (g *Gateway) UpdateWorkout(ctx context.Context, workoutID string, w models.Workout) (*models.Workout, error) {
	if err := w.Validate(); err != nil {
		return nil, invalid(err)
	}
	w.Exercises = nil
	return track(g, syncstatus.Syncing, "update workout", func() (*models.Workout, error) {
		return g.backend.UpdateWorkout(ctx, workoutID, w)
	})
}

func (g *Gateway) DeleteWorkout(ctx context.Context, workoutID string) error {
	return trackErr(g, syncstatus.Syncing, "delete workout", func() error {
		return g.backend.DeleteWorkout(ctx, workoutID)
	})
}

// Workout exercises

func (g *Gateway) AddExerciseToWorkout(ctx context.Context, we models.WorkoutExercise) (*models.WorkoutExercise, error) {
	if err := we.Validate(); err != nil {
		return nil, invalid(err)
	}
	we.ID = ""
	we.Exercise = nil
	return track(g, syncstatus.Syncing, "add workout exercise", func() (*models.WorkoutExercise, error) {
		return g.backend.InsertWorkoutExercise(ctx, we)
	})
}

func (g *Gateway) UpdateExerciseInWorkout(ctx context.Context, id string, p models.WorkoutExercisePatch) (*models.WorkoutExercise, error) {
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}
	return track(g, syncstatus.Syncing, "update workout exercise", func() (*models.WorkoutExercise, error) {
		return g.backend.UpdateWorkoutExercise(ctx, id, p)
	})
}

func (g *Gateway) RemoveExerciseFromWorkout(ctx context.Context, id string) error {
	return trackErr(g, syncstatus.Syncing, "remove workout exercise", func() error {
		return g.backend.DeleteWorkoutExercise(ctx, id)
	})
}

// Workout logs

// ListWorkoutLogs returns the identity's logs, newest first.
func (g *Gateway) ListWorkoutLogs(ctx context.Context, id *models.Identity) ([]models.WorkoutLog, error) {
	uid, err := userID(id)
	if err != nil {
		return nil, err
	}
	return track(g, syncstatus.Loading, "list workout logs", func() ([]models.WorkoutLog, error) {
		return g.backend.ListWorkoutLogs(ctx, uid)
	})
}

func (g *Gateway) GetWorkoutLog(ctx context.Context, logID string) (*models.WorkoutLog, error) {
	return track(g, syncstatus.Loading, "get workout log", func() (*models.WorkoutLog, error) {
		return g.backend.GetWorkoutLog(ctx, logID)
	})
}

func (g *Gateway) CreateWorkoutLog(ctx context.Context, id *models.Identity, l models.WorkoutLog) (*models.WorkoutLog, error) {
	uid, err := owner(id, l.UserID)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, invalid(err)
	}
	l.ID = ""
	l.UserID = uid
	if l.Sets == nil {
		l.Sets = []models.LoggedSet{}
	}
	return track(g, syncstatus.Logging, "create workout log", func() (*models.WorkoutLog, error) {
		return g.backend.InsertWorkoutLog(ctx, l)
	})
}

func (g *Gateway) UpdateWorkoutLog(ctx context.Context, logID string, p models.WorkoutLogPatch) (*models.WorkoutLog, error) {
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}
	return track(g, syncstatus.Logging, "update workout log", func() (*models.WorkoutLog, error) {
		return g.backend.UpdateWorkoutLog(ctx, logID, p)
	})
}

func (g *Gateway) DeleteWorkoutLog(ctx context.Context, logID string) error {
	return trackErr(g, syncstatus.Logging, "delete workout log", func() error {
		return g.backend.DeleteWorkoutLog(ctx, logID)
	})
}

// Settings

// GetUserSettings returns nil, nil when the user has no stored settings.
func (g *Gateway) GetUserSettings(ctx context.Context, id *models.Identity) (*models.UserSettings, error) {
	uid, err := userID(id)
	if err != nil {
		return nil, err
	}
	return track(g, syncstatus.Loading, "get user settings", func() (*models.UserSettings, error) {
		s, err := g.backend.GetUserSettings(ctx, uid)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return s, err
	})
}

func (g *Gateway) UpsertUserSettings(ctx context.Context, id *models.Identity, s models.UserSettings) (*models.UserSettings, error) {
	uid, err := owner(id, s.UserID)
	if err != nil {
		return nil, err
	}
	s.UserID = uid
	return track(g, syncstatus.Syncing, "upsert user settings", func() (*models.UserSettings, error) {
		return g.backend.UpsertUserSettings(ctx, s)
	})
}

// DeleteAccount removes every row the identity owns, table by table in
// PurgeOrder. A failure stops the sequence; earlier tables stay deleted.
func (g *Gateway) DeleteAccount(ctx context.Context, id *models.Identity) error {
	uid, err := userID(id)
	if err != nil {
		return err
	}
	return trackErr(g, syncstatus.Syncing, "delete account", func() error {
		for _, t := range PurgeOrder {
			if err := g.backend.PurgeUser(ctx, t, uid); err != nil {
				var re *RemoteError
				if errors.As(err, &re) {
					if re.Op == "" {
						re.Op = "purging " + string(t)
					}
					return err
				}
				return fmt.Errorf("purging %s: %w", t, err)
			}
		}
		return nil
	})
}
