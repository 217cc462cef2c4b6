package gateway

import (
	"context"

	"github.com/meltforce/kinetic/internal/models"
)

// Table names a user-owned table, used for account purges.
type Table string

const (
	TableWorkoutLogs      Table = "workout_logs"
	TableWorkouts         Table = "workouts"
	TableWorkoutExercises Table = "workout_exercises"
	TableExercises        Table = "exercises"
	TableUserSettings     Table = "user_settings"
)

// PurgeOrder is the sequence DeleteAccount removes tables in. Workout
// exercises go with their workouts.
var PurgeOrder = []Table{TableWorkoutLogs, TableWorkouts, TableExercises, TableUserSettings}

// Backend is the hosted data store. Single-row lookups that match nothing
// return an error wrapping ErrNotFound. Workout reads embed their
// WorkoutExercise children, oldest first, each with its Exercise.
type Backend interface {
	ListExercises(ctx context.Context, userID string) ([]models.Exercise, error)
	InsertExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, id string, e models.Exercise) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, id string) error

	ListWorkouts(ctx context.Context, userID string) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	InsertWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	UpdateWorkout(ctx context.Context, id string, w models.Workout) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error

	InsertWorkoutExercise(ctx context.Context, we models.WorkoutExercise) (*models.WorkoutExercise, error)
	UpdateWorkoutExercise(ctx context.Context, id string, p models.WorkoutExercisePatch) (*models.WorkoutExercise, error)
	DeleteWorkoutExercise(ctx context.Context, id string) error

	ListWorkoutLogs(ctx context.Context, userID string) ([]models.WorkoutLog, error)
	GetWorkoutLog(ctx context.Context, id string) (*models.WorkoutLog, error)
	InsertWorkoutLog(ctx context.Context, l models.WorkoutLog) (*models.WorkoutLog, error)
	UpdateWorkoutLog(ctx context.Context, id string, p models.WorkoutLogPatch) (*models.WorkoutLog, error)
	DeleteWorkoutLog(ctx context.Context, id string) error

	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertUserSettings(ctx context.Context, s models.UserSettings) (*models.UserSettings, error)

	PurgeUser(ctx context.Context, table Table, userID string) error
}
