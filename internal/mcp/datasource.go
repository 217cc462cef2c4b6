package mcp

import (
	"context"

	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/state"
	"github.com/meltforce/kinetic/internal/timer"
)

// ActiveState is the in-progress session together with its clock.
type ActiveState struct {
	Workout      *models.WorkoutLog `json:"workout"`
	Status       string             `json:"status"`
	Timer        int                `json:"timer"`
	TimerDisplay string             `json:"timer_display"`
	TimerRunning bool               `json:"timer_running"`
}

// Taxonomies are the exercise, equipment and workout type lists in effect.
type Taxonomies struct {
	ExerciseTypes  []string `json:"exercise_types"`
	EquipmentTypes []string `json:"equipment_types"`
	WorkoutTypes   []string `json:"workout_types"`
}

// DataSource abstracts where the tools read and write. HubSource runs
// against an in-process Hub; HTTPClient against a running kinetic server.
type DataSource interface {
	WorkoutLogs(ctx context.Context) ([]models.WorkoutLog, error)
	Exercises(ctx context.Context) ([]models.Exercise, error)
	Workouts(ctx context.Context) ([]models.Workout, error)
	Taxonomies(ctx context.Context) (*Taxonomies, error)
	Active(ctx context.Context) (*ActiveState, error)
	StartWorkout(ctx context.Context, name string) (*models.WorkoutLog, error)
	LogSet(ctx context.Context, set models.LoggedSet) (*models.WorkoutLog, error)
	FinishWorkout(ctx context.Context) (*models.WorkoutLog, error)
}

// HubSource serves tools from a Hub. Catalog reads refresh from the
// backend first, since a stdio session has no other trigger for it.
type HubSource struct {
	Hub *state.Hub
}

var _ DataSource = HubSource{}

func (s HubSource) WorkoutLogs(ctx context.Context) ([]models.WorkoutLog, error) {
	if err := s.Hub.RefreshWorkoutLogs(ctx); err != nil {
		return nil, err
	}
	return s.Hub.WorkoutLogs.Get(), nil
}

func (s HubSource) Exercises(ctx context.Context) ([]models.Exercise, error) {
	if err := s.Hub.RefreshExercises(ctx); err != nil {
		return nil, err
	}
	return s.Hub.Exercises.Get(), nil
}

func (s HubSource) Workouts(ctx context.Context) ([]models.Workout, error) {
	if err := s.Hub.RefreshWorkouts(ctx); err != nil {
		return nil, err
	}
	return s.Hub.Workouts.Get(), nil
}

func (s HubSource) Taxonomies(context.Context) (*Taxonomies, error) {
	return &Taxonomies{
		ExerciseTypes:  s.Hub.ExerciseTypes.Get(),
		EquipmentTypes: s.Hub.EquipmentTypes.Get(),
		WorkoutTypes:   s.Hub.WorkoutTypes.Get(),
	}, nil
}

func (s HubSource) Active(context.Context) (*ActiveState, error) {
	n := s.Hub.Timer.Elapsed()
	return &ActiveState{
		Workout:      s.Hub.ActiveWorkout.Get(),
		Status:       string(s.Hub.Status.Get()),
		Timer:        n,
		TimerDisplay: timer.FormatTime(n),
		TimerRunning: s.Hub.Timer.Running(),
	}, nil
}

func (s HubSource) StartWorkout(_ context.Context, name string) (*models.WorkoutLog, error) {
	return s.Hub.StartWorkout(name)
}

func (s HubSource) LogSet(_ context.Context, set models.LoggedSet) (*models.WorkoutLog, error) {
	return s.Hub.LogSet(set)
}

func (s HubSource) FinishWorkout(ctx context.Context) (*models.WorkoutLog, error) {
	return s.Hub.FinishWorkout(ctx)
}
