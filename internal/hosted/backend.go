package hosted

import (
	"context"

	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/supabase-community/postgrest-go"
)

// workoutSelect embeds each workout's links and their exercise rows.
const workoutSelect = "*, workout_exercises(*, exercises(*))"

var (
	oldestFirst = &postgrest.OrderOpts{Ascending: true}
	newestFirst = &postgrest.OrderOpts{Ascending: false}
	linksOldest = &postgrest.OrderOpts{Ascending: true, ForeignTable: string(gateway.TableWorkoutExercises)}
)

// Backend implements gateway.Backend over PostgREST. Row-level security on
// the project keeps users to their own rows.
type Backend struct {
	c *Client
}

var _ gateway.Backend = (*Backend)(nil)

func NewBackend(c *Client) *Backend {
	return &Backend{c: c}
}

// exec runs fn with the client locked. postgrest-go has no context support,
// so ctx is only checked before the request goes out.
func (b *Backend) exec(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.c.mu.Lock()
	defer b.c.mu.Unlock()
	return remoteError(op, fn())
}

func (b *Backend) ListExercises(ctx context.Context, userID string) ([]models.Exercise, error) {
	out := []models.Exercise{}
	err := b.exec(ctx, "list exercises", func() error {
		_, err := b.c.from(gateway.TableExercises).
			Select("*", "", false).
			Eq("user_id", userID).
			Order("created_at", oldestFirst).
			ExecuteTo(&out)
		return err
	})
	return out, err
}

func (b *Backend) InsertExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	var out models.Exercise
	err := b.exec(ctx, "insert exercise", func() error {
		_, err := b.c.from(gateway.TableExercises).
			Insert(e, false, "", "representation", "").
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) UpdateExercise(ctx context.Context, id string, e models.Exercise) (*models.Exercise, error) {
	e.ID, e.UserID = "", ""
	var out models.Exercise
	err := b.exec(ctx, "update exercise", func() error {
		_, err := b.c.from(gateway.TableExercises).
			Update(e, "representation", "").
			Eq("id", id).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) DeleteExercise(ctx context.Context, id string) error {
	return b.exec(ctx, "delete exercise", func() error {
		_, _, err := b.c.from(gateway.TableExercises).Delete("minimal", "").Eq("id", id).Execute()
		return err
	})
}

func (b *Backend) ListWorkouts(ctx context.Context, userID string) ([]models.Workout, error) {
	out := []models.Workout{}
	err := b.exec(ctx, "list workouts", func() error {
		_, err := b.c.from(gateway.TableWorkouts).
			Select(workoutSelect, "", false).
			Eq("user_id", userID).
			Order("created_at", oldestFirst).
			Order("created_at", linksOldest).
			ExecuteTo(&out)
		return err
	})
	return out, err
}

func (b *Backend) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	var out models.Workout
	err := b.exec(ctx, "get workout", func() error {
		_, err := b.c.from(gateway.TableWorkouts).
			Select(workoutSelect, "", false).
			Eq("id", id).
			Order("created_at", linksOldest).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// workoutRow is the writable part of a workout.
type workoutRow struct {
	Name     string `json:"name"`
	Note     string `json:"note,omitempty"`
	Category string `json:"category,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

func (b *Backend) InsertWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	row := workoutRow{Name: w.Name, Note: w.Note, Category: w.Category, UserID: w.UserID}
	var out models.Workout
	err := b.exec(ctx, "insert workout", func() error {
		_, err := b.c.from(gateway.TableWorkouts).
			Insert(row, false, "", "representation", "").
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) UpdateWorkout(ctx context.Context, id string, w models.Workout) (*models.Workout, error) {
	row := workoutRow{Name: w.Name, Note: w.Note, Category: w.Category}
	var out models.Workout
	err := b.exec(ctx, "update workout", func() error {
		_, err := b.c.from(gateway.TableWorkouts).
			Update(row, "representation", "").
			Eq("id", id).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) DeleteWorkout(ctx context.Context, id string) error {
	return b.exec(ctx, "delete workout", func() error {
		_, _, err := b.c.from(gateway.TableWorkouts).Delete("minimal", "").Eq("id", id).Execute()
		return err
	})
}

func (b *Backend) InsertWorkoutExercise(ctx context.Context, we models.WorkoutExercise) (*models.WorkoutExercise, error) {
	we.CreatedAt, we.Exercise = nil, nil
	var out models.WorkoutExercise
	err := b.exec(ctx, "insert workout exercise", func() error {
		_, err := b.c.from(gateway.TableWorkoutExercises).
			Insert(we, false, "", "representation", "").
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) UpdateWorkoutExercise(ctx context.Context, id string, p models.WorkoutExercisePatch) (*models.WorkoutExercise, error) {
	var out models.WorkoutExercise
	err := b.exec(ctx, "update workout exercise", func() error {
		_, err := b.c.from(gateway.TableWorkoutExercises).
			Update(p, "representation", "").
			Eq("id", id).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) DeleteWorkoutExercise(ctx context.Context, id string) error {
	return b.exec(ctx, "delete workout exercise", func() error {
		_, _, err := b.c.from(gateway.TableWorkoutExercises).Delete("minimal", "").Eq("id", id).Execute()
		return err
	})
}

func (b *Backend) ListWorkoutLogs(ctx context.Context, userID string) ([]models.WorkoutLog, error) {
	out := []models.WorkoutLog{}
	err := b.exec(ctx, "list workout logs", func() error {
		_, err := b.c.from(gateway.TableWorkoutLogs).
			Select("*", "", false).
			Eq("user_id", userID).
			Order("started_at", newestFirst).
			ExecuteTo(&out)
		return err
	})
	return out, err
}

func (b *Backend) GetWorkoutLog(ctx context.Context, id string) (*models.WorkoutLog, error) {
	var out models.WorkoutLog
	err := b.exec(ctx, "get workout log", func() error {
		_, err := b.c.from(gateway.TableWorkoutLogs).
			Select("*", "", false).
			Eq("id", id).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) InsertWorkoutLog(ctx context.Context, l models.WorkoutLog) (*models.WorkoutLog, error) {
	var out models.WorkoutLog
	err := b.exec(ctx, "insert workout log", func() error {
		_, err := b.c.from(gateway.TableWorkoutLogs).
			Insert(l, false, "", "representation", "").
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) UpdateWorkoutLog(ctx context.Context, id string, p models.WorkoutLogPatch) (*models.WorkoutLog, error) {
	var out models.WorkoutLog
	err := b.exec(ctx, "update workout log", func() error {
		_, err := b.c.from(gateway.TableWorkoutLogs).
			Update(p, "representation", "").
			Eq("id", id).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) DeleteWorkoutLog(ctx context.Context, id string) error {
	return b.exec(ctx, "delete workout log", func() error {
		_, _, err := b.c.from(gateway.TableWorkoutLogs).Delete("minimal", "").Eq("id", id).Execute()
		return err
	})
}

func (b *Backend) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	var out models.UserSettings
	err := b.exec(ctx, "get user settings", func() error {
		_, err := b.c.from(gateway.TableUserSettings).
			Select("*", "", false).
			Eq("user_id", userID).
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) UpsertUserSettings(ctx context.Context, s models.UserSettings) (*models.UserSettings, error) {
	var out models.UserSettings
	err := b.exec(ctx, "upsert user settings", func() error {
		_, err := b.c.from(gateway.TableUserSettings).
			Upsert(s, "user_id", "representation", "").
			Single().
			ExecuteTo(&out)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Backend) PurgeUser(ctx context.Context, table gateway.Table, userID string) error {
	return b.exec(ctx, "purge "+string(table), func() error {
		_, _, err := b.c.from(table).Delete("minimal", "").Eq("user_id", userID).Execute()
		return err
	})
}
