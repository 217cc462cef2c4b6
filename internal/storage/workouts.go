package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/kinetic/internal/models"
)

const workoutColumns = `id::text, user_id, name, note, category`

const linkColumns = `id::text, workout_id::text, exercise_id::text, sets, reps, weight, drop_set, myo_rep, created_at`

// linkJoin selects workout_exercises rows with their exercise, oldest first.
const linkJoin = `SELECT we.id::text, we.workout_id::text, we.exercise_id::text, we.sets, we.reps, we.weight,
		we.drop_set, we.myo_rep, we.created_at,
		e.name, e.primary_muscles, e.secondary_muscles, e.type, e.equipment, e.user_id
	FROM workout_exercises we
	JOIN workouts w ON w.id = we.workout_id
	JOIN exercises e ON e.id = we.exercise_id`

func scanWorkout(row pgx.Row) (models.Workout, error) {
	var w models.Workout
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Note, &w.Category)
	return w, err
}

func scanLink(row pgx.Row) (models.WorkoutExercise, error) {
	var we models.WorkoutExercise
	var myo string
	var created time.Time
	err := row.Scan(&we.ID, &we.WorkoutID, &we.ExerciseID, &we.Sets, &we.Reps, &we.Weight,
		&we.DropSet, &myo, &created)
	we.MyoRep = models.MyoRep(myo)
	we.CreatedAt = &created
	return we, err
}

// loadLinks returns workout_exercises rows matching where, grouped by workout.
func (db *DB) loadLinks(ctx context.Context, where string, arg string) (map[string][]models.WorkoutExercise, error) {
	rows, err := db.Pool.Query(ctx, linkJoin+` WHERE `+where+` ORDER BY we.created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byWorkout := make(map[string][]models.WorkoutExercise)
	for rows.Next() {
		var we models.WorkoutExercise
		var e models.Exercise
		var myo string
		var created time.Time
		if err := rows.Scan(&we.ID, &we.WorkoutID, &we.ExerciseID, &we.Sets, &we.Reps, &we.Weight,
			&we.DropSet, &myo, &created,
			&e.Name, &e.PrimaryMuscles, &e.SecondaryMuscles, &e.Type, &e.Equipment, &e.UserID); err != nil {
			return nil, err
		}
		we.MyoRep = models.MyoRep(myo)
		we.CreatedAt = &created
		e.ID = we.ExerciseID
		we.Exercise = &e
		byWorkout[we.WorkoutID] = append(byWorkout[we.WorkoutID], we)
	}
	return byWorkout, rows.Err()
}

// ListWorkouts returns the user's workouts with their exercises embedded.
func (db *DB) ListWorkouts(ctx context.Context, userID string) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, dbError("listing workouts", err)
	}
	out := []models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			rows.Close()
			return nil, dbError("scanning workout", err)
		}
		out = append(out, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError("listing workouts", err)
	}

	links, err := db.loadLinks(ctx, `w.user_id = $1`, userID)
	if err != nil {
		return nil, dbError("listing workout exercises", err)
	}
	for i := range out {
		out[i].Exercises = nonNilLinks(links[out[i].ID])
	}
	return out, nil
}

func (db *DB) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	w, err := scanWorkout(db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id))
	if err != nil {
		return nil, dbError("getting workout", err)
	}
	links, err := db.loadLinks(ctx, `we.workout_id = $1`, id)
	if err != nil {
		return nil, dbError("getting workout exercises", err)
	}
	w.Exercises = nonNilLinks(links[w.ID])
	return &w, nil
}

func nonNilLinks(l []models.WorkoutExercise) []models.WorkoutExercise {
	if l == nil {
		return []models.WorkoutExercise{}
	}
	return l
}

func (db *DB) InsertWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	out, err := scanWorkout(db.Pool.QueryRow(ctx,
		`INSERT INTO workouts (user_id, name, note, category)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+workoutColumns,
		w.UserID, w.Name, w.Note, w.Category))
	if err != nil {
		return nil, dbError("inserting workout", err)
	}
	out.Exercises = []models.WorkoutExercise{}
	return &out, nil
}

func (db *DB) UpdateWorkout(ctx context.Context, id string, w models.Workout) (*models.Workout, error) {
	out, err := scanWorkout(db.Pool.QueryRow(ctx,
		`UPDATE workouts SET name = $2, note = $3, category = $4
		 WHERE id = $1
		 RETURNING `+workoutColumns,
		id, w.Name, w.Note, w.Category))
	if err != nil {
		return nil, dbError("updating workout", err)
	}
	return &out, nil
}

func (db *DB) DeleteWorkout(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	return dbError("deleting workout", err)
}

func (db *DB) InsertWorkoutExercise(ctx context.Context, we models.WorkoutExercise) (*models.WorkoutExercise, error) {
	out, err := scanLink(db.Pool.QueryRow(ctx,
		`INSERT INTO workout_exercises (workout_id, exercise_id, sets, reps, weight, drop_set, myo_rep)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+linkColumns,
		we.WorkoutID, we.ExerciseID, we.Sets, we.Reps, we.Weight, we.DropSet, string(we.MyoRep)))
	if err != nil {
		return nil, dbError("inserting workout exercise", err)
	}
	return &out, nil
}

// UpdateWorkoutExercise leaves columns whose patch field is nil unchanged.
func (db *DB) UpdateWorkoutExercise(ctx context.Context, id string, p models.WorkoutExercisePatch) (*models.WorkoutExercise, error) {
	var myo *string
	if p.MyoRep != nil {
		s := string(*p.MyoRep)
		myo = &s
	}
	out, err := scanLink(db.Pool.QueryRow(ctx,
		`UPDATE workout_exercises SET
			sets = COALESCE($2, sets),
			reps = COALESCE($3, reps),
			weight = COALESCE($4, weight),
			drop_set = COALESCE($5, drop_set),
			myo_rep = COALESCE($6, myo_rep)
		 WHERE id = $1
		 RETURNING `+linkColumns,
		id, p.Sets, p.Reps, p.Weight, p.DropSet, myo))
	if err != nil {
		return nil, dbError("updating workout exercise", err)
	}
	return &out, nil
}

func (db *DB) DeleteWorkoutExercise(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workout_exercises WHERE id = $1`, id)
	return dbError("deleting workout exercise", err)
}
