package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/models"
)

func (db *DB) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	var s models.UserSettings
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, exercise_types, equipment_types, workout_types
		 FROM user_settings WHERE user_id = $1`, userID,
	).Scan(&s.UserID, &s.ExerciseTypes, &s.EquipmentTypes, &s.WorkoutTypes)
	if err != nil {
		return nil, dbError("getting user settings", err)
	}
	return &s, nil
}

func (db *DB) UpsertUserSettings(ctx context.Context, s models.UserSettings) (*models.UserSettings, error) {
	var out models.UserSettings
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO user_settings (user_id, exercise_types, equipment_types, workout_types)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
			exercise_types = EXCLUDED.exercise_types,
			equipment_types = EXCLUDED.equipment_types,
			workout_types = EXCLUDED.workout_types,
			updated_at = NOW()
		 RETURNING user_id, exercise_types, equipment_types, workout_types`,
		s.UserID, nonNil(s.ExerciseTypes), nonNil(s.EquipmentTypes), nonNil(s.WorkoutTypes),
	).Scan(&out.UserID, &out.ExerciseTypes, &out.EquipmentTypes, &out.WorkoutTypes)
	if err != nil {
		return nil, dbError("upserting user settings", err)
	}
	return &out, nil
}

var purgeStatements = map[gateway.Table]string{
	gateway.TableWorkoutLogs:  `DELETE FROM workout_logs WHERE user_id = $1`,
	gateway.TableWorkouts:     `DELETE FROM workouts WHERE user_id = $1`,
	gateway.TableExercises:    `DELETE FROM exercises WHERE user_id = $1`,
	gateway.TableUserSettings: `DELETE FROM user_settings WHERE user_id = $1`,
}

// PurgeUser deletes every row the user owns in table.
func (db *DB) PurgeUser(ctx context.Context, table gateway.Table, userID string) error {
	stmt, ok := purgeStatements[table]
	if !ok {
		return fmt.Errorf("purging %s: unsupported table", table)
	}
	_, err := db.Pool.Exec(ctx, stmt, userID)
	return dbError("purging "+string(table), err)
}
