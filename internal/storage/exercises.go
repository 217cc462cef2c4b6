package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/kinetic/internal/models"
)

const exerciseColumns = `id::text, user_id, name, primary_muscles, secondary_muscles, type, equipment`

func scanExercise(row pgx.Row) (models.Exercise, error) {
	var e models.Exercise
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.PrimaryMuscles, &e.SecondaryMuscles, &e.Type, &e.Equipment)
	return e, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListExercises returns the user's exercises in creation order.
func (db *DB) ListExercises(ctx context.Context, userID string) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, dbError("listing exercises", err)
	}
	defer rows.Close()

	out := []models.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, dbError("scanning exercise", err)
		}
		out = append(out, e)
	}
	return out, dbError("listing exercises", rows.Err())
}

func (db *DB) InsertExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	out, err := scanExercise(db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (user_id, name, primary_muscles, secondary_muscles, type, equipment)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+exerciseColumns,
		e.UserID, e.Name, nonNil(e.PrimaryMuscles), nonNil(e.SecondaryMuscles), e.Type, e.Equipment))
	if err != nil {
		return nil, dbError("inserting exercise", err)
	}
	return &out, nil
}

func (db *DB) UpdateExercise(ctx context.Context, id string, e models.Exercise) (*models.Exercise, error) {
	out, err := scanExercise(db.Pool.QueryRow(ctx,
		`UPDATE exercises
		 SET name = $2, primary_muscles = $3, secondary_muscles = $4, type = $5, equipment = $6
		 WHERE id = $1
		 RETURNING `+exerciseColumns,
		id, e.Name, nonNil(e.PrimaryMuscles), nonNil(e.SecondaryMuscles), e.Type, e.Equipment))
	if err != nil {
		return nil, dbError("updating exercise", err)
	}
	return &out, nil
}

func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	return dbError("deleting exercise", err)
}
