package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/kinetic/internal/models"
)

const logColumns = `id::text, user_id, workout_name, started_at, ended_at, sets`

func scanLog(row pgx.Row) (models.WorkoutLog, error) {
	var l models.WorkoutLog
	var ended *time.Time
	var sets []byte
	if err := row.Scan(&l.ID, &l.UserID, &l.WorkoutName, &l.StartedAt, &ended, &sets); err != nil {
		return l, err
	}
	l.EndedAt = ended
	l.Sets = []models.LoggedSet{}
	if len(sets) > 0 {
		if err := json.Unmarshal(sets, &l.Sets); err != nil {
			return l, fmt.Errorf("decoding sets of log %s: %w", l.ID, err)
		}
	}
	return l, nil
}

func encodeSets(sets []models.LoggedSet) (string, error) {
	if sets == nil {
		sets = []models.LoggedSet{}
	}
	b, err := json.Marshal(sets)
	if err != nil {
		return "", fmt.Errorf("encoding sets: %w", err)
	}
	return string(b), nil
}

// ListWorkoutLogs returns the user's logs, most recent start first.
func (db *DB) ListWorkoutLogs(ctx context.Context, userID string) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+logColumns+` FROM workout_logs WHERE user_id = $1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, dbError("listing workout logs", err)
	}
	defer rows.Close()

	out := []models.WorkoutLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, dbError("scanning workout log", err)
		}
		out = append(out, l)
	}
	return out, dbError("listing workout logs", rows.Err())
}

func (db *DB) GetWorkoutLog(ctx context.Context, id string) (*models.WorkoutLog, error) {
	l, err := scanLog(db.Pool.QueryRow(ctx,
		`SELECT `+logColumns+` FROM workout_logs WHERE id = $1`, id))
	if err != nil {
		return nil, dbError("getting workout log", err)
	}
	return &l, nil
}

func (db *DB) InsertWorkoutLog(ctx context.Context, l models.WorkoutLog) (*models.WorkoutLog, error) {
	sets, err := encodeSets(l.Sets)
	if err != nil {
		return nil, err
	}
	out, err := scanLog(db.Pool.QueryRow(ctx,
		`INSERT INTO workout_logs (user_id, workout_name, started_at, ended_at, sets)
		 VALUES ($1, $2, $3, $4, $5::jsonb)
		 RETURNING `+logColumns,
		l.UserID, l.WorkoutName, l.StartedAt, l.EndedAt, sets))
	if err != nil {
		return nil, dbError("inserting workout log", err)
	}
	return &out, nil
}

// UpdateWorkoutLog leaves columns whose patch field is nil unchanged.
func (db *DB) UpdateWorkoutLog(ctx context.Context, id string, p models.WorkoutLogPatch) (*models.WorkoutLog, error) {
	var sets *string
	if p.Sets != nil {
		s, err := encodeSets(*p.Sets)
		if err != nil {
			return nil, err
		}
		sets = &s
	}
	out, err := scanLog(db.Pool.QueryRow(ctx,
		`UPDATE workout_logs SET
			workout_name = COALESCE($2, workout_name),
			started_at = COALESCE($3, started_at),
			ended_at = COALESCE($4, ended_at),
			sets = COALESCE($5::jsonb, sets)
		 WHERE id = $1
		 RETURNING `+logColumns,
		id, p.WorkoutName, p.StartedAt, p.EndedAt, sets))
	if err != nil {
		return nil, dbError("updating workout log", err)
	}
	return &out, nil
}

func (db *DB) DeleteWorkoutLog(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workout_logs WHERE id = $1`, id)
	return dbError("deleting workout log", err)
}
