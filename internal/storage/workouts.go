package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/meltforce/terrapump/internal/models"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// workoutDoc is the persisted shape of a workout record. Start is kept as
// the stored string so records written with older timestamp formats (or
// junk) still load; parsing is tolerant on the way out.
type workoutDoc struct {
	Name      string                  `json:"name"`
	Start     string                  `json:"start"`
	Entries   []models.LoggedExercise `json:"entries"`
	Timestamp time.Time               `json:"timestamp"`
}

// AppendWorkout appends a finalized workout record. The record's start
// instant is unique per user; a collision returns ErrDuplicateStart.
func (db *DB) AppendWorkout(ctx context.Context, userID int, rec models.WorkoutRecord) error {
	doc, err := json.Marshal(workoutDoc{
		Name:      rec.Name,
		Start:     rec.Start.Format(time.RFC3339Nano),
		Entries:   rec.Entries,
		Timestamp: rec.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("encoding workout record: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO workouts (id, user_id, start_iso, doc)
		VALUES ($1, $2, $3, $4)`,
		rec.ID, userID, rec.Start.Format(time.RFC3339Nano), doc)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateStart
		}
		return fmt.Errorf("inserting workout record: %w", err)
	}
	return nil
}

// ListWorkouts returns all of a user's workout records. Stored start
// strings that do not parse become the zero time; the history service
// sorts those last. Ordering beyond that is left to the caller.
func (db *DB) ListWorkouts(ctx context.Context, userID int) ([]models.WorkoutRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, doc FROM workouts WHERE user_id = $1 ORDER BY start_iso DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var records []models.WorkoutRecord
	for rows.Next() {
		var (
			id  uuid.UUID
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		rec, err := decodeWorkout(id, doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetWorkout returns one workout record, or nil when it does not exist.
func (db *DB) GetWorkout(ctx context.Context, userID int, id uuid.UUID) (*models.WorkoutRecord, error) {
	var doc []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT doc FROM workouts WHERE user_id = $1 AND id = $2`, userID, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	rec, err := decodeWorkout(id, doc)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteWorkout removes one workout record irrevocably.
func (db *DB) DeleteWorkout(ctx context.Context, userID int, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

func decodeWorkout(id uuid.UUID, doc []byte) (models.WorkoutRecord, error) {
	var d workoutDoc
	if err := json.Unmarshal(doc, &d); err != nil {
		return models.WorkoutRecord{}, fmt.Errorf("decoding workout %s: %w", id, err)
	}
	return models.WorkoutRecord{
		ID:        id,
		Name:      d.Name,
		Start:     models.ParseTime(d.Start),
		Entries:   d.Entries,
		Timestamp: d.Timestamp,
	}, nil
}
