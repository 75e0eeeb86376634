package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/terrapump/internal/models"
)

// GetDraft returns the user's resumable workout draft, or nil when the
// slot is empty.
func (db *DB) GetDraft(ctx context.Context, userID int) (*models.WorkoutDraft, error) {
	var doc []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT doc FROM workout_drafts WHERE user_id = $1`, userID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying draft: %w", err)
	}

	var draft models.WorkoutDraft
	if err := json.Unmarshal(doc, &draft); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &draft, nil
}

// PutDraft overwrites the user's single resumable draft slot.
func (db *DB) PutDraft(ctx context.Context, userID int, draft models.WorkoutDraft) error {
	doc, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO workout_drafts (user_id, doc, saved_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET doc = excluded.doc, saved_at = NOW()`,
		userID, doc)
	if err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}

// ClearDraft empties the user's draft slot. Clearing an already empty
// slot is not an error.
func (db *DB) ClearDraft(ctx context.Context, userID int) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_drafts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}
