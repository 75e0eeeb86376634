package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/terrapump/internal/models"
)

// GetPreviousStats returns the cached previous performance for one stats
// key, or nil when the key has no entry. Decoding tolerates every
// historical cache shape (see models.PreviousStats).
func (db *DB) GetPreviousStats(ctx context.Context, userID int, key string) (*models.PreviousStats, error) {
	var doc []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT doc FROM exercise_stats WHERE user_id = $1 AND stats_key = $2`,
		userID, key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying previous stats: %w", err)
	}

	var stats models.PreviousStats
	if err := json.Unmarshal(doc, &stats); err != nil {
		return nil, fmt.Errorf("decoding previous stats %s: %w", key, err)
	}
	return &stats, nil
}

// PutPreviousStats writes the previous-performance entry for one stats
// key. An existing document is shallow-merged with the new fields
// (last-write-wins per field), matching the merge semantics pre-existing
// data was written with.
func (db *DB) PutPreviousStats(ctx context.Context, userID int, key string, stats models.PreviousStats) error {
	doc, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encoding previous stats: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO exercise_stats (user_id, stats_key, doc, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, stats_key) DO UPDATE
			SET doc = exercise_stats.doc || excluded.doc, updated_at = NOW()`,
		userID, key, doc)
	if err != nil {
		return fmt.Errorf("writing previous stats: %w", err)
	}
	return nil
}
