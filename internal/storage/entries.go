package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/terrapump/internal/models"
)

// UpsertDailyEntry writes one day's health metrics, overwriting any
// existing entry for the date.
func (db *DB) UpsertDailyEntry(ctx context.Context, userID int, entry models.DailyEntry) error {
	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding daily entry: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO daily_entries (user_id, entry_date, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET doc = excluded.doc`,
		userID, entry.Date, doc)
	if err != nil {
		return fmt.Errorf("writing daily entry: %w", err)
	}
	return nil
}

// GetDailyEntry returns one day's entry, or nil when none exists.
func (db *DB) GetDailyEntry(ctx context.Context, userID int, date string) (*models.DailyEntry, error) {
	var doc []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT doc FROM daily_entries WHERE user_id = $1 AND entry_date = $2`,
		userID, date).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying daily entry: %w", err)
	}

	var entry models.DailyEntry
	if err := json.Unmarshal(doc, &entry); err != nil {
		return nil, fmt.Errorf("decoding daily entry %s: %w", date, err)
	}
	return &entry, nil
}

// ListDailyEntries returns entries in a date range (inclusive), oldest
// first, for trend charts.
func (db *DB) ListDailyEntries(ctx context.Context, userID int, from, to string) ([]models.DailyEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT doc FROM daily_entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying daily entries: %w", err)
	}
	defer rows.Close()

	var entries []models.DailyEntry
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning daily entry: %w", err)
		}
		var entry models.DailyEntry
		if err := json.Unmarshal(doc, &entry); err != nil {
			return nil, fmt.Errorf("decoding daily entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
