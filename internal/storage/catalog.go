package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meltforce/terrapump/internal/models"
)

// ListBrands returns all brands ordered by name.
func (db *DB) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying brands: %w", err)
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// UpsertBrand inserts or updates a brand.
func (db *DB) UpsertBrand(ctx context.Context, b models.Brand) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO brands (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		b.ID, b.Name)
	if err != nil {
		return fmt.Errorf("upserting brand: %w", err)
	}
	return nil
}

// DeleteBrand removes a brand and its machines. Blind remove: nothing
// checks whether in-flight sessions or cached stats still reference it.
func (db *DB) DeleteBrand(ctx context.Context, id string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM machines WHERE brand_id = $1`, id); err != nil {
		return fmt.Errorf("deleting brand machines: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting brand: %w", err)
	}
	return nil
}

// ListMachines returns one brand's machines ordered by name.
func (db *DB) ListMachines(ctx context.Context, brandID string) ([]models.Machine, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, doc FROM machines WHERE brand_id = $1 ORDER BY doc->>'name'`, brandID)
	if err != nil {
		return nil, fmt.Errorf("querying machines: %w", err)
	}
	defer rows.Close()

	var machines []models.Machine
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scanning machine: %w", err)
		}
		var m models.Machine
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("decoding machine %s: %w", id, err)
		}
		m.ID = id
		m.BrandID = brandID
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

// UpsertMachine inserts or updates a machine document under its brand.
func (db *DB) UpsertMachine(ctx context.Context, m models.Machine) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding machine: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO machines (brand_id, id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (brand_id, id) DO UPDATE SET doc = excluded.doc`,
		m.BrandID, m.ID, doc)
	if err != nil {
		return fmt.Errorf("upserting machine: %w", err)
	}
	return nil
}

// DeleteMachine removes one machine. Blind remove.
func (db *DB) DeleteMachine(ctx context.Context, brandID, id string) error {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM machines WHERE brand_id = $1 AND id = $2`, brandID, id); err != nil {
		return fmt.Errorf("deleting machine: %w", err)
	}
	return nil
}

// ListAttachments returns all cable attachments ordered by name.
func (db *DB) ListAttachments(ctx context.Context) ([]models.Attachment, error) {
	rows, err := db.Pool.Query(ctx, `SELECT name, doc FROM attachments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var (
			name string
			doc  []byte
		)
		if err := rows.Scan(&name, &doc); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		var a models.Attachment
		if err := json.Unmarshal(doc, &a); err != nil {
			return nil, fmt.Errorf("decoding attachment %s: %w", name, err)
		}
		a.Name = name
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// UpsertAttachment inserts or updates an attachment document.
func (db *DB) UpsertAttachment(ctx context.Context, a models.Attachment) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding attachment: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO attachments (name, doc) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET doc = excluded.doc`,
		a.Name, doc)
	if err != nil {
		return fmt.Errorf("upserting attachment: %w", err)
	}
	return nil
}

// DeleteAttachment removes one attachment. Blind remove.
func (db *DB) DeleteAttachment(ctx context.Context, name string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM attachments WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return nil
}

// ListLibraryExercises returns the generic exercise library ordered by name.
func (db *DB) ListLibraryExercises(ctx context.Context) ([]models.LibraryExercise, error) {
	rows, err := db.Pool.Query(ctx, `SELECT name, doc FROM library_exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying library exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.LibraryExercise
	for rows.Next() {
		var (
			name string
			doc  []byte
		)
		if err := rows.Scan(&name, &doc); err != nil {
			return nil, fmt.Errorf("scanning library exercise: %w", err)
		}
		var e models.LibraryExercise
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("decoding library exercise %s: %w", name, err)
		}
		e.Name = name
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// UpsertLibraryExercise inserts or updates a library exercise document.
func (db *DB) UpsertLibraryExercise(ctx context.Context, e models.LibraryExercise) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding library exercise: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO library_exercises (name, doc) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET doc = excluded.doc`,
		e.Name, doc)
	if err != nil {
		return fmt.Errorf("upserting library exercise: %w", err)
	}
	return nil
}

// DeleteLibraryExercise removes one library exercise. Blind remove.
func (db *DB) DeleteLibraryExercise(ctx context.Context, name string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM library_exercises WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting library exercise: %w", err)
	}
	return nil
}
