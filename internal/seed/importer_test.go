package seed

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meltforce/terrapump/internal/models"
)

type fakeStore struct {
	brands      []models.Brand
	machines    []models.Machine
	attachments []models.Attachment
	library     []models.LibraryExercise
}

func (f *fakeStore) UpsertBrand(_ context.Context, b models.Brand) error {
	f.brands = append(f.brands, b)
	return nil
}

func (f *fakeStore) UpsertMachine(_ context.Context, m models.Machine) error {
	f.machines = append(f.machines, m)
	return nil
}

func (f *fakeStore) UpsertAttachment(_ context.Context, a models.Attachment) error {
	f.attachments = append(f.attachments, a)
	return nil
}

func (f *fakeStore) UpsertLibraryExercise(_ context.Context, e models.LibraryExercise) error {
	f.library = append(f.library, e)
	return nil
}

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const catalogYAML = `
brands:
  - name: Hammer Strength
    machines:
      - name: Leg Press
        type: plate loaded
      - id: iso_row
        name: Iso-Lateral Row
        type: plate loaded
        default_weight: 45
attachments:
  - name: V Bar
  - name: Rope
    default_weight: 0
library:
  - name: Bench Press
    type: barbell
  - name: Tricep Pushdown
    type: cable
    default_weight: 20
`

func TestImportCatalogFile(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "catalog.yaml", catalogYAML)

	store := &fakeStore{}
	imp := New(store, nil, slog.Default(), false)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesProcessed != 1 {
		t.Errorf("files_processed=%d, want 1", stats.FilesProcessed)
	}
	if len(store.brands) != 1 {
		t.Fatalf("got %d brands, want 1", len(store.brands))
	}
	if store.brands[0].ID != "hammer_strength" {
		t.Errorf("brand id=%q, want slug of name", store.brands[0].ID)
	}

	if len(store.machines) != 2 {
		t.Fatalf("got %d machines, want 2", len(store.machines))
	}
	if store.machines[0].ID != "leg_press" {
		t.Errorf("machine id=%q, want leg_press", store.machines[0].ID)
	}
	if store.machines[0].Type != "plate loaded" {
		t.Errorf("machine type=%q, want plate loaded", store.machines[0].Type)
	}
	if store.machines[1].ID != "iso_row" {
		t.Errorf("explicit machine id not kept: %q", store.machines[1].ID)
	}
	if !store.machines[1].DefaultStartingWeight.Present || store.machines[1].DefaultStartingWeight.Value != 45 {
		t.Errorf("machine default weight = %+v, want 45", store.machines[1].DefaultStartingWeight)
	}

	if len(store.attachments) != 2 {
		t.Fatalf("got %d attachments, want 2", len(store.attachments))
	}
	if store.attachments[0].DefaultWeight.Present {
		t.Error("absent default_weight should not be present")
	}
	if !store.attachments[1].DefaultWeight.Present || store.attachments[1].DefaultWeight.Value != 0 {
		t.Errorf("explicit zero default_weight lost: %+v", store.attachments[1].DefaultWeight)
	}

	if len(store.library) != 2 {
		t.Fatalf("got %d library exercises, want 2", len(store.library))
	}
	if store.library[0].Type != models.EquipmentBarbell {
		t.Errorf("library type=%q, want barbell", store.library[0].Type)
	}
}

func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "catalog.yaml", catalogYAML)

	store := &fakeStore{}
	imp := New(store, nil, slog.Default(), true)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.BrandsUpserted != 1 || stats.MachinesUpserted != 2 {
		t.Errorf("dry run should still count: %+v", stats)
	}
	if len(store.brands) != 0 || len(store.machines) != 0 {
		t.Error("dry run wrote to the store")
	}
}

func TestImportSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "catalog.yaml", catalogYAML)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	store := &fakeStore{}
	imp := New(store, state, slog.Default(), false)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 1 || stats.FilesSkipped != 0 {
		t.Fatalf("first run: %+v", stats)
	}

	stats, err = imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 0 || stats.FilesSkipped != 1 {
		t.Errorf("second run should skip: %+v", stats)
	}

	// Changing the file re-applies it.
	writeSeedFile(t, dir, "catalog.yaml", catalogYAML+"\n# rev 2\n")
	stats, err = imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 1 {
		t.Errorf("changed file should re-apply: %+v", stats)
	}
}

func TestImportRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "bad.yaml", `
library:
  - name: Mystery Lift
    type: kettlebell
`)

	store := &fakeStore{}
	imp := New(store, nil, slog.Default(), false)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("files_errored=%d, want 1", stats.FilesErrored)
	}
	if len(store.library) != 0 {
		t.Error("bad file should not write")
	}
}
