// Package seed imports equipment catalog documents from YAML files into
// the database. Files may be applied repeatedly; unchanged files are
// skipped via a local SQLite state database.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/terrapump/internal/models"
	"github.com/meltforce/terrapump/internal/statskey"
)

// Store is the catalog write surface the importer needs.
type Store interface {
	UpsertBrand(ctx context.Context, b models.Brand) error
	UpsertMachine(ctx context.Context, m models.Machine) error
	UpsertAttachment(ctx context.Context, a models.Attachment) error
	UpsertLibraryExercise(ctx context.Context, e models.LibraryExercise) error
}

// Stats summarizes one import run.
type Stats struct {
	FilesProcessed      int
	FilesSkipped        int
	FilesErrored        int
	BrandsUpserted      int
	MachinesUpserted    int
	AttachmentsUpserted int
	LibraryUpserted     int
}

// seedFile is the YAML document schema. Any section may be absent.
type seedFile struct {
	Brands      []seedBrand    `yaml:"brands"`
	Attachments []seedWeighted `yaml:"attachments"`
	Library     []seedExercise `yaml:"library"`
}

type seedBrand struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Machines []seedMachine `yaml:"machines"`
}

type seedMachine struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Subtype       string   `yaml:"subtype"`
	DefaultWeight *float64 `yaml:"default_weight"`
}

type seedWeighted struct {
	Name          string   `yaml:"name"`
	DefaultWeight *float64 `yaml:"default_weight"`
}

type seedExercise struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Subtype       string   `yaml:"subtype"`
	DefaultWeight *float64 `yaml:"default_weight"`
}

// Importer applies seed files to the catalog store.
type Importer struct {
	store  Store
	state  *StateDB
	log    *slog.Logger
	dryRun bool
}

// New creates an Importer. state may be nil, in which case every file is
// applied unconditionally.
func New(store Store, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, state: state, log: log, dryRun: dryRun}
}

// Import walks dir for .yaml/.yml files and applies each one. Files are
// processed in lexical order so brand files can precede machine overrides.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	stats := &Stats{}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walking seed dir %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}

		skip, size, hash, err := imp.alreadyApplied(path, relPath)
		if err != nil {
			imp.log.Error("seed state check failed", "file", relPath, "error", err)
			stats.FilesErrored++
			continue
		}
		if skip {
			stats.FilesSkipped++
			continue
		}

		if err := imp.applyFile(ctx, path, stats); err != nil {
			imp.log.Error("seed file failed", "file", relPath, "error", err)
			stats.FilesErrored++
			continue
		}
		stats.FilesProcessed++

		if imp.state != nil && !imp.dryRun {
			if err := imp.state.MarkApplied(relPath, size, hash); err != nil {
				imp.log.Warn("failed to record seed state", "file", relPath, "error", err)
			}
		}
	}

	return stats, nil
}

func (imp *Importer) alreadyApplied(path, relPath string) (bool, int64, string, error) {
	if imp.state == nil {
		return false, 0, "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, 0, "", err
	}
	hash, err := HashFile(path)
	if err != nil {
		return false, 0, "", err
	}
	applied, err := imp.state.IsApplied(relPath, info.Size(), hash)
	if err != nil {
		return false, 0, "", err
	}
	return applied, info.Size(), hash, nil
}

func (imp *Importer) applyFile(ctx context.Context, path string, stats *Stats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}

	for _, sb := range doc.Brands {
		brand, machines, err := convertBrand(sb)
		if err != nil {
			return err
		}
		if !imp.dryRun {
			if err := imp.store.UpsertBrand(ctx, brand); err != nil {
				return fmt.Errorf("brand %s: %w", brand.ID, err)
			}
		}
		stats.BrandsUpserted++

		for _, m := range machines {
			if !imp.dryRun {
				if err := imp.store.UpsertMachine(ctx, m); err != nil {
					return fmt.Errorf("machine %s/%s: %w", m.BrandID, m.ID, err)
				}
			}
			stats.MachinesUpserted++
		}
	}

	for _, sa := range doc.Attachments {
		if sa.Name == "" {
			return fmt.Errorf("attachment with empty name")
		}
		a := models.Attachment{Name: sa.Name, DefaultWeight: flexOf(sa.DefaultWeight)}
		if !imp.dryRun {
			if err := imp.store.UpsertAttachment(ctx, a); err != nil {
				return fmt.Errorf("attachment %s: %w", a.Name, err)
			}
		}
		stats.AttachmentsUpserted++
	}

	for _, se := range doc.Library {
		e, err := convertExercise(se)
		if err != nil {
			return err
		}
		if !imp.dryRun {
			if err := imp.store.UpsertLibraryExercise(ctx, e); err != nil {
				return fmt.Errorf("library exercise %s: %w", e.Name, err)
			}
		}
		stats.LibraryUpserted++
	}

	return nil
}

func convertBrand(sb seedBrand) (models.Brand, []models.Machine, error) {
	if sb.Name == "" {
		return models.Brand{}, nil, fmt.Errorf("brand with empty name")
	}
	id := sb.ID
	if id == "" {
		id = statskey.Slugify(sb.Name)
	}
	brand := models.Brand{ID: id, Name: sb.Name}

	machines := make([]models.Machine, 0, len(sb.Machines))
	for _, sm := range sb.Machines {
		if sm.Name == "" {
			return models.Brand{}, nil, fmt.Errorf("brand %s: machine with empty name", id)
		}
		mt, err := models.ParseEquipmentType(sm.Type)
		if err != nil {
			return models.Brand{}, nil, fmt.Errorf("brand %s machine %s: %w", id, sm.Name, err)
		}
		docType := mt.MachineDocType()
		if docType == "" {
			return models.Brand{}, nil, fmt.Errorf("brand %s machine %s: type %s has no machine records", id, sm.Name, sm.Type)
		}
		mid := sm.ID
		if mid == "" {
			mid = statskey.Slugify(sm.Name)
		}
		machines = append(machines, models.Machine{
			ID:                    mid,
			BrandID:               id,
			Name:                  sm.Name,
			Type:                  docType,
			Subtype:               sm.Subtype,
			DefaultStartingWeight: flexOf(sm.DefaultWeight),
		})
	}
	return brand, machines, nil
}

func convertExercise(se seedExercise) (models.LibraryExercise, error) {
	if se.Name == "" {
		return models.LibraryExercise{}, fmt.Errorf("library exercise with empty name")
	}
	et, err := models.ParseEquipmentType(se.Type)
	if err != nil {
		return models.LibraryExercise{}, fmt.Errorf("library exercise %s: %w", se.Name, err)
	}
	return models.LibraryExercise{
		Name:          se.Name,
		Type:          et,
		Subtype:       se.Subtype,
		DefaultWeight: flexOf(se.DefaultWeight),
	}, nil
}

func flexOf(v *float64) models.FlexFloat {
	if v == nil {
		return models.FlexFloat{}
	}
	return models.Flex(*v)
}
