// Package catalog serves the admin-curated equipment hierarchy (brands,
// machines, cable attachments, and the generic exercise library) with a
// per-process cache, and resolves default starting weights for the
// workout-logging form.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/meltforce/terrapump/internal/models"
)

// Store is the catalog slice of the document store.
type Store interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListMachines(ctx context.Context, brandID string) ([]models.Machine, error)
	ListAttachments(ctx context.Context) ([]models.Attachment, error)
	ListLibraryExercises(ctx context.Context) ([]models.LibraryExercise, error)

	UpsertBrand(ctx context.Context, b models.Brand) error
	DeleteBrand(ctx context.Context, id string) error
	UpsertMachine(ctx context.Context, m models.Machine) error
	DeleteMachine(ctx context.Context, brandID, id string) error
	UpsertAttachment(ctx context.Context, a models.Attachment) error
	DeleteAttachment(ctx context.Context, name string) error
	UpsertLibraryExercise(ctx context.Context, e models.LibraryExercise) error
	DeleteLibraryExercise(ctx context.Context, name string) error
}

// Service reads the catalog through a cache that lives until Refresh is
// called. Catalog reads back the logging form, so callers that build
// candidate lists treat errors as "empty catalog" and keep free-text entry
// available (see Candidates).
type Service struct {
	store Store
	log   *slog.Logger

	mu          sync.Mutex
	brands      []models.Brand
	brandsOK    bool
	machines    map[string][]models.Machine
	attachments []models.Attachment
	attachOK    bool
	library     []models.LibraryExercise
	libraryOK   bool
}

// NewService creates a catalog service over the given store.
func NewService(store Store, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		log:      log,
		machines: make(map[string][]models.Machine),
	}
}

// Refresh drops the cache so the next read revalidates against the store.
func (s *Service) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = nil
	s.brandsOK = false
	s.machines = make(map[string][]models.Machine)
	s.attachments = nil
	s.attachOK = false
	s.library = nil
	s.libraryOK = false
}

// Brands lists all brands, cached.
func (s *Service) Brands(ctx context.Context) ([]models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.brandsOK {
		return s.brands, nil
	}
	brands, err := s.store.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	s.brands, s.brandsOK = brands, true
	return brands, nil
}

// Machines lists one brand's machines, cached per brand.
func (s *Service) Machines(ctx context.Context, brandID string) ([]models.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if machines, ok := s.machines[brandID]; ok {
		return machines, nil
	}
	machines, err := s.store.ListMachines(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("list machines for %s: %w", brandID, err)
	}
	s.machines[brandID] = machines
	return machines, nil
}

// MachinesForType lists one brand's machines matching the equipment type's
// machine document type ("machine" or "plate loaded").
func (s *Service) MachinesForType(ctx context.Context, brandID string, t models.EquipmentType) ([]models.Machine, error) {
	machines, err := s.Machines(ctx, brandID)
	if err != nil {
		return nil, err
	}
	docType := t.MachineDocType()
	var filtered []models.Machine
	for _, m := range machines {
		if m.Type == docType {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// Attachments lists all cable attachments, cached.
func (s *Service) Attachments(ctx context.Context) ([]models.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attachOK {
		return s.attachments, nil
	}
	attachments, err := s.store.ListAttachments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	s.attachments, s.attachOK = attachments, true
	return attachments, nil
}

// Library lists the generic exercise library, cached.
func (s *Service) Library(ctx context.Context) ([]models.LibraryExercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.libraryOK {
		return s.library, nil
	}
	library, err := s.store.ListLibraryExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list library exercises: %w", err)
	}
	s.library, s.libraryOK = library, true
	return library, nil
}

// LibraryFor lists library exercises of one equipment type.
func (s *Service) LibraryFor(ctx context.Context, t models.EquipmentType) ([]models.LibraryExercise, error) {
	library, err := s.Library(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []models.LibraryExercise
	for _, e := range library {
		if e.Type == t {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Candidates describes the selectable options for an equipment type. A
// catalog fetch failure degrades to empty lists with Degraded set; the
// form keeps free-text exercise entry available either way.
type Candidates struct {
	Brands      []models.Brand           `json:"brands,omitempty"`
	Machines    []models.Machine         `json:"machines,omitempty"`
	Attachments []models.Attachment      `json:"attachments,omitempty"`
	Library     []models.LibraryExercise `json:"library"`
	Degraded    bool                     `json:"degraded,omitempty"`
}

// CandidatesFor assembles the selection options for an equipment type,
// degrading to empty lists when the catalog is unreachable.
func (s *Service) CandidatesFor(ctx context.Context, t models.EquipmentType, brandID string) Candidates {
	var c Candidates

	library, err := s.LibraryFor(ctx, t)
	if err != nil {
		s.log.Warn("catalog unavailable, degrading to free-text entry", "part", "library", "error", err)
		c.Degraded = true
	}
	c.Library = library

	if t.UsesBrand() {
		brands, err := s.Brands(ctx)
		if err != nil {
			s.log.Warn("catalog unavailable, degrading to free-text entry", "part", "brands", "error", err)
			c.Degraded = true
		}
		c.Brands = brands
		if brandID != "" {
			machines, err := s.MachinesForType(ctx, brandID, t)
			if err != nil {
				s.log.Warn("catalog unavailable, degrading to free-text entry", "part", "machines", "error", err)
				c.Degraded = true
			}
			c.Machines = machines
		}
	}

	if t.UsesAttachment() {
		attachments, err := s.Attachments(ctx)
		if err != nil {
			s.log.Warn("catalog unavailable, degrading to free-text entry", "part", "attachments", "error", err)
			c.Degraded = true
		}
		c.Attachments = attachments
	}

	return c
}

// FindBrand resolves a brand by id or display name, tolerating the
// title-cased display spellings historical records used.
func (s *Service) FindBrand(ctx context.Context, idOrName string) (*models.Brand, error) {
	brands, err := s.Brands(ctx)
	if err != nil {
		return nil, err
	}
	for i := range brands {
		if brands[i].ID == idOrName ||
			strings.EqualFold(brands[i].Name, idOrName) ||
			strings.EqualFold(strings.ReplaceAll(brands[i].ID, "_", " "), idOrName) {
			return &brands[i], nil
		}
	}
	return nil, nil
}

// FindMachine resolves a machine by name within a brand.
func (s *Service) FindMachine(ctx context.Context, brandID, name string) (*models.Machine, error) {
	machines, err := s.Machines(ctx, brandID)
	if err != nil {
		return nil, err
	}
	for i := range machines {
		if strings.EqualFold(machines[i].Name, name) {
			return &machines[i], nil
		}
	}
	return nil, nil
}

// FindAttachment resolves an attachment by name.
func (s *Service) FindAttachment(ctx context.Context, name string) (*models.Attachment, error) {
	attachments, err := s.Attachments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range attachments {
		if strings.EqualFold(attachments[i].Name, name) {
			return &attachments[i], nil
		}
	}
	return nil, nil
}

// FindLibraryExercise resolves a library entry by name and type.
func (s *Service) FindLibraryExercise(ctx context.Context, t models.EquipmentType, name string) (*models.LibraryExercise, error) {
	library, err := s.Library(ctx)
	if err != nil {
		return nil, err
	}
	for i := range library {
		if library[i].Type == t && strings.EqualFold(library[i].Name, name) {
			return &library[i], nil
		}
	}
	return nil, nil
}

// Admin mutations pass straight through to the store and invalidate the
// cache. Machine deletion is a blind remove; nothing checks for in-flight
// references.

func (s *Service) UpsertBrand(ctx context.Context, b models.Brand) error {
	if err := s.store.UpsertBrand(ctx, b); err != nil {
		return fmt.Errorf("upsert brand: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if err := s.store.DeleteBrand(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) UpsertMachine(ctx context.Context, m models.Machine) error {
	if err := s.store.UpsertMachine(ctx, m); err != nil {
		return fmt.Errorf("upsert machine: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) DeleteMachine(ctx context.Context, brandID, id string) error {
	if err := s.store.DeleteMachine(ctx, brandID, id); err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) UpsertAttachment(ctx context.Context, a models.Attachment) error {
	if err := s.store.UpsertAttachment(ctx, a); err != nil {
		return fmt.Errorf("upsert attachment: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) DeleteAttachment(ctx context.Context, name string) error {
	if err := s.store.DeleteAttachment(ctx, name); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) UpsertLibraryExercise(ctx context.Context, e models.LibraryExercise) error {
	if err := s.store.UpsertLibraryExercise(ctx, e); err != nil {
		return fmt.Errorf("upsert library exercise: %w", err)
	}
	s.Refresh()
	return nil
}

func (s *Service) DeleteLibraryExercise(ctx context.Context, name string) error {
	if err := s.store.DeleteLibraryExercise(ctx, name); err != nil {
		return fmt.Errorf("delete library exercise: %w", err)
	}
	s.Refresh()
	return nil
}
