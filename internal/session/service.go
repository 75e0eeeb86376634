package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/terrapump/internal/catalog"
	"github.com/meltforce/terrapump/internal/models"
	"github.com/meltforce/terrapump/internal/statskey"
)

// Store is the session slice of the document store. GetPreviousStats and
// GetDraft return nil without error when no document exists.
type Store interface {
	GetPreviousStats(ctx context.Context, userID int, key string) (*models.PreviousStats, error)
	PutPreviousStats(ctx context.Context, userID int, key string, stats models.PreviousStats) error
	AppendWorkout(ctx context.Context, userID int, rec models.WorkoutRecord) error
	GetDraft(ctx context.Context, userID int) (*models.WorkoutDraft, error)
	PutDraft(ctx context.Context, userID int, draft models.WorkoutDraft) error
	ClearDraft(ctx context.Context, userID int) error
}

// defaultSeedReps seeds the rep input when no previous stats exist.
const defaultSeedReps = 8

// Service drives one user's workout session: it owns the reducer state
// and sequences the persistence around each transition. Persistence
// failures never roll the in-memory state back; every write is a
// full-state overwrite the user can simply retry.
type Service struct {
	userID  int
	store   Store
	catalog *catalog.Service
	log     *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
}

// NewService creates a session service for one user.
func NewService(userID int, store Store, cat *catalog.Service, log *slog.Logger) *Service {
	return &Service{
		userID:  userID,
		store:   store,
		catalog: cat,
		log:     log,
		now:     time.Now,
		state:   Idle(),
	}
}

// State returns a snapshot of the current reducer state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state)
}

func (s *Service) dispatch(a Action) error {
	next, err := Dispatch(s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Start opens a new session. An empty name defaults to "Workout <date>".
func (s *Service) Start(name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now()
	if name == "" {
		name = "Workout " + at.Format("2006-01-02")
	}
	if err := s.dispatch(Start{Name: name, At: at}); err != nil {
		return s.state, err
	}
	return clone(s.state), nil
}

// Resume restores the saved draft slot, if any.
func (s *Service) Resume(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.store.GetDraft(ctx, s.userID)
	if err != nil {
		return s.state, fmt.Errorf("load draft: %w", err)
	}
	if draft == nil {
		return s.state, ErrNoDraft
	}
	if err := s.dispatch(Resume{Draft: *draft}); err != nil {
		return s.state, err
	}
	return clone(s.state), nil
}

// Discard drops the in-memory session and clears the draft slot. Used
// both to abandon an active session and to dismiss a stale draft left by
// a failed clear during End.
func (s *Service) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ClearDraft(ctx, s.userID); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return s.dispatch(Discard{})
}

// SelectType configures the pending entry's equipment type.
func (s *Service) SelectType(t models.EquipmentType) (State, error) {
	return s.apply(SelectType{Type: t})
}

// SelectExercise configures the pending entry's concrete selection.
func (s *Service) SelectExercise(a SelectExercise) (State, error) {
	return s.apply(a)
}

// SetSetCount sets the pending set count.
func (s *Service) SetSetCount(n int) (State, error) {
	return s.apply(SetSetCount{Count: n})
}

// AddSet increments the pending set count.
func (s *Service) AddSet() (State, error) {
	return s.apply(AddSet{})
}

// RemoveSet decrements the pending set count, a no-op at one.
func (s *Service) RemoveSet() (State, error) {
	return s.apply(RemoveSet{})
}

// RemoveLogged removes one committed entry by index.
func (s *Service) RemoveLogged(index int) (State, error) {
	return s.apply(RemoveLogged{Index: index})
}

func (s *Service) apply(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dispatch(a); err != nil {
		return s.state, err
	}
	return clone(s.state), nil
}

// Seed is the pre-filled input data for the pending exercise: the stats
// key it will be cached under, the set count, and per-set rep/weight
// values derived from previous performance or catalog defaults.
type Seed struct {
	Key      string                `json:"key"`
	Sets     int                   `json:"sets"`
	Reps     models.RepValue       `json:"reps"`
	Weight   models.WeightValue    `json:"weight"`
	Previous *models.PreviousStats `json:"previous,omitempty"`
}

// Seed resolves the input seed for the currently pending selection. The
// default weight comes from the catalog resolution chain; previous stats
// are probed under the canonical key first, then every legacy key
// variant. Catalog failures degrade to the type default, never an error.
func (s *Service) Seed(ctx context.Context) (Seed, error) {
	s.mu.Lock()
	pending := s.state.Pending
	s.mu.Unlock()

	if pending.Exercise == "" {
		return Seed{}, ErrNoPending
	}

	weight := s.defaultWeight(ctx, pending)
	seed := Seed{
		Key:  statskey.BuildKey(pending.Type, pending.Exercise, pending.BrandName, pending.Attachment),
		Sets: 1,
		Reps: repSeed(pending.Unilateral, defaultSeedReps),
	}
	if pending.Unilateral {
		seed.Weight = models.UnilateralWeight(weight, weight)
	} else {
		seed.Weight = models.BilateralWeight(weight)
	}

	prev, err := s.lookupPrevious(ctx, pending)
	if err != nil {
		return Seed{}, err
	}
	if prev == nil {
		return seed, nil
	}

	seed.Previous = prev
	if prev.PrevSets > 0 {
		seed.Sets = prev.PrevSets
	}
	// The cache stores full per-set lists; the seed uses the last set only.
	if n := len(prev.PrevReps); n > 0 && prev.PrevReps[n-1].Unilateral == pending.Unilateral {
		seed.Reps = prev.PrevReps[n-1]
	}
	if n := len(prev.PrevWeight); n > 0 && prev.PrevWeight[n-1].Unilateral == pending.Unilateral {
		seed.Weight = prev.PrevWeight[n-1]
	}
	return seed, nil
}

func repSeed(unilateral bool, reps int) models.RepValue {
	if unilateral {
		return models.UnilateralReps(reps, reps)
	}
	return models.BilateralReps(reps)
}

// defaultWeight runs the catalog resolution chain for the pending
// selection, degrading to the hardcoded type default when the catalog is
// unreachable.
func (s *Service) defaultWeight(ctx context.Context, pending Pending) float64 {
	var (
		lib        *models.LibraryExercise
		machine    *models.Machine
		attachment *models.Attachment
		err        error
	)
	if lib, err = s.catalog.FindLibraryExercise(ctx, pending.Type, pending.Exercise); err != nil {
		s.log.Warn("library lookup failed, using type default", "exercise", pending.Exercise, "error", err)
	}
	if pending.Type.UsesBrand() && pending.BrandID != "" && pending.Machine != "" {
		if machine, err = s.catalog.FindMachine(ctx, pending.BrandID, pending.Machine); err != nil {
			s.log.Warn("machine lookup failed, using type default", "machine", pending.Machine, "error", err)
		}
	}
	if pending.Type.UsesAttachment() && pending.Attachment != "" {
		if attachment, err = s.catalog.FindAttachment(ctx, pending.Attachment); err != nil {
			s.log.Warn("attachment lookup failed, using type default", "attachment", pending.Attachment, "error", err)
		}
	}
	return catalog.StartingWeight(pending.Type, lib, machine, attachment)
}

// lookupPrevious probes the previous-stats cache under every candidate
// key and returns the first hit.
func (s *Service) lookupPrevious(ctx context.Context, pending Pending) (*models.PreviousStats, error) {
	keys := statskey.CandidateKeys(pending.Type, pending.Exercise, pending.BrandName, pending.BrandID, pending.Attachment)
	for _, key := range keys {
		prev, err := s.store.GetPreviousStats(ctx, s.userID, key)
		if err != nil {
			return nil, fmt.Errorf("previous stats %s: %w", key, err)
		}
		if prev != nil {
			return prev, nil
		}
	}
	return nil, nil
}

// Commit validates and appends the entry to the session log, then writes
// the previous-stats cache entry under the canonical key with the full
// per-set lists. The append sticks even when the cache write fails; the
// cache is an optimization, not the record of truth.
func (s *Service) Commit(ctx context.Context, entry models.LoggedExercise) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = s.now()
	}
	if err := s.dispatch(CommitExercise{Entry: entry}); err != nil {
		return s.state, err
	}

	key := statskey.BuildKey(entry.Type, entry.Exercise, entry.Brand, entry.Attachment)
	stats := models.PreviousStats{
		PrevSets:   entry.Sets,
		PrevReps:   entry.Reps,
		PrevWeight: entry.Weights,
		Brand:      entry.Brand,
		Attachment: entry.Attachment,
		UpdatedAt:  s.now(),
	}
	if err := s.store.PutPreviousStats(ctx, s.userID, key, stats); err != nil {
		s.log.Error("previous stats write failed", "key", key, "error", err)
		return clone(s.state), fmt.Errorf("exercise logged but stats cache write failed: %w", err)
	}
	return clone(s.state), nil
}

// SaveProgress persists the full current entries list to the one-slot
// resumable draft, then clears the dirty flag. Only valid when dirty.
func (s *Service) SaveProgress(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != StatusActive {
		return s.state, ErrNoSession
	}
	if !s.state.Dirty {
		return s.state, ErrNotDirty
	}
	if err := s.store.PutDraft(ctx, s.userID, s.state.Draft()); err != nil {
		return s.state, fmt.Errorf("save draft: %w", err)
	}
	if err := s.dispatch(MarkSaved{}); err != nil {
		return s.state, err
	}
	return clone(s.state), nil
}

// End finalizes the session: the workout record is appended to history
// first, the draft slot is cleared only after the append succeeds, and
// the reducer returns to idle. A clear failure leaves a stale draft that
// Resume will surface and Discard can drop; it does not fail the end.
func (s *Service) End(ctx context.Context) (models.WorkoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != StatusActive {
		return models.WorkoutRecord{}, ErrNoSession
	}

	rec := models.WorkoutRecord{
		ID:        uuid.New(),
		Name:      s.state.Name,
		Start:     s.state.StartTime,
		Entries:   cloneEntries(s.state.Entries),
		Timestamp: s.now(),
	}
	if err := s.store.AppendWorkout(ctx, s.userID, rec); err != nil {
		return models.WorkoutRecord{}, fmt.Errorf("append workout record: %w", err)
	}
	if err := s.store.ClearDraft(ctx, s.userID); err != nil {
		s.log.Warn("draft clear failed after workout save; stale draft remains", "error", err)
	}
	if err := s.dispatch(End{}); err != nil {
		return models.WorkoutRecord{}, err
	}
	return rec, nil
}

// Manager hands out one session service per user, created lazily. One
// browser session maps to one reducer instance.
type Manager struct {
	store   Store
	catalog *catalog.Service
	log     *slog.Logger

	mu       sync.Mutex
	sessions map[int]*Service
}

// NewManager creates a session manager.
func NewManager(store Store, cat *catalog.Service, log *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		catalog:  cat,
		log:      log,
		sessions: make(map[int]*Service),
	}
}

// ForUser returns the user's session service, creating it on first use.
func (m *Manager) ForUser(userID int) *Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.sessions[userID]
	if !ok {
		svc = NewService(userID, m.store, m.catalog, m.log)
		m.sessions[userID] = svc
	}
	return svc
}
