package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
)

// Migrator upgrades a raw persisted document to the canonical schema.
// It is injected so the store stays free of schema-history knowledge.
type Migrator interface {
	// Migrate returns the canonical state for raw bytes, or a schema error
	// when the document is unparsable.
	Migrate(raw []byte) foundation.Result[*AppState, *errors.PetError]
	// Default returns a fresh state for first runs and corrupt documents.
	Default() *AppState
}

// Store is the single owner of the canonical AppState. All engines mutate
// through it; every logical transaction is written back before the engine
// reports success. A failed write keeps the in-memory state authoritative
// and is retried on the next mutation.
type Store struct {
	path     string
	migrator Migrator

	mu          sync.RWMutex
	state       *AppState
	lastSaved   foundation.Option[time.Time]
	pendingSave bool
}

// Open loads (and migrates) the state file at path, creating a default
// state on first run. An unparsable document is preserved as a `.backup`
// sibling and replaced with defaults; Open never fails on bad content,
// only on unusable paths.
func Open(path string, migrator Migrator) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	s := &Store{path: path, migrator: migrator}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.state = migrator.Default()
		slog.Info("No state file found, starting fresh", logfields.Path(path))
	case err != nil:
		return nil, fmt.Errorf("read state file: %w", err)
	default:
		result := migrator.Migrate(raw)
		if result.IsErr() {
			slog.Warn("State file is unparsable, regenerating defaults",
				logfields.Path(path), logfields.Error(result.UnwrapErr()))
			s.backupCorrupt(raw)
			s.state = migrator.Default()
		} else {
			s.state = result.Unwrap()
		}
	}

	// Persist immediately so defaults and migrations reach disk.
	if err := s.save(); err != nil {
		slog.Warn("Initial state save failed, continuing in memory",
			logfields.Path(path), logfields.Error(err))
		s.pendingSave = true
	}
	return s, nil
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// LastSaved returns the time of the last successful write, if any.
func (s *Store) LastSaved() foundation.Option[time.Time] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaved
}

// Snapshot returns a deep copy of the current state for read-only use.
func (s *Store) Snapshot() *AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// GetPet returns a copy of the record for petID.
func (s *Store) GetPet(petID string) foundation.Option[PetRecord] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pet, ok := s.state.Pets[petID]
	if !ok {
		return foundation.None[PetRecord]()
	}
	return foundation.Some(*pet)
}

// UpsertPet stores the record and persists the change.
func (s *Store) UpsertPet(pet *PetRecord) foundation.Result[struct{}, *errors.PetError] {
	return s.WithTransaction(func(st *AppState) *errors.PetError {
		st.Pets[pet.ID] = pet
		return nil
	})
}

// DeletePet removes the record and persists the change. Deleting an
// unknown id is a no-op.
func (s *Store) DeletePet(petID string) foundation.Result[struct{}, *errors.PetError] {
	return s.WithTransaction(func(st *AppState) *errors.PetError {
		delete(st.Pets, petID)
		return nil
	})
}

// WithTransaction runs fn against the canonical state under the store
// lock, then persists. If fn returns an error nothing is written and the
// mutation is discarded by convention: fn must not partially mutate on
// failure. A failed write is logged, the memory state stays authoritative,
// and the write is retried on the next transaction.
func (s *Store) WithTransaction(fn func(*AppState) *errors.PetError) foundation.Result[struct{}, *errors.PetError] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return foundation.Err[struct{}, *errors.PetError](err)
	}

	if err := s.save(); err != nil {
		s.pendingSave = true
		slog.Warn("State save failed, keeping in-memory state",
			logfields.Path(s.path), logfields.Error(err))
	} else {
		s.pendingSave = false
	}
	return foundation.Ok[struct{}, *errors.PetError](struct{}{})
}

// SavePending reports whether the last write failed and a retry is due.
func (s *Store) SavePending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingSave
}

// Reload re-reads the state file, used when an external writer (the UI
// process) modified it. Unparsable content keeps the current state.
func (s *Store) Reload() foundation.Result[struct{}, *errors.PetError] {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return foundation.Err[struct{}, *errors.PetError](
			errors.SaveFailed(s.path, err))
	}
	result := s.migrator.Migrate(raw)
	if result.IsErr() {
		return foundation.Err[struct{}, *errors.PetError](result.UnwrapErr())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = result.Unwrap()
	return foundation.Ok[struct{}, *errors.PetError](struct{}{})
}

// save writes the state atomically: marshal, write a temp sibling, rename.
// A crash mid-write never corrupts the canonical file. Callers hold mu.
func (s *Store) save() *errors.PetError {
	s.state.SchemaVersion = SchemaVersion
	s.state.LastSaved = time.Now()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return errors.SaveFailed(s.path, err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return errors.SaveFailed(s.path, err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return errors.SaveFailed(s.path, err)
	}

	s.lastSaved = foundation.Some(time.Now())
	return nil
}

// backupCorrupt preserves the original bytes of an unparsable document as
// a `.backup` sibling before the file is regenerated.
func (s *Store) backupCorrupt(raw []byte) {
	backupPath := s.path + ".backup"
	if err := os.WriteFile(backupPath, raw, 0o644); err != nil {
		slog.Error("Failed to write backup of corrupt state",
			logfields.Path(backupPath), logfields.Error(err))
		return
	}
	slog.Info("Preserved corrupt state file", logfields.Path(backupPath))
}
