package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// StateWatcher monitors the state file for external writes (the UI process
// shares the file) and reloads the store when one lands. Reloading after
// our own atomic save is harmless: the migrated content round-trips.
type StateWatcher struct {
	statePath    string
	store        *state.Store
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
}

// NewStateWatcher creates a watcher for the store's state file.
func NewStateWatcher(store *state.Store) (*StateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(store.Path())
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve state path: %w", err)
	}

	return &StateWatcher{
		statePath:    absPath,
		store:        store,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // Debounce rapid file changes
	}, nil
}

// Start begins monitoring the state file.
func (sw *StateWatcher) Start(ctx context.Context) error {
	// Watch the directory containing the state file (more reliable than
	// watching the file directly across renames).
	stateDir := filepath.Dir(sw.statePath)
	if err := sw.watcher.Add(stateDir); err != nil {
		return fmt.Errorf("failed to watch state directory %s: %w", stateDir, err)
	}

	slog.Info("Starting state file watcher", logfields.Path(sw.statePath))

	go sw.watchLoop(ctx)
	go sw.reloadLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (sw *StateWatcher) Stop(ctx context.Context) error {
	slog.Info("Stopping state file watcher")
	close(sw.stopChan)
	return sw.watcher.Close()
}

func (sw *StateWatcher) watchLoop(ctx context.Context) {
	stateFile := filepath.Base(sw.statePath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.stopChan:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != stateFile {
				continue
			}

			switch {
			case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Rename):
				sw.triggerReload()
			case event.Op.Has(fsnotify.Remove):
				slog.Warn("State file removed", logfields.Path(event.Name))
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("State watcher error", logfields.Error(err))
		}
	}
}

// triggerReload coalesces bursts of events into one pending reload.
func (sw *StateWatcher) triggerReload() {
	select {
	case sw.reloadChan <- struct{}{}:
	default:
	}
}

func (sw *StateWatcher) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sw.stopChan:
			return
		case <-sw.reloadChan:
			// Let the writer finish before reading.
			select {
			case <-time.After(sw.debounceTime):
			case <-ctx.Done():
				return
			case <-sw.stopChan:
				return
			}

			if result := sw.store.Reload(); result.IsErr() {
				slog.Warn("State reload failed, keeping current state",
					logfields.Error(result.UnwrapErr()))
			} else {
				slog.Debug("State reloaded after external write")
			}
		}
	}
}
