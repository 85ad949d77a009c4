package daemon

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RICHELLysS/PufferPet/internal/config"
	"github.com/RICHELLysS/PufferPet/internal/migrate"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

func TestScheduler_ScheduleAndStop(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	id, err := s.SchedulePeriodic("day-rollover", time.Hour, func() {})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	ctx := context.Background()
	s.Start(ctx)
	require.NoError(t, s.Stop(ctx))
}

func TestApplyOverrides(t *testing.T) {
	store, err := state.Open(filepath.Join(t.TempDir(), "data.json"), migrate.New())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.RewardScheme = string(state.SchemeThreshold)
	cfg.CustomTaskTexts = []string{"feed the reef"}
	require.Nil(t, applyOverrides(store, cfg))

	snap := store.Snapshot()
	require.Equal(t, state.SchemeThreshold, snap.RewardScheme)
	require.Equal(t, []string{"feed the reef"}, snap.Settings.CustomTaskTexts)

	// No overrides set leaves the state alone.
	require.Nil(t, applyOverrides(store, config.Default()))
	require.Equal(t, state.SchemeThreshold, store.Snapshot().RewardScheme)
}

func TestStateWatcher_ReloadOnExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := state.Open(path, migrate.New())
	require.NoError(t, err)

	sw, err := NewStateWatcher(store)
	require.NoError(t, err)
	sw.debounceTime = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, sw.Start(ctx))
	defer sw.Stop(context.Background())

	// Simulate the UI process bumping the lifetime counter on disk.
	external := store.Snapshot()
	external.CumulativeTasks = 42
	raw, err := json.Marshal(external)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	require.Eventually(t, func() bool {
		return store.Snapshot().CumulativeTasks == 42
	}, 5*time.Second, 50*time.Millisecond, "external write should be picked up")
}
