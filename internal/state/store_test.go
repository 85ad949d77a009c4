package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/species"
)

// stubMigrator parses canonical documents only; anything else is a schema
// error. The real chain lives in the migrate package.
type stubMigrator struct{}

func (stubMigrator) Migrate(raw []byte) foundation.Result[*AppState, *errors.PetError] {
	var st AppState
	if err := json.Unmarshal(raw, &st); err != nil {
		return foundation.Err[*AppState, *errors.PetError](errors.SchemaCorrupt("test", err))
	}
	if st.Pets == nil {
		st.Pets = map[string]*PetRecord{}
	}
	return foundation.Ok[*AppState, *errors.PetError](&st)
}

func (stubMigrator) Default() *AppState {
	return NewDefaultState()
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := Open(path, stubMigrator{})
	require.NoError(t, err)
	return store, path
}

func TestOpen_FreshStateHasStarter(t *testing.T) {
	store, path := openTestStore(t)

	snap := store.Snapshot()
	starter := string(species.Starter())
	require.Equal(t, []string{starter}, snap.UnlockedPets)
	require.Equal(t, []string{starter}, snap.ActivePets)
	require.Contains(t, snap.Pets, starter)
	require.Equal(t, StageDormant, snap.Pets[starter].Stage.Unwrap())

	// Defaults reach disk immediately.
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestOpen_CorruptFileBackedUpAndRegenerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	original := []byte("{not json at all")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	store, err := Open(path, stubMigrator{})
	require.NoError(t, err)
	require.NotNil(t, store.Snapshot())

	backup, err := os.ReadFile(path + ".backup")
	require.NoError(t, err)
	require.Equal(t, original, backup, "backup must preserve the original bytes verbatim")

	// The canonical file now parses.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
}

func TestUpsertAndGetPet(t *testing.T) {
	store, _ := openTestStore(t)

	record := NewPetRecord(species.Crab, species.Tier2)
	require.True(t, store.UpsertPet(record).IsOk())

	got := store.GetPet("crab")
	require.True(t, got.IsSome())
	require.Equal(t, species.Crab, got.Unwrap().Species)

	require.True(t, store.GetPet("kraken").IsNone())
}

func TestDeletePet(t *testing.T) {
	store, _ := openTestStore(t)

	record := NewPetRecord(species.Jelly, species.Tier2)
	require.True(t, store.UpsertPet(record).IsOk())
	require.True(t, store.DeletePet("jelly").IsOk())
	require.True(t, store.GetPet("jelly").IsNone())

	// Unknown ids are a no-op.
	require.True(t, store.DeletePet("kraken").IsOk())
}

func TestWithTransaction_ErrorDiscardsSave(t *testing.T) {
	store, path := openTestStore(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	result := store.WithTransaction(func(st *AppState) *errors.PetError {
		return errors.CollectionFull(MaxUnlocked)
	})
	require.True(t, result.IsErr())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after, "a failed transaction must not write")
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := Open(path, stubMigrator{})
	require.NoError(t, err)

	result := store.WithTransaction(func(st *AppState) *errors.PetError {
		st.CumulativeTasks = 7
		st.Settings.CustomTaskTexts = []string{"water the kelp"}
		return nil
	})
	require.True(t, result.IsOk())

	reopened, err := Open(path, stubMigrator{})
	require.NoError(t, err)
	snap := reopened.Snapshot()
	require.Equal(t, 7, snap.CumulativeTasks)
	require.Equal(t, []string{"water the kelp"}, snap.Settings.CustomTaskTexts)
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	store, path := openTestStore(t)

	// Replace the state file with a directory so the rename fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))

	result := store.WithTransaction(func(st *AppState) *errors.PetError {
		st.CumulativeTasks = 3
		return nil
	})
	require.True(t, result.IsOk(), "write failures are logged, not surfaced")
	require.True(t, store.SavePending())
	require.Equal(t, 3, store.Snapshot().CumulativeTasks)

	// Once the path is usable again the next mutation lands on disk.
	require.NoError(t, os.Remove(path))
	result = store.WithTransaction(func(st *AppState) *errors.PetError {
		st.CumulativeTasks = 4
		return nil
	})
	require.True(t, result.IsOk())
	require.False(t, store.SavePending())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc AppState
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, 4, doc.CumulativeTasks)
}

func TestValidate(t *testing.T) {
	st := NewDefaultState()
	require.Nil(t, st.Validate())

	t.Run("active must be unlocked", func(t *testing.T) {
		bad := st.Clone()
		bad.ActivePets = append(bad.ActivePets, "ghost")
		require.NotNil(t, bad.Validate())
	})

	t.Run("tier3 never carries a stage", func(t *testing.T) {
		bad := st.Clone()
		rec := NewPetRecord(species.Ray, species.Tier3)
		rec.Stage = foundation.Some(StageBaby)
		bad.Pets["ray"] = rec
		require.NotNil(t, bad.Validate())
	})

	t.Run("caps", func(t *testing.T) {
		bad := st.Clone()
		for i := 0; i < MaxUnlocked+1; i++ {
			bad.UnlockedPets = append(bad.UnlockedPets, string(rune('a'+i)))
		}
		require.NotNil(t, bad.Validate())
	})
}

func TestTier3RecordSerializesNullStage(t *testing.T) {
	rec := NewPetRecord(species.Ray, species.Tier3)
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Contains(t, string(data), `"stage":null`)

	var decoded PetRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.Stage.IsNone())
	require.False(t, decoded.Grows())
}
