package eventstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/RICHELLysS/PufferPet/internal/engine"
	"github.com/RICHELLysS/PufferPet/internal/species"
)

func testEvent(t engine.EventType, petID string, sp species.ID, at time.Time) engine.Event {
	return engine.Event{
		ID:      uuid.NewString(),
		Type:    t,
		PetID:   petID,
		Species: sp,
		Kind:    "lootbox_new",
		At:      at,
	}
}

func TestSQLiteJournal_AppendAndGetByPet(t *testing.T) {
	j, err := NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	first := testEvent(engine.EventRewardGranted, "jelly", species.Jelly, now)
	require.NoError(t, j.Append(ctx, first))
	require.NoError(t, j.Append(ctx, testEvent(engine.EventStageTransitioned, "puffer", species.Puffer, now)))
	require.NoError(t, j.Append(ctx, testEvent(engine.EventRewardGranted, "jelly", species.Jelly, now.Add(time.Minute))))

	records, err := j.GetByPet(ctx, "jelly")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, first.ID, records[0].EventID)
	require.Equal(t, string(engine.EventRewardGranted), records[0].Type)
	require.True(t, records[0].Seq < records[1].Seq, "sequence numbers are monotonic")

	var decoded engine.Event
	require.NoError(t, json.Unmarshal(records[0].Payload, &decoded))
	require.Equal(t, first.ID, decoded.ID)
	require.Equal(t, species.Jelly, decoded.Species)
	require.Equal(t, "lootbox_new", decoded.Kind)
}

func TestSQLiteJournal_GetRange(t *testing.T) {
	j, err := NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ev := testEvent(engine.EventRewardGranted, "crab", species.Crab, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, j.Append(ctx, ev))
	}

	records, err := j.GetRange(ctx, base.Add(time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestSQLiteJournal_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(path)
	require.NoError(t, err)
	ev := testEvent(engine.EventPetReleased, "crab", species.Crab, time.Now())
	require.NoError(t, j.Append(context.Background(), ev))
	require.NoError(t, j.Close())

	// Reopen and read back.
	j2, err := NewSQLiteJournal(path)
	require.NoError(t, err)
	defer j2.Close()
	records, err := j2.GetByPet(context.Background(), "crab")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, ev.ID, records[0].EventID)
}
