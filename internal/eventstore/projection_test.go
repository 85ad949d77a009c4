package eventstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RICHELLysS/PufferPet/internal/engine"
	"github.com/RICHELLysS/PufferPet/internal/species"
)

func TestRewardHistoryProjection_Apply(t *testing.T) {
	p := NewRewardHistoryProjection(nil, 10)
	now := time.Now()

	p.Apply(testEvent(engine.EventRewardGranted, "jelly", species.Jelly, now))
	p.Apply(testEvent(engine.EventRewardGranted, "ray", species.Ray, now.Add(time.Minute)))
	p.Apply(testEvent(engine.EventStageTransitioned, "puffer", species.Puffer, now))
	p.Apply(testEvent(engine.EventCollectionFull, "", species.Crab, now))
	p.Apply(testEvent(engine.EventPetReleased, "jelly", species.Jelly, now))

	s := p.Summary()
	require.Equal(t, 2, s.TotalGrants)
	require.Equal(t, 2, s.GrantsByKind["lootbox_new"])
	require.Equal(t, 1, s.GrantsBySpecies["ray"])
	require.Equal(t, 1, s.StageTransitions)
	require.Equal(t, 1, s.DroppedRewards)
	require.Equal(t, 1, s.Releases)
	require.NotNil(t, s.LastGrantAt)

	recent := p.Recent()
	require.Len(t, recent, 3, "grants and drops are kept, transitions are not")
	require.Equal(t, engine.EventCollectionFull, recent[0].Type, "newest first")
}

func TestRewardHistoryProjection_RebuildFromJournal(t *testing.T) {
	j, err := NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	now := time.Now().Truncate(time.Second)
	require.NoError(t, j.Append(ctx, testEvent(engine.EventRewardGranted, "jelly", species.Jelly, now)))
	require.NoError(t, j.Append(ctx, testEvent(engine.EventRewardGranted, "crab", species.Crab, now)))

	p := NewRewardHistoryProjection(j, 10)
	require.NoError(t, p.Rebuild(ctx))

	s := p.Summary()
	require.Equal(t, 2, s.TotalGrants)
	require.Equal(t, 1, s.GrantsBySpecies["jelly"])
	require.False(t, p.LastSyncTime().IsZero())
}

func TestRewardHistoryProjection_EmptyHistory(t *testing.T) {
	j, err := NewSQLiteJournal(":memory:")
	require.NoError(t, err)
	defer j.Close()

	p := NewRewardHistoryProjection(j, 10)
	require.NoError(t, p.Rebuild(context.Background()))

	// A fresh install has no grants; readers check the nil pointer before
	// formatting the timestamp.
	s := p.Summary()
	require.Zero(t, s.TotalGrants)
	require.Nil(t, s.LastGrantAt)
	require.Empty(t, p.Recent())
}

func TestRewardHistoryProjection_RecentIsBounded(t *testing.T) {
	p := NewRewardHistoryProjection(nil, 3)
	for i := 0; i < 6; i++ {
		p.Apply(testEvent(engine.EventRewardGranted, "jelly", species.Jelly, time.Now()))
	}
	require.Len(t, p.Recent(), 3)
	require.Equal(t, 6, p.Summary().TotalGrants)
}
