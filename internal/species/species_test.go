package species

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRosterWeightsSumToHundred(t *testing.T) {
	require.Equal(t, 100, TotalWeight())
}

func TestEveryRosterEntryHasCatalogInfo(t *testing.T) {
	for _, id := range Roster() {
		info, ok := Get(id)
		require.True(t, ok, "roster id %s missing from catalog", id)
		require.Positive(t, info.GachaWeight)
		require.Positive(t, info.DormantToBaby)
		require.Positive(t, info.BabyToAdult)
	}
}

func TestGrowthThresholds(t *testing.T) {
	ray, _ := Get(Ray)
	require.Equal(t, 2, ray.DormantToBaby)
	require.Equal(t, 3, ray.BabyToAdult)

	for _, id := range []ID{Puffer, Jelly, Crab, Starfish} {
		info, _ := Get(id)
		require.Equal(t, 1, info.DormantToBaby, "species %s", id)
		require.Equal(t, 2, info.BabyToAdult, "species %s", id)
	}
}

func TestStarter(t *testing.T) {
	info, ok := Get(Starter())
	require.True(t, ok)
	require.True(t, info.Starter)
	require.Equal(t, Tier1, info.Tier)
}

func TestCanonical(t *testing.T) {
	id, ok := Canonical("puffer")
	require.True(t, ok)
	require.Equal(t, Puffer, id)

	id, ok = Canonical("jellyfish")
	require.True(t, ok)
	require.Equal(t, Jelly, id)

	id, ok = Canonical("mantaray")
	require.True(t, ok)
	require.Equal(t, Ray, id)

	_, ok = Canonical("kraken")
	require.False(t, ok)
}

func TestSize(t *testing.T) {
	require.Equal(t, 100, Size(Puffer, false))
	require.Equal(t, 150, Size(Puffer, true))
	require.Equal(t, 150, Size(Ray, false))
	require.Equal(t, 225, Size(Ray, true))
}
