package growth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

func TestRecordTask_DefaultSpeciesReachesAdultInThree(t *testing.T) {
	rec := state.NewPetRecord(species.Jelly, species.Tier2)

	first := RecordTask(rec)
	require.True(t, first.IsSome())
	require.Equal(t, state.StageDormant, first.Unwrap().From)
	require.Equal(t, state.StageBaby, first.Unwrap().To)
	require.Equal(t, 0, rec.Progress, "progress resets on transition")

	require.True(t, RecordTask(rec).IsNone())
	third := RecordTask(rec)
	require.True(t, third.IsSome())
	require.Equal(t, state.StageAdult, third.Unwrap().To)
	require.Equal(t, 3, rec.TasksToday)
}

func TestRecordTask_RayNeedsFive(t *testing.T) {
	rec := state.NewPetRecord(species.Ray, species.Tier2)
	require.Equal(t, 5, TotalToAdult(species.Ray))

	transitions := 0
	for i := 0; i < 5; i++ {
		if RecordTask(rec).IsSome() {
			transitions++
		}
	}
	require.Equal(t, 2, transitions)
	require.Equal(t, state.StageAdult, rec.Stage.Unwrap())

	// Task two leaves Dormant, task five reaches Adult.
	fresh := state.NewPetRecord(species.Ray, species.Tier2)
	require.True(t, RecordTask(fresh).IsNone())
	require.Equal(t, state.StageBaby, RecordTask(fresh).Unwrap().To)
}

func TestRecordTask_AdultAbsorbsWithoutGrowing(t *testing.T) {
	rec := state.NewPetRecord(species.Crab, species.Tier2)
	for i := 0; i < 3; i++ {
		RecordTask(rec)
	}
	require.Equal(t, state.StageAdult, rec.Stage.Unwrap())

	require.True(t, RecordTask(rec).IsNone())
	require.Equal(t, state.StageAdult, rec.Stage.Unwrap())
	require.Equal(t, 0, rec.Progress)
	require.Equal(t, 4, rec.TasksToday, "the display counter still moves")
}

func TestRecordTask_GrowthlessRecordOnlyCounts(t *testing.T) {
	rec := state.NewPetRecord("kraken", species.Tier3)
	require.True(t, RecordTask(rec).IsNone())
	require.True(t, rec.Stage.IsNone())
	require.Equal(t, 1, rec.TasksToday)
	require.Equal(t, 0, Required(rec))
}

func TestUnrecordTask_ClampsAndKeepsStage(t *testing.T) {
	rec := state.NewPetRecord(species.Jelly, species.Tier2)
	RecordTask(rec) // Dormant -> Baby
	RecordTask(rec) // banks one task toward Adult

	UnrecordTask(rec)
	require.Equal(t, 1, rec.TasksToday)
	require.Equal(t, state.StageBaby, rec.Stage.Unwrap(), "transitions never roll back")
	require.Equal(t, 0, rec.Progress, "banked progress steps back down")

	UnrecordTask(rec)
	UnrecordTask(rec)
	require.Equal(t, 0, rec.TasksToday, "the counters clamp at zero")
	require.Equal(t, 0, rec.Progress)
}

func TestRequired(t *testing.T) {
	rec := state.NewPetRecord(species.Ray, species.Tier2)
	require.Equal(t, 2, Required(rec))

	RecordTask(rec)
	require.Equal(t, 1, Required(rec))
	RecordTask(rec)
	require.Equal(t, 3, Required(rec), "baby rays need three more")

	for i := 0; i < 3; i++ {
		RecordTask(rec)
	}
	require.Equal(t, 0, Required(rec), "adults need nothing")
}

func TestRollover(t *testing.T) {
	rec := state.NewPetRecord(species.Puffer, species.Tier1)
	RecordTask(rec)
	rec.Checklist = []bool{true, false, true}

	Rollover(rec, 4)
	require.Equal(t, 0, rec.TasksToday)
	require.Equal(t, []bool{false, false, false, false}, rec.Checklist)
	require.Equal(t, state.StageBaby, rec.Stage.Unwrap(), "stage survives the day boundary")
}
