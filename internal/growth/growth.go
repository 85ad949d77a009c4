// Package growth is the pet stage machine: Dormant -> Baby -> Adult,
// driven by completed tasks. Pure domain logic; records are mutated in
// place and persistence is the caller's concern.
package growth

import (
	"log/slog"

	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// Transition records one stage advance.
type Transition struct {
	PetID string
	From  state.Stage
	To    state.Stage
}

// Required returns how many more completed tasks the record needs to reach
// its next stage. Adults and growthless records return 0.
func Required(rec *state.PetRecord) int {
	if !rec.Grows() {
		return 0
	}
	info, ok := species.Get(rec.Species)
	if !ok {
		return 0
	}

	switch rec.Stage.Unwrap() {
	case state.StageDormant:
		return max(info.DormantToBaby-rec.Progress, 0)
	case state.StageBaby:
		return max(info.BabyToAdult-rec.Progress, 0)
	default:
		return 0
	}
}

// TotalToAdult returns the lifetime task count a fresh record needs to
// reach Adult.
func TotalToAdult(id species.ID) int {
	info, ok := species.Get(id)
	if !ok {
		return 0
	}
	return info.DormantToBaby + info.BabyToAdult
}

// RecordTask credits one completed task to the record and advances its
// stage when the threshold is met. Progress resets on each transition so
// the next stage starts from zero. Adults absorb tasks without growing.
func RecordTask(rec *state.PetRecord) foundation.Option[Transition] {
	rec.TasksToday++

	if !rec.Grows() {
		return foundation.None[Transition]()
	}
	stage := rec.Stage.Unwrap()
	if stage == state.StageAdult {
		return foundation.None[Transition]()
	}

	rec.Progress++
	if Required(rec) > 0 {
		return foundation.None[Transition]()
	}

	next := stage + 1
	rec.Stage = foundation.Some(next)
	rec.Progress = 0
	slog.Info("Pet advanced a stage",
		logfields.PetID(rec.ID), logfields.Stage(next.String()))

	return foundation.Some(Transition{PetID: rec.ID, From: stage, To: next})
}

// UnrecordTask reverses an unchecked box: the display counter and banked
// stage progress both step down, clamped at zero. A transition that
// already happened is never rolled back; stages are one-way.
func UnrecordTask(rec *state.PetRecord) {
	if rec.TasksToday > 0 {
		rec.TasksToday--
	}
	if rec.Progress > 0 {
		rec.Progress--
	}
}

// Rollover resets the record's daily counters for a new day. Stage and
// stage progress carry over.
func Rollover(rec *state.PetRecord, checklistLen int) {
	rec.TasksToday = 0
	rec.Checklist = make([]bool, checklistLen)
}
