// Package reward converts completed tasks into new creatures. Two schemes
// are supported, selected by the reward_scheme flag in the persisted state:
// a lifetime-counter threshold that fires a judgement every twelve
// completions, and a stage trigger that opens one lootbox per Adult
// transition. All randomness flows through an injected source, so every
// draw is reproducible in tests.
package reward

import (
	"log/slog"

	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

const (
	// JudgementEvery is the lifetime-counter threshold of the threshold
	// scheme. The counter resets to zero after every judgement.
	JudgementEvery = 12
	// UnlockChance is the judgement split: draws below it unlock a locked
	// tier-2 species, draws at or above it open a lootbox.
	UnlockChance = 0.70
)

// RNG is the injected randomness source. *rand.Rand from math/rand/v2
// satisfies it directly.
type RNG interface {
	Float64() float64
	IntN(n int) int
}

// Kind classifies the outcome of a judgement or lootbox.
type Kind string

const (
	// KindUnlock is a judgement that unlocked a locked tier-2 species.
	KindUnlock Kind = "unlock"
	// KindLootboxNew is a lootbox draw that materialized a new pet.
	KindLootboxNew Kind = "lootbox_new"
	// KindDuplicate is a lootbox draw of an already-owned species; the
	// existing pet restarts from Dormant instead of a second copy.
	KindDuplicate Kind = "duplicate_reset"
	// KindSkip is a judgement with nothing left to unlock.
	KindSkip Kind = "skip"
	// KindDropped is a reward discarded because the collection is full.
	KindDropped Kind = "dropped"
)

// Grant is the outcome of one reward draw. Species is empty for KindSkip;
// Roll is zero for outcomes that did not involve a lootbox.
type Grant struct {
	Kind    Kind
	Species species.ID
	Roll    int
}

// Engine runs the reward economy against an AppState. It mutates the
// state in place; callers run it inside a store transaction.
type Engine struct {
	rng   RNG
	table []entry
	total int
}

type entry struct {
	id  species.ID
	cum int
}

// New builds an engine with a precomputed cumulative-weight table over the
// roster in draw order.
func New(rng RNG) *Engine {
	e := &Engine{rng: rng}
	for _, id := range species.Roster() {
		info, _ := species.Get(id)
		e.total += info.GachaWeight
		e.table = append(e.table, entry{id: id, cum: e.total})
	}
	return e
}

// TotalWeight returns the sum of the roster's draw weights.
func (e *Engine) TotalWeight() int {
	return e.total
}

// Draw maps a roll in [1, TotalWeight] to a species: the first table entry
// whose cumulative weight reaches the roll. Deterministic by construction.
func (e *Engine) Draw(roll int) species.ID {
	for _, ent := range e.table {
		if roll <= ent.cum {
			return ent.id
		}
	}
	return e.table[len(e.table)-1].id
}

// OnTaskCompleted advances the lifetime counter and, under the threshold
// scheme, fires a judgement when it reaches the threshold. Under the
// stage-trigger scheme the counter is bookkeeping only.
func (e *Engine) OnTaskCompleted(st *state.AppState) foundation.Option[Grant] {
	st.CumulativeTasks++
	if st.RewardScheme != state.SchemeThreshold {
		return foundation.None[Grant]()
	}
	if st.CumulativeTasks < JudgementEvery {
		return foundation.None[Grant]()
	}
	st.CumulativeTasks = 0
	return foundation.Some(e.judge(st))
}

// OnAdultTransition fires one lootbox under the stage-trigger scheme.
// The threshold scheme ignores stage transitions.
func (e *Engine) OnAdultTransition(st *state.AppState) foundation.Option[Grant] {
	if st.RewardScheme != state.SchemeStageTrigger {
		return foundation.None[Grant]()
	}
	return foundation.Some(e.OpenLootbox(st))
}

// OpenLootbox performs one weighted draw over the roster and materializes
// the result.
func (e *Engine) OpenLootbox(st *state.AppState) Grant {
	roll := 1 + e.rng.IntN(e.total)
	id := e.Draw(roll)
	grant := e.materialize(st, id, roll, KindLootboxNew)
	slog.Info("Lootbox opened",
		logfields.Roll(grant.Roll),
		logfields.Species(string(grant.Species)),
		logfields.Event(string(grant.Kind)))
	return grant
}

// judge is the threshold scheme's split draw: below UnlockChance it
// unlocks one uniformly chosen locked tier-2 species, otherwise it opens
// a lootbox. With no locked tier-2 species left the unlock branch is a
// skip, not a re-roll.
func (e *Engine) judge(st *state.AppState) Grant {
	if e.rng.Float64() >= UnlockChance {
		return e.OpenLootbox(st)
	}

	locked := lockedTier2(st)
	if len(locked) == 0 {
		slog.Info("Judgement fired with nothing left to unlock")
		return Grant{Kind: KindSkip}
	}
	pick := locked[e.rng.IntN(len(locked))]
	grant := e.materialize(st, pick, 0, KindUnlock)
	slog.Info("Judgement unlocked a species",
		logfields.Species(string(grant.Species)),
		logfields.Event(string(grant.Kind)))
	return grant
}

// materialize turns a drawn species into state: a duplicate restarts the
// existing pet from Dormant, a full collection drops the reward, otherwise
// a fresh record joins the unlocked collection (stored, not active).
func (e *Engine) materialize(st *state.AppState, id species.ID, roll int, kind Kind) Grant {
	petID := string(id)
	if st.IsUnlocked(petID) {
		if pet, ok := st.Pets[petID]; ok && pet.Grows() {
			pet.Stage = foundation.Some(state.StageDormant)
			pet.Progress = 0
		}
		// A re-drawn pet comes back on screen when a slot is free.
		if !st.IsActive(petID) && len(st.ActivePets) < state.MaxActive {
			st.ActivePets = append(st.ActivePets, petID)
		}
		return Grant{Kind: KindDuplicate, Species: id, Roll: roll}
	}
	if len(st.UnlockedPets) >= state.MaxUnlocked {
		return Grant{Kind: KindDropped, Species: id, Roll: roll}
	}

	info, _ := species.Get(id)
	rec := state.NewPetRecord(id, info.Tier)
	st.Pets[petID] = rec
	st.UnlockedPets = append(st.UnlockedPets, petID)
	return Grant{Kind: kind, Species: id, Roll: roll}
}

func lockedTier2(st *state.AppState) []species.ID {
	var out []species.ID
	for _, id := range species.Roster() {
		info, _ := species.Get(id)
		if info.Tier == species.Tier2 && !st.IsUnlocked(string(id)) {
			out = append(out, id)
		}
	}
	return out
}
