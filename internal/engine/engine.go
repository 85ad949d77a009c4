// Package engine is the synchronous facade the UI layer talks to. Every
// operation runs to completion inside one store transaction, re-checks the
// global invariants, persists, and only then dispatches events to the
// registered sinks. The engine is single-threaded by design and must not
// be re-entered from within an event handler.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/growth"
	"github.com/RICHELLysS/PufferPet/internal/inventory"
	"github.com/RICHELLysS/PufferPet/internal/metrics"
	"github.com/RICHELLysS/PufferPet/internal/reward"
	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// EncounterChance is the probability that a periodic encounter check
// surfaces a wild creature.
const EncounterChance = 0.30

// Engine wires the growth, reward and inventory engines to the store.
type Engine struct {
	store    *state.Store
	rewards  *reward.Engine
	rng      reward.RNG
	recorder metrics.Recorder
	sinks    []Sink
	clock    func() time.Time

	// busy rejects re-entrant calls from event handlers. No mutex: the
	// engine runs inside a single event loop.
	busy bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder installs a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock overrides the time source, used by tests and the rollover job.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithSink registers an event sink at construction time.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sinks = append(e.sinks, s) }
}

// New builds the facade around an opened store. All randomness (lootbox
// rolls, judgement splits, encounter checks) flows through rng.
func New(store *state.Store, rng reward.RNG, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		rewards:  reward.New(rng),
		rng:      rng,
		recorder: metrics.NoopRecorder{},
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers a sink for all future events.
func (e *Engine) Subscribe(s Sink) {
	e.sinks = append(e.sinks, s)
}

// Store exposes the underlying store for read paths (status output).
func (e *Engine) Store() *state.Store {
	return e.store
}

// OnTaskToggled reports a checkbox change for one pet's task. Checking
// advances growth and may fire rewards; unchecking steps the counters back
// down. Toggling to the already-recorded value is a no-op.
func (e *Engine) OnTaskToggled(petID string, taskIndex int, checked bool) foundation.Result[[]Event, *errors.PetError] {
	return e.run("task_toggled", func(st *state.AppState, em *emitter) *errors.PetError {
		pet, ok := st.Pets[petID]
		if !ok {
			return errors.PetNotFound(petID)
		}
		syncChecklist(pet, st.DailyTaskCount())
		if taskIndex < 0 || taskIndex >= len(pet.Checklist) {
			return errors.New(errors.CategoryGrowth, errors.SeverityWarning, "task index out of range").
				WithContext("pet_id", petID).
				WithContext("task_index", taskIndex)
		}
		if pet.Checklist[taskIndex] == checked {
			return nil
		}
		pet.Checklist[taskIndex] = checked

		if !checked {
			growth.UnrecordTask(pet)
			return nil
		}

		e.recorder.IncTaskCompleted()
		if tr := growth.RecordTask(pet); tr.IsSome() {
			t := tr.Unwrap()
			em.stageTransitioned(petID, pet.Species, t.From, t.To)
			if t.To == state.StageAdult && st.IsActive(petID) {
				if grant := e.rewards.OnAdultTransition(st); grant.IsSome() {
					applyGrant(em, grant.Unwrap())
				}
			}
		}
		if grant := e.rewards.OnTaskCompleted(st); grant.IsSome() {
			applyGrant(em, grant.Unwrap())
		}
		return nil
	})
}

// OnDayTick runs the once-per-day rollover and refreshes the day/night
// mode. It is called every minute and is an idempotent no-op when neither
// the date nor the mode changed.
func (e *Engine) OnDayTick() foundation.Result[[]Event, *errors.PetError] {
	now := e.clock()
	today := now.Format("2006-01-02")

	snap := e.store.Snapshot()
	rolledToday := snap.LastRollover.IsSome() && snap.LastRollover.Unwrap() == today
	mode := dayNightMode(snap.Settings, now)
	modeCurrent := !snap.Settings.AutoTimeSync || snap.Settings.DayNightMode == mode
	if rolledToday && modeCurrent {
		return okEvents(nil)
	}

	return e.run("day_tick", func(st *state.AppState, em *emitter) *errors.PetError {
		if !(st.LastRollover.IsSome() && st.LastRollover.Unwrap() == today) {
			n := st.DailyTaskCount()
			for _, pet := range st.Pets {
				growth.Rollover(pet, n)
			}
			st.LastRollover = foundation.Some(today)
			em.add(Event{Type: EventDayRolledOver})
		}
		if st.Settings.AutoTimeSync {
			st.Settings.DayNightMode = dayNightMode(st.Settings, now)
		}
		return nil
	})
}

// OnReleaseRequested permanently destroys a pet. The UI confirms with the
// user before calling; the engine only enforces starter protection.
func (e *Engine) OnReleaseRequested(petID string) foundation.Result[[]Event, *errors.PetError] {
	return e.run("release", func(st *state.AppState, em *emitter) *errors.PetError {
		var sp species.ID
		if rec, ok := st.Pets[petID]; ok {
			sp = rec.Species
		}
		if res := inventory.Release(st, petID); res.IsErr() {
			return res.UnwrapErr()
		}
		em.add(Event{Type: EventPetReleased, PetID: petID, Species: sp})
		return nil
	})
}

// OnSummonRequested moves a stored pet into the active set. A full active
// set is reported as a typed ActiveFull result and an ActiveFull event.
func (e *Engine) OnSummonRequested(petID string) foundation.Result[[]Event, *errors.PetError] {
	result := e.run("summon", func(st *state.AppState, _ *emitter) *errors.PetError {
		if res := inventory.Activate(st, petID); res.IsErr() {
			return res.UnwrapErr()
		}
		return nil
	})
	if result.IsErr() && errors.IsReason(result.UnwrapErr(), errors.ReasonActiveFull) {
		e.dispatchGuarded([]Event{{
			ID:    uuid.NewString(),
			Type:  EventActiveFull,
			PetID: petID,
			At:    e.clock(),
		}})
	}
	return result
}

// OnDiveRequested sends an active pet back to storage. Always succeeds;
// diving a stored pet changes nothing.
func (e *Engine) OnDiveRequested(petID string) foundation.Result[[]Event, *errors.PetError] {
	return e.run("dive", func(st *state.AppState, _ *emitter) *errors.PetError {
		inventory.Deactivate(st, petID)
		return nil
	})
}

// OnEncounterTick is the periodic wild-encounter check: with probability
// EncounterChance it picks one uniformly chosen locked species and surfaces
// it as an EncounterFound event. Nothing is unlocked until the user accepts.
// Outside its window (no locked species, full collection, losing roll) it
// is a no-op.
func (e *Engine) OnEncounterTick() foundation.Result[[]Event, *errors.PetError] {
	if e.busy {
		return failEvents(errors.ReentrantCall("encounter_tick"))
	}
	e.busy = true
	defer func() { e.busy = false }()

	snap := e.store.Snapshot()
	locked := lockedSpecies(snap)
	if len(locked) == 0 || !inventory.CanAdd(snap) {
		return okEvents(nil)
	}
	if e.rng.Float64() >= EncounterChance {
		return okEvents(nil)
	}

	pick := locked[e.rng.IntN(len(locked))]
	info, _ := species.Get(pick)
	ev := Event{
		ID:      uuid.NewString(),
		Type:    EventEncounterFound,
		Species: pick,
		Tier:    info.Tier,
		At:      e.clock(),
	}
	e.recorder.IncEncounterFound()
	e.dispatch([]Event{ev})
	return okEvents([]Event{ev})
}

// OnEncounterAccepted unlocks an encountered species after the user chose
// to capture it. The new pet joins the active set when a slot is free.
func (e *Engine) OnEncounterAccepted(rawSpecies string) foundation.Result[[]Event, *errors.PetError] {
	id, known := species.Canonical(rawSpecies)
	if !known {
		return failEvents(errors.UnknownSpecies(rawSpecies))
	}

	result := e.run("encounter_accepted", func(st *state.AppState, em *emitter) *errors.PetError {
		res := inventory.AddToCollection(st, id)
		if res.IsErr() {
			return res.UnwrapErr()
		}
		if len(st.ActivePets) < state.MaxActive {
			if act := inventory.Activate(st, string(id)); act.IsErr() {
				return act.UnwrapErr()
			}
		}
		info, _ := species.Get(id)
		em.rewardGranted(id, info.Tier, "encounter", 0)
		return nil
	})
	if result.IsErr() && errors.IsReason(result.UnwrapErr(), errors.ReasonCollectionFull) {
		e.dispatchGuarded([]Event{{
			ID:      uuid.NewString(),
			Type:    EventCollectionFull,
			Species: id,
			At:      e.clock(),
		}})
	}
	return result
}

// OpenLootbox performs one direct lootbox draw, the manual gacha path.
func (e *Engine) OpenLootbox() foundation.Result[[]Event, *errors.PetError] {
	return e.run("lootbox", func(st *state.AppState, em *emitter) *errors.PetError {
		applyGrant(em, e.rewards.OpenLootbox(st))
		return nil
	})
}

// run executes one operation inside a store transaction. Events are
// dispatched only after the transaction committed; a failed operation
// mutates nothing and emits nothing. The busy guard stays up through
// dispatch so handlers cannot re-enter.
func (e *Engine) run(op string, fn func(*state.AppState, *emitter) *errors.PetError) foundation.Result[[]Event, *errors.PetError] {
	if e.busy {
		return failEvents(errors.ReentrantCall(op))
	}
	e.busy = true
	defer func() { e.busy = false }()

	started := time.Now()
	em := &emitter{now: e.clock()}
	result := e.store.WithTransaction(func(st *state.AppState) *errors.PetError {
		if err := fn(st, em); err != nil {
			return err
		}
		return st.Validate()
	})
	e.recorder.ObserveOperationDuration(op, time.Since(started))

	if result.IsErr() {
		e.recorder.IncOperationResult(op, false)
		return failEvents(result.UnwrapErr())
	}
	e.recorder.IncOperationResult(op, true)
	if e.store.SavePending() {
		e.recorder.IncSaveFailure()
	}

	snap := e.store.Snapshot()
	e.recorder.SetCollectionSize(len(snap.UnlockedPets), len(snap.ActivePets))
	e.dispatch(em.events)
	return okEvents(em.events)
}

func (e *Engine) dispatch(events []Event) {
	for _, ev := range events {
		switch ev.Type {
		case EventStageTransitioned:
			e.recorder.IncStageTransition(ev.To)
		case EventRewardGranted:
			e.recorder.IncRewardGrant(metrics.GrantLabel(ev.Kind))
		case EventCollectionFull:
			e.recorder.IncRewardGrant(metrics.GrantDropped)
		}
		for _, sink := range e.sinks {
			sink.Emit(ev)
		}
	}
}

// dispatchGuarded delivers events produced outside run, keeping the
// re-entrancy guard up while handlers execute.
func (e *Engine) dispatchGuarded(events []Event) {
	e.busy = true
	defer func() { e.busy = false }()
	e.dispatch(events)
}

// applyGrant translates a reward outcome into events. The state mutation
// already happened inside the reward engine.
func applyGrant(em *emitter, grant reward.Grant) {
	switch grant.Kind {
	case reward.KindUnlock, reward.KindLootboxNew, reward.KindDuplicate:
		info, _ := species.Get(grant.Species)
		em.rewardGranted(grant.Species, info.Tier, string(grant.Kind), grant.Roll)
	case reward.KindDropped:
		em.add(Event{
			Type:    EventCollectionFull,
			Species: grant.Species,
			Kind:    string(grant.Kind),
			Roll:    grant.Roll,
		})
	case reward.KindSkip:
		// Nothing to report.
	}
}

// syncChecklist resizes a pet's checklist after the task list changed
// length, preserving existing checks.
func syncChecklist(pet *state.PetRecord, n int) {
	if len(pet.Checklist) == n {
		return
	}
	next := make([]bool, n)
	copy(next, pet.Checklist)
	pet.Checklist = next
}

// dayNightMode derives the mode from the configured boundary hours.
func dayNightMode(s state.Settings, now time.Time) string {
	hour := now.Hour()
	day, night := s.DayStartHour, s.NightStartHour
	// Equal boundaries degenerate to a day that never ends.
	if day == night {
		return "day"
	}
	if day < night {
		if hour >= day && hour < night {
			return "day"
		}
		return "night"
	}
	// Inverted boundaries: day wraps around midnight.
	if hour >= day || hour < night {
		return "day"
	}
	return "night"
}

func lockedSpecies(st *state.AppState) []species.ID {
	var out []species.ID
	for _, id := range species.Roster() {
		if !st.IsUnlocked(string(id)) {
			out = append(out, id)
		}
	}
	return out
}

func okEvents(events []Event) foundation.Result[[]Event, *errors.PetError] {
	return foundation.Ok[[]Event, *errors.PetError](events)
}

func failEvents(err *errors.PetError) foundation.Result[[]Event, *errors.PetError] {
	return foundation.Err[[]Event, *errors.PetError](err)
}
