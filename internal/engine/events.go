package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// EventType identifies what an emitted engine event reports.
type EventType string

const (
	EventStageTransitioned EventType = "stage_transitioned"
	EventRewardGranted     EventType = "reward_granted"
	EventCollectionFull    EventType = "collection_full"
	EventActiveFull        EventType = "active_full"
	EventPetReleased       EventType = "pet_released"
	EventEncounterFound    EventType = "encounter_found"
	EventDayRolledOver     EventType = "day_rolled_over"
)

// Event is one fact reported to the UI and the journal after an operation
// committed. Fields beyond Type are populated where they apply.
type Event struct {
	ID      string       `json:"id"`
	Type    EventType    `json:"type"`
	PetID   string       `json:"pet_id,omitempty"`
	Species species.ID   `json:"species_id,omitempty"`
	Tier    species.Tier `json:"tier,omitempty"`
	From    string       `json:"from_stage,omitempty"`
	To      string       `json:"to_stage,omitempty"`
	// Kind carries the grant outcome for reward events ("unlock",
	// "lootbox_new", "duplicate_reset", "encounter", "dropped").
	Kind string    `json:"kind,omitempty"`
	Roll int       `json:"roll,omitempty"`
	At   time.Time `json:"at"`
}

// Sink receives events after the transaction that produced them has been
// persisted. Handlers must not call back into the engine synchronously.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// emitter accumulates events during a transaction so they are dispatched
// only after the state has been persisted.
type emitter struct {
	now    time.Time
	events []Event
}

func (em *emitter) add(ev Event) {
	ev.ID = uuid.NewString()
	ev.At = em.now
	em.events = append(em.events, ev)
}

func (em *emitter) stageTransitioned(petID string, sp species.ID, from, to state.Stage) {
	em.add(Event{
		Type:    EventStageTransitioned,
		PetID:   petID,
		Species: sp,
		From:    from.String(),
		To:      to.String(),
	})
}

func (em *emitter) rewardGranted(sp species.ID, tier species.Tier, kind string, roll int) {
	em.add(Event{
		Type:    EventRewardGranted,
		PetID:   string(sp),
		Species: sp,
		Tier:    tier,
		Kind:    kind,
		Roll:    roll,
	})
}
