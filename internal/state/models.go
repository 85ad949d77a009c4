package state

import (
	"slices"
	"time"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/species"
)

// SchemaVersion is the canonical persisted-document version. The migrator
// upgrades every older document to this version; newer versions are treated
// as already canonical.
const SchemaVersion = "5.5"

// Collection limits.
const (
	MaxUnlocked = 20
	MaxActive   = 5
)

// DefaultDailyTasks is the checklist length when no custom task texts are set.
const DefaultDailyTasks = 3

// Stage is the growth phase of a non-Tier3 pet.
type Stage int

const (
	StageDormant Stage = 0
	StageBaby    Stage = 1
	StageAdult   Stage = 2
)

func (s Stage) String() string {
	switch s {
	case StageDormant:
		return "dormant"
	case StageBaby:
		return "baby"
	case StageAdult:
		return "adult"
	default:
		return "unknown"
	}
}

// RewardScheme selects how completed tasks convert into rewards.
type RewardScheme string

const (
	// SchemeThreshold fires a judgement every 12 lifetime completions.
	SchemeThreshold RewardScheme = "threshold"
	// SchemeStageTrigger fires one lootbox per Adult transition.
	SchemeStageTrigger RewardScheme = "stage_trigger"
)

// PetRecord is the persisted state of one owned creature.
type PetRecord struct {
	ID      string       `json:"id"`
	Species species.ID   `json:"species_id"`
	Tier    species.Tier `json:"tier"`
	// Stage is None for Tier3 records, which never enter the growth machine.
	Stage foundation.Option[Stage] `json:"stage"`
	// TasksToday is the display counter; it resets on day rollover and can
	// go down when a checkbox is unchecked.
	TasksToday int `json:"tasks_completed_today"`
	// Checklist mirrors the task window checkboxes for the current day.
	Checklist []bool `json:"task_checklist"`
	// Progress counts tasks toward the next stage. It resets on each stage
	// transition, not on rollover.
	Progress int `json:"stage_progress"`
}

// Grows reports whether the record participates in the growth machine.
func (p *PetRecord) Grows() bool {
	return p.Tier != species.Tier3 && p.Stage.IsSome()
}

// Settings are user preferences carried inside the state document.
type Settings struct {
	ThemeMode       string   `json:"theme_mode"`
	AutoTimeSync    bool     `json:"auto_time_sync"`
	DayNightMode    string   `json:"day_night_mode"`
	DayStartHour    int      `json:"day_start_hour"`
	NightStartHour  int      `json:"night_start_hour"`
	CustomTaskTexts []string `json:"custom_task_texts"`
}

// AppState is the canonical in-memory state; the single source of truth.
type AppState struct {
	SchemaVersion   string                `json:"version"`
	UnlockedPets    []string              `json:"unlocked_pets"`
	ActivePets      []string              `json:"active_pets"`
	Pets            map[string]*PetRecord `json:"pets"`
	CumulativeTasks int                   `json:"cumulative_tasks"`
	RewardScheme    RewardScheme          `json:"reward_scheme"`
	Settings        Settings              `json:"settings"`
	// LastRollover is the local date ("2006-01-02") of the last day
	// rollover, so the periodic tick is idempotent within a day.
	LastRollover foundation.Option[string] `json:"last_rollover"`
	LastSaved    time.Time                 `json:"last_saved"`
}

// NewDefaultState builds a fresh state with the starter unlocked, active,
// and Dormant.
func NewDefaultState() *AppState {
	starter := species.Starter()
	info, _ := species.Get(starter)
	record := NewPetRecord(starter, info.Tier)

	return &AppState{
		SchemaVersion: SchemaVersion,
		UnlockedPets:  []string{string(starter)},
		ActivePets:    []string{string(starter)},
		Pets:          map[string]*PetRecord{string(starter): record},
		RewardScheme:  SchemeStageTrigger,
		Settings: Settings{
			ThemeMode:      "normal",
			AutoTimeSync:   true,
			DayNightMode:   "day",
			DayStartHour:   6,
			NightStartHour: 18,
		},
	}
}

// NewPetRecord builds a Dormant record for a species. Tier3 records carry
// no stage.
func NewPetRecord(id species.ID, tier species.Tier) *PetRecord {
	stage := foundation.Some(StageDormant)
	if tier == species.Tier3 {
		stage = foundation.None[Stage]()
	}
	return &PetRecord{
		ID:        string(id),
		Species:   id,
		Tier:      tier,
		Stage:     stage,
		Checklist: make([]bool, DefaultDailyTasks),
	}
}

// DailyTaskCount returns the checklist length for the current settings.
func (s *AppState) DailyTaskCount() int {
	if n := len(s.Settings.CustomTaskTexts); n > 0 {
		return n
	}
	return DefaultDailyTasks
}

// IsUnlocked reports whether the pet id is in the unlocked collection.
func (s *AppState) IsUnlocked(petID string) bool {
	return slices.Contains(s.UnlockedPets, petID)
}

// IsActive reports whether the pet id is in the active set.
func (s *AppState) IsActive(petID string) bool {
	return slices.Contains(s.ActivePets, petID)
}

// Validate re-checks the global invariants. It is called after every
// engine operation; a violation means a bug, not a user error.
func (s *AppState) Validate() *errors.PetError {
	if len(s.UnlockedPets) > MaxUnlocked {
		return errors.New(errors.CategoryInternal, errors.SeverityError, "unlocked collection exceeds limit").
			WithContext("count", len(s.UnlockedPets))
	}
	if len(s.ActivePets) > MaxActive {
		return errors.New(errors.CategoryInternal, errors.SeverityError, "active set exceeds limit").
			WithContext("count", len(s.ActivePets))
	}
	for _, id := range s.ActivePets {
		if !s.IsUnlocked(id) {
			return errors.New(errors.CategoryInternal, errors.SeverityError, "active pet is not unlocked").
				WithContext("pet_id", id)
		}
	}
	for id, pet := range s.Pets {
		if pet.Tier == species.Tier3 && pet.Stage.IsSome() {
			return errors.New(errors.CategoryInternal, errors.SeverityError, "tier-3 record carries a stage").
				WithContext("pet_id", id)
		}
		if pet.Stage.IsSome() {
			stage := pet.Stage.Unwrap()
			if stage < StageDormant || stage > StageAdult {
				return errors.New(errors.CategoryInternal, errors.SeverityError, "stage out of range").
					WithContext("pet_id", id).
					WithContext("stage", int(stage))
			}
		}
	}
	return nil
}

// Clone returns a deep copy, used by tests and the migrator's idempotence
// checks.
func (s *AppState) Clone() *AppState {
	out := *s
	out.UnlockedPets = slices.Clone(s.UnlockedPets)
	out.ActivePets = slices.Clone(s.ActivePets)
	out.Settings.CustomTaskTexts = slices.Clone(s.Settings.CustomTaskTexts)
	out.Pets = make(map[string]*PetRecord, len(s.Pets))
	for id, pet := range s.Pets {
		cp := *pet
		cp.Checklist = slices.Clone(pet.Checklist)
		out.Pets[id] = &cp
	}
	return &out
}
