package migrate

import (
	"encoding/json"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// decode converts a fully migrated document into the canonical AppState.
// It clamps rather than rejects: a save that drifted out of bounds (edited
// by hand, written by a buggy build) is pulled back inside the invariants
// instead of being thrown away.
func decode(doc map[string]any) foundation.Result[*state.AppState, *errors.PetError] {
	st := &state.AppState{
		SchemaVersion: state.SchemaVersion,
		Pets:          map[string]*state.PetRecord{},
		RewardScheme:  state.SchemeStageTrigger,
		Settings: state.Settings{
			ThemeMode:      "normal",
			AutoTimeSync:   true,
			DayNightMode:   "day",
			DayStartHour:   6,
			NightStartHour: 18,
		},
	}

	if pets, ok := asMap(doc["pets"]); ok {
		for key, raw := range pets {
			entry, ok := asMap(raw)
			if !ok {
				continue
			}
			st.Pets[key] = decodePet(key, entry)
		}
	}

	unlocked, _ := asStringSlice(doc["unlocked_pets"])
	if len(unlocked) == 0 {
		unlocked = sortedPetIDs(doc)
	}
	st.UnlockedPets = dedupe(unlocked)
	if len(st.UnlockedPets) > state.MaxUnlocked {
		st.UnlockedPets = st.UnlockedPets[:state.MaxUnlocked]
	}

	// Every unlocked id has a record; a missing one gets a fresh Dormant.
	for _, id := range st.UnlockedPets {
		if _, ok := st.Pets[id]; ok {
			continue
		}
		sp, tier := resolveSpecies(id)
		rec := state.NewPetRecord(sp, tier)
		rec.ID = id
		st.Pets[id] = rec
	}

	active, _ := asStringSlice(doc["active_pets"])
	for _, id := range dedupe(active) {
		if !st.IsUnlocked(id) {
			continue
		}
		if len(st.ActivePets) == state.MaxActive {
			break
		}
		st.ActivePets = append(st.ActivePets, id)
	}

	if v, ok := asFloat(doc["cumulative_tasks"]); ok && v >= 0 {
		st.CumulativeTasks = int(v)
	}
	if v, ok := asString(doc["reward_scheme"]); ok {
		switch state.RewardScheme(v) {
		case state.SchemeThreshold, state.SchemeStageTrigger:
			st.RewardScheme = state.RewardScheme(v)
		}
	}
	if v, ok := asString(doc["last_rollover"]); ok && v != "" {
		st.LastRollover = foundation.Some(v)
	}

	decodeSettings(doc, &st.Settings)

	if err := st.Validate(); err != nil {
		return foundation.Err[*state.AppState, *errors.PetError](err)
	}
	return foundation.Ok[*state.AppState, *errors.PetError](st)
}

func decodePet(key string, entry map[string]any) *state.PetRecord {
	sp, tier := resolveSpecies(key)
	if v, ok := asString(entry["species_id"]); ok && v != "" {
		if id, known := species.Canonical(v); known {
			sp = id
		} else {
			sp = species.ID(v)
		}
	}
	if v, ok := asFloat(entry["tier"]); ok {
		switch species.Tier(int(v)) {
		case species.Tier1, species.Tier2, species.Tier3:
			tier = species.Tier(int(v))
		}
	}

	rec := state.NewPetRecord(sp, tier)
	rec.ID = key

	if rec.Grows() {
		// Canonical documents carry "stage"; pre-3.5 ones carry "state".
		stageRaw, ok := asFloat(entry["stage"])
		if !ok {
			stageRaw, ok = asFloat(entry["state"])
		}
		if ok {
			stage := state.Stage(int(stageRaw))
			if stage < state.StageDormant {
				stage = state.StageDormant
			}
			if stage > state.StageAdult {
				stage = state.StageAdult
			}
			rec.Stage = foundation.Some(stage)
		}
		progress, ok := asFloat(entry["stage_progress"])
		if !ok {
			progress, ok = asFloat(entry["tasks_progress"])
		}
		if ok && progress >= 0 {
			rec.Progress = int(progress)
		}
	}

	if v, ok := asFloat(entry["tasks_completed_today"]); ok && v >= 0 {
		rec.TasksToday = int(v)
	}
	if list, ok := entry["task_checklist"].([]any); ok && len(list) > 0 {
		checklist := make([]bool, len(list))
		for i, item := range list {
			b, _ := asBool(item)
			checklist[i] = b
		}
		rec.Checklist = checklist
	}
	return rec
}

func decodeSettings(doc map[string]any, out *state.Settings) {
	if settings, ok := asMap(doc["settings"]); ok {
		if v, ok := asString(settings["theme_mode"]); ok && v != "" {
			out.ThemeMode = v
		}
		if v, ok := asBool(settings["auto_time_sync"]); ok {
			out.AutoTimeSync = v
		}
		if v, ok := asString(settings["day_night_mode"]); ok && (v == "day" || v == "night") {
			out.DayNightMode = v
		}
		if v, ok := asFloat(settings["day_start_hour"]); ok && v >= 0 && v < 24 {
			out.DayStartHour = int(v)
		}
		if v, ok := asFloat(settings["night_start_hour"]); ok && v >= 0 && v < 24 {
			out.NightStartHour = int(v)
		}
		if texts, _ := asStringSlice(settings["custom_task_texts"]); len(texts) > 0 {
			out.CustomTaskTexts = texts
		}
	}
	if dayNight, ok := asMap(doc["day_night_settings"]); ok {
		if v, ok := asString(dayNight["current_mode"]); ok && (v == "day" || v == "night") {
			out.DayNightMode = v
		}
		if v, ok := asFloat(dayNight["day_start_hour"]); ok && v >= 0 && v < 24 {
			out.DayStartHour = int(v)
		}
		if v, ok := asFloat(dayNight["night_start_hour"]); ok && v >= 0 && v < 24 {
			out.NightStartHour = int(v)
		}
		if v, ok := asBool(dayNight["auto_time_sync"]); ok {
			out.AutoTimeSync = v
		}
	}
	if texts, _ := asStringSlice(doc["custom_task_texts"]); len(texts) > 0 {
		out.CustomTaskTexts = texts
	}
}

// resolveSpecies maps a persisted pet key to its catalog species and tier.
// Unknown keys decode as growthless tier-3 records so no save data is lost.
func resolveSpecies(key string) (species.ID, species.Tier) {
	id, ok := species.Canonical(key)
	if !ok {
		return species.ID(key), species.Tier3
	}
	info, _ := species.Get(id)
	return id, info.Tier
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// deepCopy clones a JSON document through a marshal round trip. Step
// functions copy before touching anything so the chain stays pure.
func deepCopy(doc map[string]any) map[string]any {
	data, err := json.Marshal(doc)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asStringSlice(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func toAnySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
