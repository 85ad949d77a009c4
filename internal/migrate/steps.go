package migrate

import (
	"sort"

	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// steps returns the upgrade ladder in order. Append new steps at the end;
// never edit a shipped one.
func steps() []Step {
	return []Step{
		{From: V1, To: V2, Apply: liftSinglePet},
		{From: V2, To: V3, Apply: addInventory},
		{From: V3, To: V3_5, Apply: addTiersAndAliases},
		{From: V3_5, To: V4, Apply: addCustomization},
		{From: V4, To: V5, Apply: addDayNight},
		{From: V5, To: V5_5, Apply: addRewardScheme},
	}
}

// liftSinglePet (v1 -> v2) lifts the original flat single-pet document
// into the multi-pet model. The flat fields stay in place; the new pets
// map carries a copy under the starter id.
func liftSinglePet(doc map[string]any) map[string]any {
	out := deepCopy(doc)
	if _, ok := out["pets"]; ok {
		return out
	}

	pet := map[string]any{
		"state":          float64(0),
		"tasks_progress": float64(0),
	}
	if v, ok := asFloat(out["state"]); ok {
		pet["state"] = v
	}
	if v, ok := asFloat(out["tasks_progress"]); ok {
		pet["tasks_progress"] = v
	}
	out["pets"] = map[string]any{
		string(species.Starter()): pet,
	}
	return out
}

// addInventory (v2 -> v3) introduces the unlocked/active partitioning and
// the lifetime task counter.
func addInventory(doc map[string]any) map[string]any {
	out := deepCopy(doc)

	if _, ok := out["unlocked_pets"]; !ok {
		out["unlocked_pets"] = toAnySlice(sortedPetIDs(out))
	}
	if _, ok := out["active_pets"]; !ok {
		unlocked, _ := asStringSlice(out["unlocked_pets"])
		if len(unlocked) > state.MaxActive {
			unlocked = unlocked[:state.MaxActive]
		}
		out["active_pets"] = toAnySlice(unlocked)
	}
	if _, ok := out["cumulative_tasks"]; !ok {
		out["cumulative_tasks"] = float64(0)
	}
	return out
}

// addTiersAndAliases (v3 -> v3.5) stamps each pet record with its tier and
// canonical species id. Legacy filename ids resolve through the alias
// table; ids the catalog has never heard of are preserved as tier-3
// records so no creature is lost.
func addTiersAndAliases(doc map[string]any) map[string]any {
	out := deepCopy(doc)
	pets, ok := asMap(out["pets"])
	if !ok {
		return out
	}

	for key, raw := range pets {
		pet, ok := asMap(raw)
		if !ok {
			continue
		}
		if _, ok := pet["species_id"]; !ok {
			if id, known := species.Canonical(key); known {
				pet["species_id"] = string(id)
			} else {
				pet["species_id"] = key
			}
		}
		if _, ok := pet["tier"]; !ok {
			pet["tier"] = float64(tierFor(key))
		}
	}
	return out
}

// addCustomization (v4) introduces custom task texts and theme settings.
func addCustomization(doc map[string]any) map[string]any {
	out := deepCopy(doc)

	if _, ok := out["custom_task_texts"]; !ok {
		out["custom_task_texts"] = []any{}
	}
	settings, ok := asMap(out["settings"])
	if !ok {
		settings = map[string]any{}
		out["settings"] = settings
	}
	if _, ok := settings["theme_mode"]; !ok {
		settings["theme_mode"] = "normal"
	}
	if _, ok := settings["auto_time_sync"]; !ok {
		settings["auto_time_sync"] = true
	}
	return out
}

// addDayNight (v5) introduces the persisted day/night block.
func addDayNight(doc map[string]any) map[string]any {
	out := deepCopy(doc)
	if _, ok := out["day_night_settings"]; ok {
		return out
	}

	autoSync := true
	if settings, ok := asMap(out["settings"]); ok {
		if v, ok := asBool(settings["auto_time_sync"]); ok {
			autoSync = v
		}
	}
	out["day_night_settings"] = map[string]any{
		"current_mode":     "day",
		"day_start_hour":   float64(6),
		"night_start_hour": float64(18),
		"auto_time_sync":   autoSync,
	}
	return out
}

// addRewardScheme (v5.5) introduces the reward-scheme flag and the
// per-pet daily tracking fields.
func addRewardScheme(doc map[string]any) map[string]any {
	out := deepCopy(doc)

	if _, ok := out["reward_scheme"]; !ok {
		out["reward_scheme"] = string(state.SchemeStageTrigger)
	}
	pets, ok := asMap(out["pets"])
	if !ok {
		return out
	}
	for _, raw := range pets {
		pet, ok := asMap(raw)
		if !ok {
			continue
		}
		if _, ok := pet["tasks_completed_today"]; !ok {
			pet["tasks_completed_today"] = float64(0)
		}
		if _, ok := pet["task_checklist"]; !ok {
			checklist := make([]any, state.DefaultDailyTasks)
			for i := range checklist {
				checklist[i] = false
			}
			pet["task_checklist"] = checklist
		}
	}
	return out
}

// tierFor resolves the tier for a persisted pet key. Unknown species are
// assumed to be legacy lootbox-only creatures.
func tierFor(key string) species.Tier {
	id, ok := species.Canonical(key)
	if !ok {
		return species.Tier3
	}
	info, _ := species.Get(id)
	return info.Tier
}

func sortedPetIDs(doc map[string]any) []string {
	pets, ok := asMap(doc["pets"])
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(pets))
	for id := range pets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// The starter leads so it survives any later clamping.
	starter := string(species.Starter())
	for i, id := range ids {
		if id == starter && i != 0 {
			ids = append(ids[:i], ids[i+1:]...)
			ids = append([]string{starter}, ids...)
			break
		}
	}
	return ids
}
