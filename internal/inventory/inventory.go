// Package inventory enforces the collection limits: at most twenty
// unlocked creatures, at most five active at once, and active is always a
// subset of unlocked. Operations mutate the state in place and re-check
// the global invariants before returning; callers run them inside a store
// transaction.
package inventory

import (
	"log/slog"
	"slices"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/species"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

type unit = struct{}

func ok() foundation.Result[unit, *errors.PetError] {
	return foundation.Ok[unit, *errors.PetError](unit{})
}

func fail(err *errors.PetError) foundation.Result[unit, *errors.PetError] {
	return foundation.Err[unit, *errors.PetError](err)
}

// CanAdd reports whether the unlocked collection has room for one more.
func CanAdd(st *state.AppState) bool {
	return len(st.UnlockedPets) < state.MaxUnlocked
}

// AddToCollection creates a fresh record for the species and unlocks it
// into storage. A full collection or an already-owned species leaves the
// state untouched.
func AddToCollection(st *state.AppState, id species.ID) foundation.Result[*state.PetRecord, *errors.PetError] {
	petID := string(id)
	if st.IsUnlocked(petID) {
		return foundation.Err[*state.PetRecord, *errors.PetError](
			errors.New(errors.CategoryInventory, errors.SeverityWarning, "species already unlocked").
				WithContext("pet_id", petID))
	}
	if !CanAdd(st) {
		return foundation.Err[*state.PetRecord, *errors.PetError](
			errors.CollectionFull(state.MaxUnlocked))
	}
	info, found := species.Get(id)
	if !found {
		return foundation.Err[*state.PetRecord, *errors.PetError](
			errors.UnknownSpecies(petID))
	}

	rec := state.NewPetRecord(id, info.Tier)
	st.Pets[petID] = rec
	st.UnlockedPets = append(st.UnlockedPets, petID)
	if err := st.Validate(); err != nil {
		return foundation.Err[*state.PetRecord, *errors.PetError](err)
	}
	slog.Info("Species joined the collection", logfields.PetID(petID))
	return foundation.Ok[*state.PetRecord, *errors.PetError](rec)
}

// Activate moves an unlocked pet from storage into the active set.
// Activating an already-active pet is a no-op; a full active set reports
// ActiveFull without touching anything.
func Activate(st *state.AppState, petID string) foundation.Result[unit, *errors.PetError] {
	if !st.IsUnlocked(petID) {
		return fail(errors.PetNotFound(petID))
	}
	if st.IsActive(petID) {
		return ok()
	}
	if len(st.ActivePets) >= state.MaxActive {
		return fail(errors.ActiveFull(state.MaxActive))
	}

	st.ActivePets = append(st.ActivePets, petID)
	if err := st.Validate(); err != nil {
		return fail(err)
	}
	return ok()
}

// Deactivate moves a pet from the active set back to storage. It always
// succeeds; deactivating a stored or unknown pet changes nothing.
func Deactivate(st *state.AppState, petID string) {
	st.ActivePets = slices.DeleteFunc(st.ActivePets, func(id string) bool {
		return id == petID
	})
}

// Release permanently destroys a pet: the id leaves the unlocked
// collection, the active set, and the record map in one step. The starter
// species cannot be released. A failed release changes nothing.
func Release(st *state.AppState, petID string) foundation.Result[unit, *errors.PetError] {
	if !st.IsUnlocked(petID) {
		return fail(errors.PetNotFound(petID))
	}
	if rec, found := st.Pets[petID]; found {
		if info, catalogued := species.Get(rec.Species); catalogued && info.Starter {
			return fail(errors.StarterProtected(petID))
		}
	}

	st.UnlockedPets = slices.DeleteFunc(st.UnlockedPets, func(id string) bool {
		return id == petID
	})
	Deactivate(st, petID)
	delete(st.Pets, petID)

	if err := st.Validate(); err != nil {
		return fail(err)
	}
	slog.Info("Pet released", logfields.PetID(petID))
	return ok()
}
