package errors

// Convenience constructors for the engine's recoverable conditions and
// failure modes. These are the only places reasons get attached, so the
// reason set stays closed.

// Domain conditions (recoverable, reported to the caller)

func PetNotFound(petID string) *PetError {
	e := New(CategoryGrowth, SeverityWarning, "pet not found")
	e.Reason = ReasonPetNotFound
	return e.WithContext("pet_id", petID)
}

func CollectionFull(limit int) *PetError {
	e := New(CategoryInventory, SeverityWarning, "collection is full")
	e.Reason = ReasonCollectionFull
	return e.WithContext("limit", limit)
}

func ActiveFull(limit int) *PetError {
	e := New(CategoryInventory, SeverityWarning, "active set is full")
	e.Reason = ReasonActiveFull
	return e.WithContext("limit", limit)
}

func InvalidTransition(petID string) *PetError {
	e := New(CategoryGrowth, SeverityInfo, "pet is already at the terminal stage")
	e.Reason = ReasonInvalidTransition
	return e.WithContext("pet_id", petID)
}

func StarterProtected(petID string) *PetError {
	e := New(CategoryInventory, SeverityWarning, "starter pet cannot be released")
	e.Reason = ReasonStarterProtected
	return e.WithContext("pet_id", petID)
}

func UnknownSpecies(speciesID string) *PetError {
	e := New(CategoryGrowth, SeverityWarning, "species is not in the catalog")
	e.Reason = ReasonUnknownSpecies
	return e.WithContext("species_id", speciesID)
}

func ReentrantCall(operation string) *PetError {
	e := New(CategoryInternal, SeverityError, "engine re-entered from an event handler")
	e.Reason = ReasonReentrantCall
	return e.WithContext("operation", operation)
}

// Persistence and schema errors

func SchemaCorrupt(path string, cause error) *PetError {
	e := Wrap(cause, CategorySchema, SeverityWarning, "persisted state is unparsable")
	e.Reason = ReasonSchemaCorrupt
	return e.WithContext("path", path)
}

func SaveFailed(path string, cause error) *PetError {
	e := Wrap(cause, CategoryPersistence, SeverityWarning, "state save failed")
	e.Reason = ReasonSaveFailed
	e.Retryable = true
	return e.WithContext("path", path)
}

func JournalError(operation string, cause error) *PetError {
	return Wrap(cause, CategoryJournal, SeverityWarning, "event journal operation failed").
		WithContext("operation", operation)
}

// Config errors

func ConfigNotFound(path string) *PetError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(field, reason string) *PetError {
	return New(CategoryConfig, SeverityFatal, "configuration is invalid").
		WithContext("field", field).
		WithContext("reason", reason)
}
