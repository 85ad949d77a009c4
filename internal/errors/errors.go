// Package errors provides a lightweight structured error type (PetError)
// for category-based classification of engine failures. Expected negative
// outcomes (full collection, unknown pet) are values of this type, never
// panics, so callers are forced to handle them.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a PetError for classification
type ErrorCategory string

const (
	// Persisted-document and migration errors
	CategorySchema      ErrorCategory = "schema"
	CategoryPersistence ErrorCategory = "persistence"

	// Domain-rule violations reported to the caller
	CategoryInventory ErrorCategory = "inventory"
	CategoryGrowth    ErrorCategory = "growth"
	CategoryReward    ErrorCategory = "reward"

	// Configuration and infrastructure errors
	CategoryConfig   ErrorCategory = "config"
	CategoryJournal  ErrorCategory = "journal"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Reason identifies the precise condition behind a PetError. The engine's
// callers branch on reasons, not on message strings.
type Reason string

const (
	ReasonPetNotFound       Reason = "pet_not_found"
	ReasonCollectionFull    Reason = "collection_full"
	ReasonActiveFull        Reason = "active_full"
	ReasonInvalidTransition Reason = "invalid_transition"
	ReasonStarterProtected  Reason = "starter_protected"
	ReasonSchemaCorrupt     Reason = "schema_corrupt"
	ReasonSaveFailed        Reason = "save_failed"
	ReasonUnknownSpecies    Reason = "unknown_species"
	ReasonReentrantCall     Reason = "reentrant_call"
)

// PetError is a structured error with category, reason, and context
type PetError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Reason    Reason        `json:"reason,omitempty"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for PetError
type ContextFields map[string]any

// Error implements the error interface
func (e *PetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *PetError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PetError) WithContext(key string, value any) *PetError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithCause attaches the underlying error
func (e *PetError) WithCause(err error) *PetError {
	e.Cause = err
	return e
}

// New creates a new PetError
func New(category ErrorCategory, severity ErrorSeverity, message string) *PetError {
	return &PetError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new PetError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *PetError {
	return &PetError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if pe, ok := err.(*PetError); ok {
		return pe.Category == category
	}
	return false
}

// IsReason checks if an error carries a specific reason
func IsReason(err error, reason Reason) bool {
	if pe, ok := err.(*PetError); ok {
		return pe.Reason == reason
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if pe, ok := err.(*PetError); ok {
		return pe.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not a PetError
func GetCategory(err error) ErrorCategory {
	if pe, ok := err.(*PetError); ok {
		return pe.Category
	}
	return CategoryInternal
}
