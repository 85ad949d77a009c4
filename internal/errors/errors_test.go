package errors

import (
	"fmt"
	"testing"
)

func TestPetError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *PetError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("permission denied"), CategoryPersistence, SeverityWarning, "state save failed"),
			expected: "persistence (warning): state save failed: permission denied",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestPetError_WithContext(t *testing.T) {
	err := New(CategoryInventory, SeverityWarning, "collection is full").
		WithContext("pet_id", "crab").
		WithContext("limit", 20)

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["pet_id"] != "crab" {
		t.Errorf("Context[pet_id] = %v, want crab", err.Context["pet_id"])
	}

	if err.Context["limit"] != 20 {
		t.Errorf("Context[limit] = %v, want 20", err.Context["limit"])
	}
}

func TestPetError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := SaveFailed("/tmp/data.json", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestReasonHelpers(t *testing.T) {
	if !IsReason(PetNotFound("ray"), ReasonPetNotFound) {
		t.Error("PetNotFound should carry ReasonPetNotFound")
	}
	if !IsReason(CollectionFull(20), ReasonCollectionFull) {
		t.Error("CollectionFull should carry ReasonCollectionFull")
	}
	if !IsReason(ActiveFull(5), ReasonActiveFull) {
		t.Error("ActiveFull should carry ReasonActiveFull")
	}
	if IsReason(fmt.Errorf("plain"), ReasonPetNotFound) {
		t.Error("plain errors should never match a reason")
	}
}

func TestCategoryHelpers(t *testing.T) {
	err := CollectionFull(20)
	if !IsCategory(err, CategoryInventory) {
		t.Error("CollectionFull should be an inventory error")
	}
	if GetCategory(err) != CategoryInventory {
		t.Errorf("GetCategory() = %v, want %v", GetCategory(err), CategoryInventory)
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Error("plain errors should map to the internal category")
	}
}

func TestRetryable(t *testing.T) {
	if !IsRetryable(SaveFailed("/tmp/data.json", fmt.Errorf("disk full"))) {
		t.Error("save failures are retried on the next mutation")
	}
	if IsRetryable(PetNotFound("ray")) {
		t.Error("not-found is not retryable")
	}
}
