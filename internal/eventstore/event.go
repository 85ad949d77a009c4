package eventstore

import "time"

// Record is one journaled engine event as read back from storage.
type Record struct {
	// Seq is the storage-assigned, monotonically increasing sequence number.
	Seq int64
	// EventID is the engine-assigned UUID of the event.
	EventID string
	// Type is the engine event type name.
	Type string
	// PetID and Species index the record for per-pet queries; either may be
	// empty depending on the event type.
	PetID   string
	Species string
	// At is when the engine emitted the event.
	At time.Time
	// Payload is the full event encoded as JSON.
	Payload []byte
}
