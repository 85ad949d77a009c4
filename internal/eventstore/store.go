package eventstore

import (
	"context"
	"time"

	"github.com/RICHELLysS/PufferPet/internal/engine"
)

// Journal defines the interface for persisting and retrieving engine events.
type Journal interface {
	// Append adds a new event to the journal.
	Append(ctx context.Context, ev engine.Event) error

	// GetByPet retrieves all events touching a specific pet, oldest first.
	GetByPet(ctx context.Context, petID string) ([]Record, error)

	// GetRange retrieves events within a time range, oldest first.
	GetRange(ctx context.Context, start, end time.Time) ([]Record, error)

	// Close closes the journal and releases resources.
	Close() error
}
