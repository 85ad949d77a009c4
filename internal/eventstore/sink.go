package eventstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/RICHELLysS/PufferPet/internal/engine"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/retry"
)

const appendTimeout = 2 * time.Second

// Sink adapts a Journal to the engine's event sink interface. Journal
// failures are logged and swallowed: the journal is an audit trail, never
// a reason to fail a pet operation. Appends are retried briefly since the
// UI process shares the database and SQLite can report transient busy
// errors.
type Sink struct {
	journal    Journal
	projection *RewardHistoryProjection
	policy     retry.Policy
}

// NewSink wraps a journal. An optional projection receives every event
// for real-time updates; pass nil to skip.
func NewSink(journal Journal, projection *RewardHistoryProjection) *Sink {
	return &Sink{
		journal:    journal,
		projection: projection,
		policy:     retry.NewPolicy(retry.BackoffLinear, 50*time.Millisecond, 200*time.Millisecond, 2),
	}
}

// Emit appends the event to the journal and feeds the projection.
func (s *Sink) Emit(ev engine.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	err := s.policy.Do(ctx, func() error {
		return s.journal.Append(ctx, ev)
	})
	if err != nil {
		slog.Warn("Failed to journal engine event",
			logfields.Event(string(ev.Type)), logfields.Error(err))
	}
	if s.projection != nil {
		s.projection.Apply(ev)
	}
}
