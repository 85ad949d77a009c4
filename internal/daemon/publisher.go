package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/RICHELLysS/PufferPet/internal/engine"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
)

// Publisher forwards engine events to a NATS subject so companion
// processes (the UI, notification scripts) can react without polling the
// state file. Publishing is fire-and-forget; a broken connection never
// fails a pet operation.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS. It implements the engine's event sink.
func NewPublisher(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("pufferpet"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS event publisher connected", logfields.Subject(subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// Emit publishes one engine event as JSON.
func (p *Publisher) Emit(ev engine.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("Failed to marshal event for publishing", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		slog.Warn("Failed to publish engine event",
			logfields.Subject(p.subject), logfields.Error(err))
	}
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Warn("NATS drain failed", logfields.Error(err))
	}
}
