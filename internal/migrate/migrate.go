// Package migrate upgrades persisted state documents of any historical
// schema version to the canonical schema. The chain is an ordered list of
// pure, single-step transforms; new versions append a step, existing steps
// are never edited. Every step is additive: prior fields survive into the
// next version.
package migrate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// Version is a persisted-document schema revision.
type Version string

const (
	V1        Version = "1"
	V2        Version = "2"
	V3        Version = "3"
	V3_5      Version = "3.5"
	V4        Version = "4"
	V5        Version = "5"
	V5_5      Version = "5.5"
	Canonical         = V5_5
)

// Step is one pure transform from a version to its successor. Apply must
// not mutate its input document.
type Step struct {
	From  Version
	To    Version
	Apply func(doc map[string]any) map[string]any
}

// Chain implements state.Migrator with the full upgrade ladder.
type Chain struct {
	steps []Step
}

// New builds the migrator with every historical step registered in order.
func New() *Chain {
	return &Chain{steps: steps()}
}

// Default returns a fresh canonical state.
func (c *Chain) Default() *state.AppState {
	return state.NewDefaultState()
}

// Migrate parses raw bytes, walks the step chain from the detected version
// to the canonical one, and decodes the result. Documents at or beyond the
// canonical version pass through unchanged, so migration is idempotent.
func (c *Chain) Migrate(raw []byte) foundation.Result[*state.AppState, *errors.PetError] {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return foundation.Err[*state.AppState, *errors.PetError](
			errors.SchemaCorrupt("state document", err))
	}
	if doc == nil {
		return foundation.Err[*state.AppState, *errors.PetError](
			errors.SchemaCorrupt("state document", fmt.Errorf("document is null")))
	}

	version := detectVersion(doc)
	for _, step := range c.steps {
		if version != step.From {
			continue
		}
		doc = step.Apply(doc)
		doc["version"] = string(step.To)
		version = step.To
		slog.Debug("Applied schema migration step",
			logfields.Version(string(step.To)))
	}

	return decode(doc)
}

// Steps exposes the registered chain for tests asserting append-only
// coverage of every non-canonical version.
func (c *Chain) Steps() []Step {
	out := make([]Step, len(c.steps))
	copy(out, c.steps)
	return out
}

// detectVersion reads the document's version tag. Documents without one
// predate tagging and are v1. Unknown or future versions are treated as
// already canonical so newer files survive an engine downgrade untouched.
func detectVersion(doc map[string]any) Version {
	raw, ok := doc["version"]
	if !ok {
		return V1
	}

	var tag string
	switch v := raw.(type) {
	case string:
		tag = v
	case float64:
		tag = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return Canonical
	}

	switch Version(tag) {
	case V1, V2, V3, V3_5, V4, V5, V5_5:
		return Version(tag)
	default:
		return Canonical
	}
}
