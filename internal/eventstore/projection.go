// Package eventstore journals engine events to SQLite and serves read
// models over them.
package eventstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/RICHELLysS/PufferPet/internal/engine"
)

// RewardSummary is a read model over the reward economy's history.
type RewardSummary struct {
	TotalGrants      int            `json:"total_grants"`
	GrantsByKind     map[string]int `json:"grants_by_kind"`
	GrantsBySpecies  map[string]int `json:"grants_by_species"`
	StageTransitions int            `json:"stage_transitions"`
	Releases         int            `json:"releases"`
	DroppedRewards   int            `json:"dropped_rewards"`
	LastGrantAt      *time.Time     `json:"last_grant_at,omitempty"`
}

// RewardHistoryProjection maintains an in-memory view of reward history,
// reconstructed from the journal.
type RewardHistoryProjection struct {
	mu        sync.RWMutex
	journal   Journal
	summary   RewardSummary
	recent    []engine.Event // newest first
	maxRecent int
	lastSync  time.Time
}

// NewRewardHistoryProjection creates a projection backed by the journal.
func NewRewardHistoryProjection(journal Journal, maxRecent int) *RewardHistoryProjection {
	if maxRecent <= 0 {
		maxRecent = 50
	}
	return &RewardHistoryProjection{
		journal:   journal,
		summary:   emptySummary(),
		maxRecent: maxRecent,
	}
}

func emptySummary() RewardSummary {
	return RewardSummary{
		GrantsByKind:    map[string]int{},
		GrantsBySpecies: map[string]int{},
	}
}

// Rebuild reconstructs the projection from every journaled event.
// Typically called at startup.
func (p *RewardHistoryProjection) Rebuild(ctx context.Context) error {
	records, err := p.journal.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.summary = emptySummary()
	p.recent = nil
	for _, rec := range records {
		var ev engine.Event
		if err := json.Unmarshal(rec.Payload, &ev); err != nil {
			// A malformed row is skipped; the journal is append-only and
			// older builds may have written a different shape.
			continue
		}
		p.applyLocked(ev)
	}

	p.lastSync = time.Now()
	return nil
}

// Apply processes a single event, used for real-time updates as the
// engine emits.
func (p *RewardHistoryProjection) Apply(ev engine.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(ev)
}

func (p *RewardHistoryProjection) applyLocked(ev engine.Event) {
	switch ev.Type {
	case engine.EventRewardGranted:
		p.summary.TotalGrants++
		p.summary.GrantsByKind[ev.Kind]++
		p.summary.GrantsBySpecies[string(ev.Species)]++
		at := ev.At
		p.summary.LastGrantAt = &at
		p.addRecentLocked(ev)

	case engine.EventCollectionFull:
		p.summary.DroppedRewards++
		p.addRecentLocked(ev)

	case engine.EventStageTransitioned:
		p.summary.StageTransitions++

	case engine.EventPetReleased:
		p.summary.Releases++
	}
}

func (p *RewardHistoryProjection) addRecentLocked(ev engine.Event) {
	p.recent = append([]engine.Event{ev}, p.recent...)
	if len(p.recent) > p.maxRecent {
		p.recent = p.recent[:p.maxRecent]
	}
}

// Summary returns a copy of the current reward summary.
func (p *RewardHistoryProjection) Summary() RewardSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := p.summary
	out.GrantsByKind = make(map[string]int, len(p.summary.GrantsByKind))
	for k, v := range p.summary.GrantsByKind {
		out.GrantsByKind[k] = v
	}
	out.GrantsBySpecies = make(map[string]int, len(p.summary.GrantsBySpecies))
	for k, v := range p.summary.GrantsBySpecies {
		out.GrantsBySpecies[k] = v
	}
	if p.summary.LastGrantAt != nil {
		at := *p.summary.LastGrantAt
		out.LastGrantAt = &at
	}
	return out
}

// Recent returns the most recent reward events, newest first.
func (p *RewardHistoryProjection) Recent() []engine.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]engine.Event, len(p.recent))
	copy(out, p.recent)
	return out
}

// LastSyncTime returns when the projection was last rebuilt.
func (p *RewardHistoryProjection) LastSyncTime() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSync
}
