package metrics

import "time"

// GrantLabel enumerates reward grant outcomes for counters.
type GrantLabel string

const (
	GrantUnlock    GrantLabel = "unlock"
	GrantLootbox   GrantLabel = "lootbox_new"
	GrantDuplicate GrantLabel = "duplicate_reset"
	GrantSkip      GrantLabel = "skip"
	GrantDropped   GrantLabel = "dropped"
)

// Recorder defines observability hooks for engine operations. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveOperationDuration(op string, d time.Duration)
	IncOperationResult(op string, success bool)
	IncTaskCompleted()
	IncStageTransition(toStage string)
	IncRewardGrant(kind GrantLabel)
	IncEncounterFound()
	IncSaveFailure()
	SetCollectionSize(unlocked, active int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveOperationDuration(string, time.Duration) {}
func (NoopRecorder) IncOperationResult(string, bool)                {}
func (NoopRecorder) IncTaskCompleted()                              {}
func (NoopRecorder) IncStageTransition(string)                      {}
func (NoopRecorder) IncRewardGrant(GrantLabel)                      {}
func (NoopRecorder) IncEncounterFound()                             {}
func (NoopRecorder) IncSaveFailure()                                {}
func (NoopRecorder) SetCollectionSize(int, int)                     {}
