package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveOperationDuration("task_toggled", 150*time.Millisecond)
	pr.IncOperationResult("task_toggled", true)
	pr.IncTaskCompleted()
	pr.IncStageTransition("adult")
	pr.IncRewardGrant(GrantLootbox)
	pr.IncEncounterFound()
	pr.IncSaveFailure()
	pr.SetCollectionSize(3, 2)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}
