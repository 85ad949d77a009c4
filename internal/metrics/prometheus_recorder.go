package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	opDuration       *prom.HistogramVec
	opResults        *prom.CounterVec
	tasksCompleted   prom.Counter
	stageTransitions *prom.CounterVec
	rewardGrants     *prom.CounterVec
	encountersFound  prom.Counter
	saveFailures     prom.Counter
	unlockedGauge    prom.Gauge
	activeGauge      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.opDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pufferpet",
			Name:      "operation_duration_seconds",
			Help:      "Duration of individual engine operations",
			Buckets:   prom.DefBuckets,
		}, []string{"op"})
		pr.opResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pufferpet",
			Name:      "operation_results_total",
			Help:      "Engine operation counts by outcome",
		}, []string{"op", "result"})
		pr.tasksCompleted = prom.NewCounter(prom.CounterOpts{
			Namespace: "pufferpet",
			Name:      "tasks_completed_total",
			Help:      "Total completed task check-offs",
		})
		pr.stageTransitions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pufferpet",
			Name:      "stage_transitions_total",
			Help:      "Stage transitions by target stage",
		}, []string{"stage"})
		pr.rewardGrants = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pufferpet",
			Name:      "reward_grants_total",
			Help:      "Reward grants by outcome kind",
		}, []string{"kind"})
		pr.encountersFound = prom.NewCounter(prom.CounterOpts{
			Namespace: "pufferpet",
			Name:      "encounters_found_total",
			Help:      "Wild encounters surfaced to the UI",
		})
		pr.saveFailures = prom.NewCounter(prom.CounterOpts{
			Namespace: "pufferpet",
			Name:      "state_save_failures_total",
			Help:      "State file writes that failed and were deferred",
		})
		pr.unlockedGauge = prom.NewGauge(prom.GaugeOpts{
			Namespace: "pufferpet",
			Name:      "unlocked_pets",
			Help:      "Current size of the unlocked collection",
		})
		pr.activeGauge = prom.NewGauge(prom.GaugeOpts{
			Namespace: "pufferpet",
			Name:      "active_pets",
			Help:      "Current size of the active set",
		})
		reg.MustRegister(pr.opDuration, pr.opResults, pr.tasksCompleted,
			pr.stageTransitions, pr.rewardGrants, pr.encountersFound,
			pr.saveFailures, pr.unlockedGauge, pr.activeGauge)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveOperationDuration(op string, d time.Duration) {
	if p == nil || p.opDuration == nil {
		return
	}
	p.opDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncOperationResult(op string, success bool) {
	if p == nil || p.opResults == nil {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	p.opResults.WithLabelValues(op, result).Inc()
}

func (p *PrometheusRecorder) IncTaskCompleted() {
	if p == nil || p.tasksCompleted == nil {
		return
	}
	p.tasksCompleted.Inc()
}

func (p *PrometheusRecorder) IncStageTransition(toStage string) {
	if p == nil || p.stageTransitions == nil {
		return
	}
	p.stageTransitions.WithLabelValues(toStage).Inc()
}

func (p *PrometheusRecorder) IncRewardGrant(kind GrantLabel) {
	if p == nil || p.rewardGrants == nil {
		return
	}
	p.rewardGrants.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncEncounterFound() {
	if p == nil || p.encountersFound == nil {
		return
	}
	p.encountersFound.Inc()
}

func (p *PrometheusRecorder) IncSaveFailure() {
	if p == nil || p.saveFailures == nil {
		return
	}
	p.saveFailures.Inc()
}

func (p *PrometheusRecorder) SetCollectionSize(unlocked, active int) {
	if p == nil || p.unlockedGauge == nil {
		return
	}
	p.unlockedGauge.Set(float64(unlocked))
	p.activeGauge.Set(float64(active))
}
