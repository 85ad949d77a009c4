// Package daemon runs the engine headless: periodic day-rollover and
// encounter ticks, a watcher for external state-file writes, an optional
// NATS event feed, and an optional Prometheus endpoint. The engine itself
// stays single-threaded; every tick is funneled through one event loop.
package daemon

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/RICHELLysS/PufferPet/internal/config"
	"github.com/RICHELLysS/PufferPet/internal/engine"
	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/eventstore"
	"github.com/RICHELLysS/PufferPet/internal/foundation"
	"github.com/RICHELLysS/PufferPet/internal/logfields"
	"github.com/RICHELLysS/PufferPet/internal/metrics"
	"github.com/RICHELLysS/PufferPet/internal/migrate"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// Daemon owns the background runtime around one engine instance.
type Daemon struct {
	cfg        config.Config
	store      *state.Store
	engine     *engine.Engine
	journal    *eventstore.SQLiteJournal
	projection *eventstore.RewardHistoryProjection
	scheduler  *Scheduler
	watcher    *StateWatcher
	publisher  *Publisher
	metricsSrv *http.Server

	// calls serializes periodic ticks onto the single engine loop.
	calls chan func()
}

// New wires the full runtime from configuration.
func New(cfg config.Config) (*Daemon, error) {
	store, err := state.Open(cfg.StatePath, migrate.New())
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(store, cfg); err != nil {
		return nil, err
	}

	journal, err := eventstore.NewSQLiteJournal(cfg.JournalPath)
	if err != nil {
		return nil, err
	}
	projection := eventstore.NewRewardHistoryProjection(journal, 50)
	rebuildCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := projection.Rebuild(rebuildCtx); err != nil {
		slog.Warn("Reward history rebuild failed, starting empty", logfields.Error(err))
	}

	d := &Daemon{
		cfg:        cfg,
		store:      store,
		journal:    journal,
		projection: projection,
		calls:      make(chan func(), 8),
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Daemon.MetricsListen != "" {
		registry := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		d.metricsSrv = &http.Server{Addr: cfg.Daemon.MetricsListen, Handler: mux}
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	d.engine = engine.New(store, rng,
		engine.WithRecorder(recorder),
		engine.WithSink(eventstore.NewSink(journal, projection)))

	if cfg.Daemon.NATSURL != "" {
		publisher, err := NewPublisher(cfg.Daemon.NATSURL, cfg.Daemon.NATSSubject)
		if err != nil {
			return nil, err
		}
		d.publisher = publisher
		d.engine.Subscribe(publisher)
	}

	d.scheduler, err = NewScheduler()
	if err != nil {
		return nil, err
	}
	d.watcher, err = NewStateWatcher(store)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Engine exposes the wired engine for embedding callers.
func (d *Daemon) Engine() *engine.Engine {
	return d.engine
}

// Projection exposes the reward-history read model.
func (d *Daemon) Projection() *eventstore.RewardHistoryProjection {
	return d.projection
}

// Run blocks until ctx is canceled, dispatching all periodic work on a
// single loop so engine calls never race.
func (d *Daemon) Run(ctx context.Context) error {
	if _, err := d.scheduler.SchedulePeriodic("day-rollover", d.cfg.Daemon.RolloverInterval, func() {
		d.enqueue(func() { d.tick("day rollover", d.engine.OnDayTick) })
	}); err != nil {
		return err
	}
	if _, err := d.scheduler.SchedulePeriodic("encounter", d.cfg.Daemon.EncounterInterval, func() {
		d.enqueue(func() { d.tick("encounter check", d.engine.OnEncounterTick) })
	}); err != nil {
		return err
	}

	if err := d.watcher.Start(ctx); err != nil {
		return err
	}
	d.scheduler.Start(ctx)

	if d.metricsSrv != nil {
		go func() {
			slog.Info("Serving metrics", logfields.Path(d.metricsSrv.Addr))
			if err := d.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
	}

	// Catch up a missed rollover immediately instead of waiting a minute.
	d.tick("day rollover", d.engine.OnDayTick)

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return nil
		case fn := <-d.calls:
			fn()
		}
	}
}

// enqueue hands a tick to the run loop, dropping it if the loop is backed
// up; every tick is idempotent and the next interval retries.
func (d *Daemon) enqueue(fn func()) {
	select {
	case d.calls <- fn:
	default:
	}
}

func (d *Daemon) tick(name string, op func() foundation.Result[[]engine.Event, *errors.PetError]) {
	if result := op(); result.IsErr() {
		slog.Warn("Periodic tick failed",
			logfields.Event(name), logfields.Error(result.UnwrapErr()))
	}
}

func (d *Daemon) shutdown() {
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.scheduler.Stop(stopCtx); err != nil {
		slog.Warn("Scheduler shutdown failed", logfields.Error(err))
	}
	if err := d.watcher.Stop(stopCtx); err != nil {
		slog.Warn("Watcher shutdown failed", logfields.Error(err))
	}
	if d.metricsSrv != nil {
		if err := d.metricsSrv.Shutdown(stopCtx); err != nil {
			slog.Warn("Metrics server shutdown failed", logfields.Error(err))
		}
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
	if err := d.journal.Close(); err != nil {
		slog.Warn("Journal close failed", logfields.Error(err))
	}
}

// applyOverrides pushes config-level settings into the persisted state.
func applyOverrides(store *state.Store, cfg config.Config) *errors.PetError {
	if cfg.RewardScheme == "" && len(cfg.CustomTaskTexts) == 0 {
		return nil
	}
	result := store.WithTransaction(func(st *state.AppState) *errors.PetError {
		if cfg.RewardScheme != "" {
			st.RewardScheme = state.RewardScheme(cfg.RewardScheme)
		}
		if len(cfg.CustomTaskTexts) > 0 {
			st.Settings.CustomTaskTexts = cfg.CustomTaskTexts
		}
		return nil
	})
	if result.IsErr() {
		return result.UnwrapErr()
	}
	return nil
}
