package commands

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/RICHELLysS/PufferPet/internal/config"
	"github.com/RICHELLysS/PufferPet/internal/engine"
	"github.com/RICHELLysS/PufferPet/internal/eventstore"
	"github.com/RICHELLysS/PufferPet/internal/migrate"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional; defaults apply without one)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Status   StatusCmd   `cmd:"" help:"Show the pet collection, growth progress, and reward history"`
	Task     TaskCmd     `cmd:"" help:"Toggle a daily task checkbox for a pet"`
	Summon   SummonCmd   `cmd:"" help:"Move an unlocked pet into the active set"`
	Dive     DiveCmd     `cmd:"" help:"Move an active pet back to the collection"`
	Release  ReleaseCmd  `cmd:"" help:"Permanently release a pet from the collection"`
	Gacha    GachaCmd    `cmd:"" help:"Open a lootbox and roll for a new pet"`
	Rollover RolloverCmd `cmd:"" help:"Run the day rollover (resets daily task counters once per day)"`
	Migrate  MigrateCmd  `cmd:"" help:"Migrate the state file to the current schema version"`
	Daemon   DaemonCmd   `cmd:"" help:"Run the background daemon (rollover ticks, encounters, event feed)"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// session is the shared wiring for one-shot commands: the state store, the
// event journal, and an engine that writes to both. The daemon builds its
// own richer variant.
type session struct {
	cfg        config.Config
	store      *state.Store
	journal    *eventstore.SQLiteJournal
	projection *eventstore.RewardHistoryProjection
	engine     *engine.Engine
}

func openSession(root *CLI) (*session, error) {
	cfg, perr := config.Load(root.Config)
	if perr != nil {
		return nil, fmt.Errorf("load config: %w", perr)
	}

	store, err := state.Open(cfg.StatePath, migrate.New())
	if err != nil {
		return nil, err
	}

	journal, err := eventstore.NewSQLiteJournal(cfg.JournalPath)
	if err != nil {
		return nil, err
	}
	projection := eventstore.NewRewardHistoryProjection(journal, 50)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	eng := engine.New(store, rng, engine.WithSink(eventstore.NewSink(journal, projection)))

	return &session{
		cfg:        cfg,
		store:      store,
		journal:    journal,
		projection: projection,
		engine:     eng,
	}, nil
}

func (s *session) Close() {
	if err := s.journal.Close(); err != nil {
		slog.Warn("Journal close failed", "error", err)
	}
}

// printEvents renders the events an operation produced, one per line.
func printEvents(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EventStageTransitioned:
			fmt.Printf("%s grew: %s -> %s\n", ev.PetID, ev.From, ev.To)
		case engine.EventRewardGranted:
			fmt.Printf("reward (%s): %s\n", ev.Kind, ev.Species)
		case engine.EventCollectionFull:
			fmt.Println("collection is full, reward dropped")
		case engine.EventActiveFull:
			fmt.Println("active set is full")
		case engine.EventPetReleased:
			fmt.Printf("released %s\n", ev.PetID)
		case engine.EventEncounterFound:
			fmt.Printf("wild encounter: %s\n", ev.Species)
		case engine.EventDayRolledOver:
			fmt.Println("new day: daily counters reset")
		default:
			fmt.Printf("%s\n", ev.Type)
		}
	}
}
