// Package config loads the engine configuration: a YAML file merged with
// environment variables, with defaults for everything so a missing file
// still yields a runnable setup.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/RICHELLysS/PufferPet/internal/errors"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// Environment variable names recognized on top of the YAML file.
const (
	EnvStatePath   = "PUFFERPET_STATE_PATH"
	EnvJournalPath = "PUFFERPET_JOURNAL_PATH"
	EnvNATSURL     = "PUFFERPET_NATS_URL"
)

// DaemonConfig holds the background-job settings.
type DaemonConfig struct {
	// RolloverInterval is how often the day-rollover check runs.
	RolloverInterval time.Duration `yaml:"rollover_interval"`
	// EncounterInterval is how often the wild-encounter check runs.
	EncounterInterval time.Duration `yaml:"encounter_interval"`
	// MetricsListen is the Prometheus listen address; empty disables the
	// metrics endpoint.
	MetricsListen string `yaml:"metrics_listen"`
	// NATSURL enables event publishing when set; empty disables it.
	NATSURL string `yaml:"nats_url"`
	// NATSSubject is the subject engine events are published on.
	NATSSubject string `yaml:"nats_subject"`
}

// Config is the full engine configuration.
type Config struct {
	// StatePath locates the persisted state document.
	StatePath string `yaml:"state_path"`
	// JournalPath locates the SQLite event journal.
	JournalPath string `yaml:"journal_path"`
	// RewardScheme, when set, overrides the persisted scheme flag at
	// startup ("threshold" or "stage_trigger").
	RewardScheme string `yaml:"reward_scheme"`
	// CustomTaskTexts replace the default task labels. Blank entries are
	// dropped and the rest are normalized on load.
	CustomTaskTexts []string `yaml:"custom_task_texts"`

	Daemon DaemonConfig `yaml:"daemon"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".pufferpet")
	return Config{
		StatePath:   filepath.Join(dir, "data.json"),
		JournalPath: filepath.Join(dir, "journal.db"),
		Daemon: DaemonConfig{
			RolloverInterval:  time.Minute,
			EncounterInterval: 5 * time.Minute,
			NATSSubject:       "pufferpet.events",
		},
	}
}

// Load reads the YAML file at path. An empty path skips the file and uses
// defaults; a path naming a missing file is an error, since the caller
// asked for that file explicitly. Applies `.env` and process environment
// overrides, normalizes, and validates. `.env` never overrides variables
// already set in the process environment.
func Load(path string) (Config, *errors.PetError) {
	// Best effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			return Config{}, errors.ConfigNotFound(path)
		case err != nil:
			return Config{}, errors.ConfigNotFound(path)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, errors.ConfigInvalid("yaml", err.Error())
			}
		}
	}

	applyEnv(&cfg)
	cfg.StatePath = os.ExpandEnv(cfg.StatePath)
	cfg.JournalPath = os.ExpandEnv(cfg.JournalPath)
	cfg.CustomTaskTexts = NormalizeTaskTexts(cfg.CustomTaskTexts)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStatePath); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv(EnvJournalPath); v != "" {
		cfg.JournalPath = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		cfg.Daemon.NATSURL = v
	}
}

func (c *Config) validate() *errors.PetError {
	if c.StatePath == "" {
		return errors.ConfigInvalid("state_path", "must not be empty")
	}
	switch state.RewardScheme(c.RewardScheme) {
	case "", state.SchemeThreshold, state.SchemeStageTrigger:
	default:
		return errors.ConfigInvalid("reward_scheme", "must be \"threshold\" or \"stage_trigger\"")
	}
	if c.Daemon.RolloverInterval <= 0 {
		return errors.ConfigInvalid("daemon.rollover_interval", "must be positive")
	}
	if c.Daemon.EncounterInterval <= 0 {
		return errors.ConfigInvalid("daemon.encounter_interval", "must be positive")
	}
	return nil
}
