package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/RICHELLysS/PufferPet/internal/config"
	"github.com/RICHELLysS/PufferPet/internal/migrate"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// MigrateCmd implements the 'migrate' command.
type MigrateCmd struct {
	DryRun bool `help:"Report the resulting document without writing it back"`
}

func (m *MigrateCmd) Run(_ *Global, root *CLI) error {
	cfg, perr := config.Load(root.Config)
	if perr != nil {
		return fmt.Errorf("load config: %w", perr)
	}

	chain := migrate.New()

	if m.DryRun {
		raw, err := os.ReadFile(cfg.StatePath)
		if os.IsNotExist(err) {
			fmt.Printf("%s: no state file, a fresh v%s document would be created\n",
				cfg.StatePath, state.SchemaVersion)
			return nil
		}
		if err != nil {
			return err
		}
		result := chain.Migrate(raw)
		if result.IsErr() {
			return result.UnwrapErr()
		}
		st := result.Unwrap()
		fmt.Printf("%s: would migrate to v%s (%d pets, %d active)\n",
			cfg.StatePath, st.SchemaVersion, len(st.UnlockedPets), len(st.ActivePets))
		out, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	// Open migrates and persists in one step.
	store, err := state.Open(cfg.StatePath, chain)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	fmt.Printf("%s: now at v%s (%d pets, %d active)\n",
		cfg.StatePath, snap.SchemaVersion, len(snap.UnlockedPets), len(snap.ActivePets))
	return nil
}
