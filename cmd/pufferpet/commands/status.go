package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/RICHELLysS/PufferPet/internal/growth"
	"github.com/RICHELLysS/PufferPet/internal/state"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct {
	Rewards bool `short:"r" help:"Include the reward history summary from the journal"`
}

func (s *StatusCmd) Run(_ *Global, root *CLI) error {
	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	snap := sess.store.Snapshot()

	fmt.Printf("collection: %d/%d unlocked, %d/%d active\n",
		len(snap.UnlockedPets), state.MaxUnlocked, len(snap.ActivePets), state.MaxActive)
	fmt.Printf("reward scheme: %s, lifetime tasks: %d\n", snap.RewardScheme, snap.CumulativeTasks)

	for _, id := range snap.UnlockedPets {
		pet, ok := snap.Pets[id]
		if !ok {
			continue
		}
		marker := " "
		if slices.Contains(snap.ActivePets, id) {
			marker = "*"
		}
		if pet.Grows() {
			stage := pet.Stage.Unwrap()
			fmt.Printf("%s %-12s tier %d  %-7s  today %d  next stage in %d\n",
				marker, pet.ID, pet.Tier, stage, pet.TasksToday, growth.Required(pet))
		} else {
			fmt.Printf("%s %-12s tier %d  relic    today %d\n",
				marker, pet.ID, pet.Tier, pet.TasksToday)
		}
	}

	if saved := sess.store.LastSaved(); saved.IsSome() {
		fmt.Printf("last saved: %s\n", saved.Unwrap().Format(time.RFC3339))
	}

	if s.Rewards {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sess.projection.Rebuild(ctx); err != nil {
			slog.Warn("Reward history rebuild failed", "error", err)
			return nil
		}
		summary := sess.projection.Summary()
		fmt.Printf("\nrewards: %d grants, %d stage transitions, %d releases, %d dropped\n",
			summary.TotalGrants, summary.StageTransitions, summary.Releases, summary.DroppedRewards)
		for kind, n := range summary.GrantsByKind {
			fmt.Printf("  %-16s %d\n", kind, n)
		}
		if summary.LastGrantAt != nil {
			fmt.Printf("  last grant: %s\n", summary.LastGrantAt.Format(time.RFC3339))
		}
	}
	return nil
}
