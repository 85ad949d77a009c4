package commands

import (
	"fmt"
)

// GachaCmd implements the 'gacha' command.
type GachaCmd struct{}

func (g *GachaCmd) Run(_ *Global, root *CLI) error {
	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.engine.OpenLootbox()
	if result.IsErr() {
		return result.UnwrapErr()
	}

	events := result.Unwrap()
	if len(events) == 0 {
		fmt.Println("nothing happened")
	}
	printEvents(events)
	return nil
}
