package commands

import (
	"fmt"
)

// RolloverCmd implements the 'rollover' command.
type RolloverCmd struct{}

func (r *RolloverCmd) Run(_ *Global, root *CLI) error {
	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.engine.OnDayTick()
	if result.IsErr() {
		return result.UnwrapErr()
	}

	events := result.Unwrap()
	if len(events) == 0 {
		fmt.Println("already rolled over today")
	}
	printEvents(events)
	return nil
}
