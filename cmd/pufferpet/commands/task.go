package commands

import (
	"fmt"
)

// TaskCmd implements the 'task' command.
type TaskCmd struct {
	Pet     string `arg:"" help:"Pet id (an active pet)"`
	Index   int    `arg:"" help:"Zero-based checklist index"`
	Uncheck bool   `short:"u" help:"Uncheck the box instead of checking it"`
}

func (t *TaskCmd) Run(_ *Global, root *CLI) error {
	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.engine.OnTaskToggled(t.Pet, t.Index, !t.Uncheck)
	if result.IsErr() {
		return result.UnwrapErr()
	}

	events := result.Unwrap()
	if len(events) == 0 {
		fmt.Println("ok")
	}
	printEvents(events)
	return nil
}
