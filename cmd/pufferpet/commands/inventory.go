package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SummonCmd implements the 'summon' command.
type SummonCmd struct {
	Pet string `arg:"" help:"Pet id to activate"`
}

func (s *SummonCmd) Run(_ *Global, root *CLI) error {
	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.engine.OnSummonRequested(s.Pet)
	if result.IsErr() {
		return result.UnwrapErr()
	}
	fmt.Printf("%s is now active\n", s.Pet)
	return nil
}

// DiveCmd implements the 'dive' command.
type DiveCmd struct {
	Pet string `arg:"" help:"Pet id to send back to the collection"`
}

func (d *DiveCmd) Run(_ *Global, root *CLI) error {
	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.engine.OnDiveRequested(d.Pet)
	if result.IsErr() {
		return result.UnwrapErr()
	}
	fmt.Printf("%s returned to the collection\n", d.Pet)
	return nil
}

// ReleaseCmd implements the 'release' command.
type ReleaseCmd struct {
	Pet string `arg:"" help:"Pet id to release"`
	Yes bool   `short:"y" help:"Skip the confirmation prompt"`
}

func (r *ReleaseCmd) Run(_ *Global, root *CLI) error {
	if !r.Yes && !confirm(fmt.Sprintf("Release %s permanently?", r.Pet)) {
		fmt.Println("aborted")
		return nil
	}

	sess, err := openSession(root)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.engine.OnReleaseRequested(r.Pet)
	if result.IsErr() {
		return result.UnwrapErr()
	}
	printEvents(result.Unwrap())
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
