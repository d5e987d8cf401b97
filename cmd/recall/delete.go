package main

import (
	"fmt"

	"github.com/fwojciec/recall"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	item, err := deps.Items.FindItemByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	if !c.Force {
		fmt.Fprintf(deps.Stdout, "This will permanently delete %q (%s).\nRe-run with --force to confirm.\n", item.Title, item.ID)
		return nil
	}

	if err := deps.Items.DeleteItem(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %q (%s)\n", item.Title, item.ID)
	return nil
}
