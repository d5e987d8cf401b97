package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/recall"
)

// Run executes the paste command. Text comes from the argument or, when
// omitted, from stdin.
func (c *PasteCmd) Run(deps *Dependencies) error {
	text := c.Text
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = string(b)
	}

	item, err := deps.Ingester.IngestText(deps.Ctx, text, c.From)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %q (%s)\n", item.Title, item.ID)
	if item.Truncated {
		fmt.Fprintln(deps.Stdout, "Note: content was truncated")
	}
	return nil
}
