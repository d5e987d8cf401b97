package main

import (
	"fmt"

	"github.com/fwojciec/recall"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := recall.ItemFilter{
		Limit:  c.Limit,
		Offset: c.Offset,
		SortBy: recall.SortBySavedAt,
	}
	if c.From != "" {
		filter.SavedFrom = &c.From
	}

	items, err := deps.Items.FindItems(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(deps.Stdout, "No items saved yet.")
		return nil
	}

	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "(untitled)"
		}
		source := item.CanonicalURL
		if source == "" {
			source = item.SourceLabel
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			item.ID,
			item.SavedAt.Format("2006-01-02"),
			title,
			source,
		)
	}
	return nil
}
