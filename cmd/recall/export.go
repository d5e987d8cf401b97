package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/recall"
	"github.com/fwojciec/recall/fs"
)

const exportPageSize = 500

// Run writes all saved items to a directory as markdown files. The
// directory is replaced atomically so a failed export leaves any previous
// one intact.
func (c *ExportCmd) Run(deps *Dependencies) error {
	exporter := fs.NewExporter(filepath.Dir(c.Dir), filepath.Base(c.Dir))

	count, err := c.export(deps, exporter)
	if err != nil {
		_ = exporter.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	if count == 0 {
		_ = exporter.Abort()
		fmt.Fprintln(deps.Stdout, "No items to export.")
		return nil
	}

	if err := exporter.Commit(); err != nil {
		_ = exporter.Abort()
		return err
	}
	fmt.Fprintf(deps.Stdout, "Exported %d item(s) to %s\n", count, c.Dir)
	return nil
}

func (c *ExportCmd) export(deps *Dependencies, exporter *fs.Exporter) (int, error) {
	count := 0
	for offset := 0; ; offset += exportPageSize {
		filter := recall.ItemFilter{
			Limit:  exportPageSize,
			Offset: offset,
			SortBy: recall.SortBySavedAt,
		}
		if c.From != "" {
			filter.SavedFrom = &c.From
		}

		items, err := deps.Items.FindItems(deps.Ctx, filter)
		if err != nil {
			return 0, err
		}
		if len(items) == 0 {
			return count, nil
		}

		for _, item := range items {
			if err := exporter.WriteItem(deps.Ctx, item); err != nil {
				return 0, err
			}
			count++
		}
	}
}
