package main

import (
	"fmt"

	"github.com/fwojciec/recall"
)

// Run re-embeds every stored chunk with the current embedding model.
func (c *ReindexCmd) Run(deps *Dependencies) error {
	err := deps.Reindexer.Reindex(deps.Ctx, func(done, total int) {
		fmt.Fprintf(deps.Stdout, "embedded %d/%d chunks\n", done, total)
	})
	if recall.ErrorCode(err) == recall.EUNAVAILABLE {
		fmt.Fprintln(deps.Stderr, "error: embedding service unavailable")
		fmt.Fprintln(deps.Stderr, "Hint: Set GEMINI_API_KEY to enable embeddings.")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "Reindex complete.")
	return nil
}
