package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/recall"
)

// Run executes the save command: canonicalize, enqueue, then drain ready
// jobs inline unless --no-wait was given.
func (c *SaveCmd) Run(deps *Dependencies) error {
	canonical, err := recall.CanonicalizeURL(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}

	created, err := deps.Queue.EnqueueIfNeeded(deps.Ctx, canonical, c.From, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
		return err
	}
	if created {
		fmt.Fprintf(deps.Stdout, "Queued %s\n", canonical)
	} else {
		fmt.Fprintf(deps.Stdout, "Already queued: %s\n", canonical)
	}

	if c.NoWait {
		deps.Worker.Wake()
		return nil
	}

	return drainQueue(deps)
}

// drainQueue processes ready jobs until none remain. Jobs scheduled in the
// future are left for a running worker.
func drainQueue(deps *Dependencies) error {
	for {
		processed, err := deps.Worker.RunOnce(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", recall.ErrorMessage(err))
			return err
		}
		if !processed {
			return nil
		}
	}
}
