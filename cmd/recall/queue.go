package main

import (
	"fmt"
	"time"
)

// Run prints queue metrics.
func (c *QueueStatusCmd) Run(deps *Dependencies) error {
	metrics, err := deps.Queue.Metrics(deps.Ctx, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Pending:     %d\n", metrics.Pending)
	fmt.Fprintf(deps.Stdout, "Dead-letter: %d\n", metrics.DeadLetter)
	switch {
	case metrics.NextInSeconds == nil:
		fmt.Fprintln(deps.Stdout, "Next job:    none")
	case *metrics.NextInSeconds <= 0:
		fmt.Fprintln(deps.Stdout, "Next job:    ready now")
	default:
		fmt.Fprintf(deps.Stdout, "Next job:    in %ds\n", *metrics.NextInSeconds)
	}
	return nil
}

// Run moves dead-letter jobs back to pending.
func (c *QueueReviveCmd) Run(deps *Dependencies) error {
	n, err := deps.Queue.ReviveDeadLetters(deps.Ctx, time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(deps.Stdout, "No dead-letter jobs to revive.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Revived %d job(s)\n", n)
	deps.Worker.Wake()
	return nil
}

// Run makes all pending jobs ready immediately.
func (c *QueueRetryCmd) Run(deps *Dependencies) error {
	n, err := deps.Queue.ForceRetryPendingNow(deps.Ctx, time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(deps.Stdout, "No pending jobs.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Marked %d job(s) ready\n", n)
	deps.Worker.Wake()
	return nil
}
