package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Run processes queued jobs until interrupted.
func (c *WorkerCmd) Run(deps *Dependencies) error {
	ctx, cancel := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintln(deps.Stdout, "Worker started. Press Ctrl+C to stop.")
	err := deps.Worker.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(deps.Stdout, "Worker stopped.")
		return nil
	}
	return err
}
