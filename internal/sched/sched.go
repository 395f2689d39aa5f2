// Package sched drives periodic sync passes. The sync engine itself knows
// nothing about timing; the runner calls it on an interval and owns the
// keep-running-on-failure policy.
package sched

import (
	"context"
	"log/slog"
	"time"
)

// Runner executes a pass function once per interval.
type Runner struct {
	Interval time.Duration
	Log      *slog.Logger
}

// Run executes pass immediately, then once per tick until ctx is cancelled.
// Passes run to completion on this goroutine, so two passes can never
// overlap; a tick that fires while a pass is still running is dropped.
//
// An error from the first pass is returned as fatal (bad configuration
// surfaces before the loop settles in). Errors from later passes are logged
// and the loop keeps going — the next scheduled pass is the retry.
func (r Runner) Run(ctx context.Context, pass func(context.Context) error) error {
	if err := pass(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := pass(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.Log.Error("pass failed", "error", err)
			}
		}
	}
}
