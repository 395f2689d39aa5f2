package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/twinsync/twin/internal/filter"
	"github.com/twinsync/twin/internal/stats"
)

// Options configures one sync pass. Immutable for the pass duration.
type Options struct {
	Source  string
	Replica string
	Exclude *filter.Set
	DryRun  bool
	Verify  bool
	BWLimit int64 // bytes/sec, 0 = unlimited
	Logger  *slog.Logger
	Stats   *stats.Collector
}

// Sync runs one reconciliation pass: walk source, ensure the replica root,
// walk replica, plan, apply. It returns an error only when the source root
// is missing or unwalkable; per-item failures land in the report and the
// pass keeps going. Sync is stateless across calls.
func Sync(ctx context.Context, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	st := opts.Stats
	if st == nil {
		st = stats.NewCollector()
	}

	srcEntries, err := Walk(opts.Source, opts.Exclude, log)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	dstEntries, err := walkReplica(opts, log)
	if err != nil {
		return nil, err
	}

	actions := Plan(srcEntries, dstEntries)

	applier := &Applier{
		SrcRoot: opts.Source,
		DstRoot: opts.Replica,
		DryRun:  opts.DryRun,
		Stats:   st,
	}
	if opts.BWLimit > 0 {
		applier.Limiter = NewBWLimiter(opts.BWLimit)
	}

	report := &Report{DryRun: opts.DryRun}
	for _, act := range actions {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		applyErr := applier.Apply(ctx, act)
		report.add(act, applyErr)
		logAction(log, act, applyErr, opts.DryRun)
	}

	if opts.Verify && !opts.DryRun {
		verifyCopied(report, opts.Source, opts.Replica, st, log)
	}

	snap := st.Snapshot()
	log.Info("pass complete",
		"dry_run", opts.DryRun,
		"created", snap.FilesCreated,
		"updated", snap.FilesUpdated,
		"deleted", snap.FilesDeleted+snap.DirsDeleted,
		"skipped", snap.Skipped,
		"failed", snap.Failed,
		"bytes", snap.BytesCopied,
		"elapsed", snap.Elapsed,
	)

	return report, nil
}

// walkReplica walks the replica tree, creating its root first if missing.
// A missing replica root is normal on the first run, not an error.
func walkReplica(opts Options, log *slog.Logger) (map[string]Entry, error) {
	if _, err := os.Lstat(opts.Replica); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("replica: stat root %s: %w", opts.Replica, err)
		}
		if opts.DryRun {
			log.Info("would create replica root", "path", opts.Replica)
			return map[string]Entry{}, nil
		}
		if err := os.MkdirAll(opts.Replica, 0o755); err != nil {
			return nil, fmt.Errorf("create replica root %s: %w", opts.Replica, err)
		}
		log.Info("created replica root", "path", opts.Replica)
		return map[string]Entry{}, nil
	}

	// The replica walk is deliberately unfiltered: an excluded path is
	// absent from the source set, so a stale copy left in the replica from
	// before the pattern existed shows up as extraneous and is deleted.
	entries, err := Walk(opts.Replica, nil, log)
	if err != nil {
		return nil, fmt.Errorf("replica: %w", err)
	}
	return entries, nil
}

// logAction writes one record per applied or simulated action, identically
// to every configured handler. Skips only show up at debug level.
func logAction(log *slog.Logger, act Action, err error, dryRun bool) {
	msg := act.Op.String()
	if dryRun {
		msg = "would " + msg
	}

	attrs := []any{
		"op", act.Op.String(),
		"kind", act.Entry.Kind.String(),
		"path", act.Entry.RelPath,
	}
	switch {
	case err != nil:
		log.Error(msg, append(attrs, "error", err)...)
	case act.Op == Skip:
		log.Debug(msg, attrs...)
	default:
		log.Info(msg, attrs...)
	}
}
