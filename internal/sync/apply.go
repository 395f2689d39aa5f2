package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/twinsync/twin/internal/platform"
	"github.com/twinsync/twin/internal/stats"
)

// Applier executes planned actions against the replica tree. In dry-run
// mode every action is counted and recorded but nothing on disk changes.
type Applier struct {
	SrcRoot string
	DstRoot string
	DryRun  bool
	Limiter *rate.Limiter
	Stats   *stats.Collector
}

// Apply executes one action. Per-item failures are returned for the report;
// they never abort the pass.
func (a *Applier) Apply(ctx context.Context, act Action) error {
	switch act.Op {
	case Skip:
		a.Stats.AddSkipped(1)
		return nil
	case Create, Update:
		if act.Entry.Kind == Dir {
			return a.createDir(act)
		}
		return a.copyFile(ctx, act)
	case Delete:
		return a.remove(act)
	default:
		return fmt.Errorf("unknown op %d for %s", act.Op, act.Entry.RelPath)
	}
}

func (a *Applier) createDir(act Action) error {
	if !a.DryRun {
		dst := a.dstPath(act.Entry)
		if err := os.MkdirAll(dst, act.Entry.Mode.Perm()); err != nil {
			a.Stats.AddFailed(1)
			return fmt.Errorf("mkdir %s: %w", dst, err)
		}
	}
	a.Stats.AddDirsCreated(1)
	return nil
}

func (a *Applier) copyFile(ctx context.Context, act Action) error {
	if a.DryRun {
		a.countFile(act)
		a.Stats.AddBytesCopied(act.Entry.Size)
		return nil
	}

	srcPath := a.srcPath(act.Entry)
	dstPath := a.dstPath(act.Entry)

	// Copy into a temp file next to the target and rename into place, so a
	// mid-copy failure never leaves a truncated file at the real path.
	tmpPath := filepath.Join(filepath.Dir(dstPath),
		fmt.Sprintf(".%s.%d.twin-tmp", filepath.Base(dstPath), os.Getpid()))

	written, err := a.copyData(ctx, srcPath, tmpPath, act.Entry)
	if err != nil {
		_ = os.Remove(tmpPath)
		a.Stats.AddFailed(1)
		return err
	}

	if err := os.Chmod(tmpPath, act.Entry.Mode.Perm()); err != nil {
		_ = os.Remove(tmpPath)
		a.Stats.AddFailed(1)
		return fmt.Errorf("chmod %s: %w", dstPath, err)
	}
	if err := os.Chtimes(tmpPath, act.Entry.AccTime, act.Entry.ModTime); err != nil {
		_ = os.Remove(tmpPath)
		a.Stats.AddFailed(1)
		return fmt.Errorf("set times %s: %w", dstPath, err)
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		a.Stats.AddFailed(1)
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, dstPath, err)
	}

	a.countFile(act)
	a.Stats.AddBytesCopied(written)
	return nil
}

func (a *Applier) copyData(
	ctx context.Context,
	srcPath, tmpPath string,
	entry Entry,
) (int64, error) {
	tmpFd, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, entry.Mode.Perm())
	if err != nil {
		return 0, fmt.Errorf("create tmp %s: %w", tmpPath, err)
	}

	var written int64
	if a.Limiter != nil {
		// Bandwidth cap: stream through the limiter instead of the kernel
		// fast paths, which would bypass it.
		srcFd, openErr := os.Open(srcPath)
		if openErr != nil {
			tmpFd.Close()
			return 0, fmt.Errorf("open %s: %w", srcPath, openErr)
		}
		written, err = platform.CopyStream(tmpFd, newRateLimitedReader(ctx, srcFd, a.Limiter))
		srcFd.Close()
	} else {
		var result platform.CopyResult
		result, err = platform.CopyFile(platform.CopyParams{
			SrcPath: srcPath,
			DstFd:   tmpFd,
			Size:    entry.Size,
		})
		written = result.BytesWritten
	}
	if err != nil {
		tmpFd.Close()
		return written, fmt.Errorf("copy %s: %w", srcPath, err)
	}

	if err := tmpFd.Close(); err != nil {
		return written, fmt.Errorf("close tmp %s: %w", tmpPath, err)
	}
	return written, nil
}

func (a *Applier) remove(act Action) error {
	if !a.DryRun {
		dst := a.dstPath(act.Entry)
		var err error
		if act.Recursive {
			err = os.RemoveAll(dst)
		} else {
			err = os.Remove(dst)
		}
		if err != nil && !os.IsNotExist(err) {
			a.Stats.AddFailed(1)
			return fmt.Errorf("delete %s: %w", dst, err)
		}
	}
	if act.Entry.Kind == Dir {
		a.Stats.AddDirsDeleted(1)
	} else {
		a.Stats.AddFilesDeleted(1)
	}
	return nil
}

func (a *Applier) countFile(act Action) {
	if act.Op == Update {
		a.Stats.AddFilesUpdated(1)
	} else {
		a.Stats.AddFilesCreated(1)
	}
}

func (a *Applier) srcPath(e Entry) string {
	return filepath.Join(a.SrcRoot, filepath.FromSlash(e.RelPath))
}

func (a *Applier) dstPath(e Entry) string {
	return filepath.Join(a.DstRoot, filepath.FromSlash(e.RelPath))
}
