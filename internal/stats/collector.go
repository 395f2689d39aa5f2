// Package stats tracks per-pass counters for the mirror engine.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector accumulates counters over one sync pass. Counters are atomic so
// a verify pass or future parallel applier can share the collector safely.
type Collector struct {
	filesCreated atomic.Int64
	filesUpdated atomic.Int64
	filesDeleted atomic.Int64
	dirsCreated  atomic.Int64
	dirsDeleted  atomic.Int64
	skipped      atomic.Int64
	failed       atomic.Int64
	bytesCopied  atomic.Int64
	verified     atomic.Int64
	verifyFailed atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddFilesCreated(n int64) { c.filesCreated.Add(n) }
func (c *Collector) AddFilesUpdated(n int64) { c.filesUpdated.Add(n) }
func (c *Collector) AddFilesDeleted(n int64) { c.filesDeleted.Add(n) }
func (c *Collector) AddDirsCreated(n int64)  { c.dirsCreated.Add(n) }
func (c *Collector) AddDirsDeleted(n int64)  { c.dirsDeleted.Add(n) }
func (c *Collector) AddSkipped(n int64)      { c.skipped.Add(n) }
func (c *Collector) AddFailed(n int64)       { c.failed.Add(n) }
func (c *Collector) AddBytesCopied(n int64)  { c.bytesCopied.Add(n) }
func (c *Collector) AddVerified(n int64)     { c.verified.Add(n) }
func (c *Collector) AddVerifyFailed(n int64) { c.verifyFailed.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCreated int64
	FilesUpdated int64
	FilesDeleted int64
	DirsCreated  int64
	DirsDeleted  int64
	Skipped      int64
	Failed       int64
	BytesCopied  int64
	Verified     int64
	VerifyFailed int64
	Elapsed      time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCreated: c.filesCreated.Load(),
		FilesUpdated: c.filesUpdated.Load(),
		FilesDeleted: c.filesDeleted.Load(),
		DirsCreated:  c.dirsCreated.Load(),
		DirsDeleted:  c.dirsDeleted.Load(),
		Skipped:      c.skipped.Load(),
		Failed:       c.failed.Load(),
		BytesCopied:  c.bytesCopied.Load(),
		Verified:     c.verified.Load(),
		VerifyFailed: c.verifyFailed.Load(),
		Elapsed:      time.Since(c.startTime),
	}
}

// Changed reports whether the pass performed (or would perform) any mutation.
func (s Snapshot) Changed() bool {
	return s.FilesCreated+s.FilesUpdated+s.FilesDeleted+s.DirsCreated+s.DirsDeleted > 0
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"created=%d updated=%d deleted=%d dirs_created=%d dirs_deleted=%d skipped=%d failed=%d bytes=%s",
		s.FilesCreated, s.FilesUpdated, s.FilesDeleted,
		s.DirsCreated, s.DirsDeleted, s.Skipped, s.Failed,
		FormatBytes(s.BytesCopied),
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
