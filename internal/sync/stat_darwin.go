//go:build darwin

package sync

import (
	"io/fs"
	"syscall"
	"time"
)

// atime extracts the access time from the underlying stat, falling back to
// mtime when the platform stat is unavailable.
func atime(info fs.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
	}
	return info.ModTime()
}
