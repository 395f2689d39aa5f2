//go:build !linux && !darwin

package sync

import (
	"io/fs"
	"time"
)

func atime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
