// Package sync implements one-way mirroring of a source directory tree into
// a replica tree: walk both trees, plan the create/update/delete actions
// that make the replica match the source, and apply them in a safe order.
package sync

import (
	"io/fs"
	"time"
)

// Kind identifies the kind of filesystem entry a pass reasons about.
// Anything else (symlinks, devices, sockets) is skipped during the walk.
type Kind int

const (
	File Kind = iota
	Dir
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Dir:
		return "dir"
	default:
		return "unknown"
	}
}

// Entry is a filesystem object discovered during a walk. RelPath is
// slash-separated and relative to the tree root, so source and replica
// entries are directly comparable. Entries are produced fresh each pass.
type Entry struct {
	RelPath string
	Kind    Kind
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	AccTime time.Time
}

// newEntry builds an Entry from walk results.
func newEntry(relPath string, kind Kind, info fs.FileInfo) Entry {
	e := Entry{
		RelPath: relPath,
		Kind:    kind,
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		AccTime: atime(info),
	}
	if kind == File {
		e.Size = info.Size()
	}
	return e
}
