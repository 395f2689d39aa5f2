package sync

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/twinsync/twin/internal/filter"
)

// ErrNotFound marks a tree root that does not exist. A missing source root
// aborts the pass; a missing replica root is created by Sync instead.
var ErrNotFound = errors.New("root does not exist")

// Walk traverses the tree under root and returns its entries keyed by
// slash-relative path. Excluded names are not descended into, so the
// contents of an excluded directory are never visited. Unreadable entries
// below the root are logged and skipped rather than failing the walk.
func Walk(root string, excl *filter.Set, log *slog.Logger) (map[string]Entry, error) {
	if _, err := os.Lstat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}

	entries := make(map[string]Entry)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return fmt.Errorf("walk root %s: %w", root, walkErr)
			}
			log.Warn("skipping unreadable entry", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		if excl.Match(d.Name()) {
			log.Debug("excluded", "path", path, "name", d.Name())
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		var kind Kind
		switch {
		case d.IsDir():
			kind = Dir
		case d.Type().IsRegular():
			kind = File
		default:
			log.Debug("skipping irregular entry", "path", path, "type", d.Type().String())
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Entry disappeared between readdir and stat.
			log.Warn("skipping entry", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("rel path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		entries[rel] = newEntry(rel, kind, info)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
