package sync_test

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFile creates a file (and its parent directories) under root.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// touch sets a file's mtime (and atime) to a fixed instant so change
// detection is deterministic across fast-running tests.
func touch(t *testing.T, root, rel string, at time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(filepath.Join(root, filepath.FromSlash(rel)), at, at))
}

// createTestTree populates root with a standard test tree:
//
//	root.txt          (17 bytes)
//	sub/mid.txt       (19 bytes)
//	sub/deep/leaf.txt (17 bytes)
//	empty/            (empty directory)
func createTestTree(t *testing.T, root string) {
	t.Helper()
	writeFile(t, root, "root.txt", "root file content")
	writeFile(t, root, "sub/mid.txt", "middle file content")
	writeFile(t, root, "sub/deep/leaf.txt", "leaf file content")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
}

// treePaths returns every path under root, slash-relative, directories with
// a trailing slash, sorted.
func treePaths(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

// fileMeta is a comparable snapshot of one file's metadata.
type fileMeta struct {
	size    int64
	modTime time.Time
}

// treeSnapshot captures paths plus file sizes and mtimes, for asserting
// that a tree did or did not change.
func treeSnapshot(t *testing.T, root string) map[string]fileMeta {
	t.Helper()
	snap := make(map[string]fileMeta)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = fileMeta{size: info.Size(), modTime: info.ModTime()}
		return nil
	})
	require.NoError(t, err)
	return snap
}
