package sync_test

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinsync/twin/internal/sync"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fileEntry(rel string, size int64, mod time.Time) sync.Entry {
	return sync.Entry{RelPath: rel, Kind: sync.File, Size: size, Mode: 0o644, ModTime: mod}
}

func dirEntry(rel string) sync.Entry {
	return sync.Entry{RelPath: rel, Kind: sync.Dir, Mode: fs.ModeDir | 0o755, ModTime: baseTime}
}

func entryMap(entries ...sync.Entry) map[string]sync.Entry {
	m := make(map[string]sync.Entry, len(entries))
	for _, e := range entries {
		m[e.RelPath] = e
	}
	return m
}

// ops extracts (op, path) pairs for compact assertions.
func ops(actions []sync.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Op.String() + " " + a.Entry.RelPath
	}
	return out
}

func TestPlanCreatesParentBeforeChild(t *testing.T) {
	src := entryMap(
		fileEntry("a/b/c.txt", 1, baseTime),
		dirEntry("a/b"),
		dirEntry("a"),
	)
	actions := sync.Plan(src, nil)

	assert.Equal(t, []string{
		"create a",
		"create a/b",
		"create a/b/c.txt",
	}, ops(actions))
}

func TestPlanDeletesChildBeforeParent(t *testing.T) {
	dst := entryMap(
		dirEntry("old"),
		dirEntry("old/nested"),
		fileEntry("old/nested/f.txt", 1, baseTime),
	)
	actions := sync.Plan(nil, dst)

	assert.Equal(t, []string{
		"delete old/nested/f.txt",
		"delete old/nested",
		"delete old",
	}, ops(actions))
}

func TestPlanSkipsIdenticalFiles(t *testing.T) {
	e := fileEntry("same.txt", 10, baseTime)
	actions := sync.Plan(entryMap(e), entryMap(e))

	require.Len(t, actions, 1)
	assert.Equal(t, sync.Skip, actions[0].Op)
}

func TestPlanUpdatesOnSizeChange(t *testing.T) {
	src := entryMap(fileEntry("f.txt", 20, baseTime))
	dst := entryMap(fileEntry("f.txt", 10, baseTime))

	actions := sync.Plan(src, dst)
	require.Len(t, actions, 1)
	assert.Equal(t, sync.Update, actions[0].Op)
}

func TestPlanUpdatesOnModTimeChange(t *testing.T) {
	src := entryMap(fileEntry("f.txt", 10, baseTime.Add(time.Second)))
	dst := entryMap(fileEntry("f.txt", 10, baseTime))

	actions := sync.Plan(src, dst)
	require.Len(t, actions, 1)
	assert.Equal(t, sync.Update, actions[0].Op)
}

func TestPlanSkipsDirsOnBothSides(t *testing.T) {
	actions := sync.Plan(entryMap(dirEntry("d")), entryMap(dirEntry("d")))
	require.Len(t, actions, 1)
	assert.Equal(t, sync.Skip, actions[0].Op)
}

func TestPlanFileReplacedByDir(t *testing.T) {
	// Source now has a directory where the replica has a file.
	src := entryMap(dirEntry("x"), fileEntry("x/inner.txt", 1, baseTime))
	dst := entryMap(fileEntry("x", 5, baseTime))

	actions := sync.Plan(src, dst)
	assert.Equal(t, []string{
		"delete x",
		"create x",
		"create x/inner.txt",
	}, ops(actions))
	assert.False(t, actions[0].Recursive)
}

func TestPlanDirReplacedByFile(t *testing.T) {
	// Source now has a file where the replica has a directory with content.
	src := entryMap(fileEntry("x", 5, baseTime))
	dst := entryMap(
		dirEntry("x"),
		fileEntry("x/stale.txt", 1, baseTime),
		dirEntry("x/sub"),
	)

	actions := sync.Plan(src, dst)
	assert.Equal(t, []string{
		"delete x",
		"create x",
	}, ops(actions), "subtree is consumed by the recursive delete")

	require.Equal(t, sync.Delete, actions[0].Op)
	assert.True(t, actions[0].Recursive)
}

func TestPlanMixedPass(t *testing.T) {
	src := entryMap(
		dirEntry("docs"),
		fileEntry("docs/new.md", 4, baseTime),
		fileEntry("changed.txt", 9, baseTime.Add(time.Minute)),
		fileEntry("same.txt", 3, baseTime),
	)
	dst := entryMap(
		fileEntry("changed.txt", 9, baseTime),
		fileEntry("same.txt", 3, baseTime),
		fileEntry("stale.txt", 7, baseTime),
	)

	actions := sync.Plan(src, dst)
	assert.Equal(t, []string{
		"update changed.txt",
		"create docs",
		"create docs/new.md",
		"skip same.txt",
		"delete stale.txt",
	}, ops(actions))
}

func TestPlanEmptyTrees(t *testing.T) {
	assert.Empty(t, sync.Plan(nil, nil))
	assert.Empty(t, sync.Plan(map[string]sync.Entry{}, map[string]sync.Entry{}))
}
