package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySetMatchesNothing(t *testing.T) {
	s, err := Compile(nil)
	require.NoError(t, err)
	assert.True(t, s.Empty())
	assert.False(t, s.Match("anything.txt"))
}

func TestNilSetMatchesNothing(t *testing.T) {
	var s *Set
	assert.False(t, s.Match("anything.txt"))
	assert.True(t, s.Empty())
}

func TestMatchesAnyPattern(t *testing.T) {
	s, err := Compile([]string{"*.tmp", ".git", "cache-?"})
	require.NoError(t, err)

	assert.True(t, s.Match("scratch.tmp"))
	assert.True(t, s.Match(".git"))
	assert.True(t, s.Match("cache-a"))
	assert.False(t, s.Match("cache-ab"))
	assert.False(t, s.Match("keep.txt"))
}

func TestCompileSurfacesBadPattern(t *testing.T) {
	_, err := Compile([]string{"*.tmp", "[bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[bad")
}

func TestPatternsRoundTrip(t *testing.T) {
	globs := []string{"*.tmp", ".DS_Store"}
	s, err := Compile(globs)
	require.NoError(t, err)
	assert.Equal(t, globs, s.Patterns())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excludes")
	content := "# build artifacts\n*.tmp\n\n.git\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Compile(nil)
	require.NoError(t, err)
	require.NoError(t, s.LoadFile(path))

	assert.True(t, s.Match("x.tmp"))
	assert.True(t, s.Match(".git"))
	assert.False(t, s.Match("# build artifacts"))
}

func TestLoadFileMissing(t *testing.T) {
	s, err := Compile(nil)
	require.NoError(t, err)
	assert.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "nope")))
}

func TestLoadFileBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excludes")
	require.NoError(t, os.WriteFile(path, []byte("[oops\n"), 0o644))

	s, err := Compile(nil)
	require.NoError(t, err)
	err = s.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
