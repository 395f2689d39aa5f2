package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinsync/twin/internal/logging"
)

func TestRotatingWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twin.log")

	w, err := logging.NewRotatingWriter(path, 0, -1)
	require.NoError(t, err)
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Reopening continues the same file.
	w, err = logging.NewRotatingWriter(path, 0, -1)
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestRotatingWriterRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twin.log")

	w, err := logging.NewRotatingWriter(path, 10, 2)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("aaaaaaaa\n")) // 9 bytes
	require.NoError(t, err)
	_, err = w.Write([]byte("bbbbbbbb\n")) // would exceed 10 — rotates first
	require.NoError(t, err)

	live, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb\n", string(live))

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa\n", string(backup))
}

func TestRotatingWriterDropsOldestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twin.log")

	w, err := logging.NewRotatingWriter(path, 4, 2)
	require.NoError(t, err)
	defer w.Close()

	for _, s := range []string{"one\n", "two\n", "three\n", "four\n"} {
		_, err = w.Write([]byte(s))
		require.NoError(t, err)
	}

	// Only two backups survive; "one" has been pushed out.
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")

	oldest, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.NotContains(t, string(oldest), "one")
}

func TestRotatingWriterNoBackupsTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twin.log")

	w, err := logging.NewRotatingWriter(path, 8, 0)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte("aaaaaaa\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("b\n"))
	require.NoError(t, err)

	live, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b\n", string(live))
	assert.NoFileExists(t, path+".1")
}

func TestRotatingWriterCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "twin.log")

	w, err := logging.NewRotatingWriter(path, 0, -1)
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Repeat("x", 16)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.FileExists(t, path)
}
