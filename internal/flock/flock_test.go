//go:build unix

package flock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/taskmux/internal/flock"
)

func openLockFile(t *testing.T, path string) *os.File {
	t.Helper()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test file in temp dir
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func TestExclusive(t *testing.T) {
	t.Parallel()

	t.Run("acquires and releases lock", func(t *testing.T) {
		t.Parallel()

		f := openLockFile(t, filepath.Join(t.TempDir(), "cfg.lock"))

		require.NoError(t, flock.Exclusive(f.Fd()))
		require.NoError(t, flock.Unlock(f.Fd()))
	})

	t.Run("second holder is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cfg.lock")
		holder := openLockFile(t, path)
		require.NoError(t, flock.Exclusive(holder.Fd()))
		defer func() { _ = flock.Unlock(holder.Fd()) }()

		contender := openLockFile(t, path)
		assert.Error(t, flock.Exclusive(contender.Fd()))
	})

	t.Run("reacquire after unlock", func(t *testing.T) {
		t.Parallel()

		f := openLockFile(t, filepath.Join(t.TempDir(), "cfg.lock"))

		require.NoError(t, flock.Exclusive(f.Fd()))
		require.NoError(t, flock.Unlock(f.Fd()))
		require.NoError(t, flock.Exclusive(f.Fd()))
		require.NoError(t, flock.Unlock(f.Fd()))
	})
}
