package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteFile(t *testing.T) {
	t.Run("writes file with requested permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rpcstub.json")

		require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0640))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	})

	t.Run("replaces existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rpcstub.json")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

		require.NoError(t, AtomicWriteFile(path, []byte("new"), 0644))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("refuses to write to symlink", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "target.json")
		link := filepath.Join(dir, "link.json")
		require.NoError(t, os.WriteFile(target, []byte("original"), 0644))
		require.NoError(t, os.Symlink(target, link))

		err := AtomicWriteFile(link, []byte("modified"), 0644)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
	})

	t.Run("creates parent directory and leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "conf", "rpcstub.json")

		require.NoError(t, AtomicWriteFile(path, []byte("hello"), 0644))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "rpcstub.json", entries[0].Name())
	})
}

func TestEnsureDir(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")

		require.NoError(t, EnsureDir(dir, 0755))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("succeeds if directory exists", func(t *testing.T) {
		assert.NoError(t, EnsureDir(t.TempDir(), 0755))
	})
}
