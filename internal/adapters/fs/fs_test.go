package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/adapters/fs"
)

func TestOSFileSystem(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	fsys := fs.NewOSFileSystem()

	file := filepath.Join(dir, "nested", "deeper", "list.resp")
	require.NoError(t, fsys.WriteFile(file, []byte("-c\na.swift\n")))

	assert.True(t, fsys.Exists(file))
	assert.False(t, fsys.IsDir(file))
	assert.True(t, fsys.IsDir(filepath.Join(dir, "nested")))

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "-c\na.swift\n", string(data))

	require.NoError(t, fsys.RemoveAll(filepath.Join(dir, "nested")))
	assert.False(t, fsys.Exists(file))

	_, err = fsys.ReadFile(file)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFileSystem_MkdirAll(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "a", "b")
	fsys := fs.NewOSFileSystem()

	require.NoError(t, fsys.MkdirAll(dir))
	require.NoError(t, fsys.MkdirAll(dir))
	assert.True(t, fsys.IsDir(dir))
}
