package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/adapters/fs"
)

func TestHasher_ComputeInputHash(t *testing.T) {
	t.Parallel()

	t.Run("content change", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "main.swift")
		require.NoError(t, os.WriteFile(file, []byte("print(1)"), 0o600))

		hasher := fs.NewHasher(fs.NewWalker())
		hash1, err := hasher.ComputeInputHash([]string{file})
		require.NoError(t, err)
		assert.Len(t, hash1, 16)

		require.NoError(t, os.WriteFile(file, []byte("print(2)"), 0o600))
		hash2, err := hasher.ComputeInputHash([]string{file})
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("metadata change", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "main.swift")
		require.NoError(t, os.WriteFile(file, []byte("print(1)"), 0o600))

		hasher := fs.NewHasher(fs.NewWalker())
		hash1, err := hasher.ComputeInputHash([]string{file})
		require.NoError(t, err)

		future := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(file, future, future))

		hash2, err := hasher.ComputeInputHash([]string{file})
		require.NoError(t, err)
		assert.Equal(t, hash1, hash2)
	})

	t.Run("ordering and duplicates", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		a := filepath.Join(dir, "a.swift")
		b := filepath.Join(dir, "b.swift")
		require.NoError(t, os.WriteFile(a, []byte("A"), 0o600))
		require.NoError(t, os.WriteFile(b, []byte("B"), 0o600))

		hasher := fs.NewHasher(fs.NewWalker())
		hash1, err := hasher.ComputeInputHash([]string{a, b})
		require.NoError(t, err)
		hash2, err := hasher.ComputeInputHash([]string{b, a, b})
		require.NoError(t, err)

		assert.Equal(t, hash1, hash2)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{"Core.swiftmodule/arm64.swiftinterface": "v1"})

		hasher := fs.NewHasher(fs.NewWalker())
		hash1, err := hasher.ComputeInputHash([]string{filepath.Join(dir, "Core.swiftmodule")})
		require.NoError(t, err)

		writeTree(t, dir, map[string]string{"Core.swiftmodule/arm64.swiftinterface": "v2"})
		hash2, err := hasher.ComputeInputHash([]string{filepath.Join(dir, "Core.swiftmodule")})
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()
		hasher := fs.NewHasher(fs.NewWalker())
		_, err := hasher.ComputeInputHash([]string{filepath.Join(t.TempDir(), "missing.swift")})
		require.Error(t, err)
		assert.ErrorContains(t, err, "input not found")
	})

	t.Run("no inputs", func(t *testing.T) {
		t.Parallel()
		hasher := fs.NewHasher(fs.NewWalker())
		hash, err := hasher.ComputeInputHash(nil)
		require.NoError(t, err)
		assert.Len(t, hash, 16)
	})
}
