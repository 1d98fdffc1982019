package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher digests file contents with XXHash.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return digest.Sum64(), nil
}

// ComputeInputHash returns one digest over paths and their contents. Order
// of paths does not matter. Directories contribute every file below them.
// Modification times are ignored.
func (h *Hasher) ComputeInputHash(paths []string) (string, error) {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	digest := xxhash.New()
	for _, path := range sorted {
		if err := h.hashPath(path, digest); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", digest.Sum64()), nil
}

func (h *Hasher) hashPath(path string, digest io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "input not found"), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(path, digest)
	}
	for file := range h.walker.WalkFiles(path, nil) {
		if err := h.hashFile(file, digest); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(path string, digest io.Writer) error {
	_, _ = digest.Write([]byte(path))
	_, _ = digest.Write([]byte{0})

	sum, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}
	if err := binary.Write(digest, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
