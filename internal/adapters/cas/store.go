// Package cas implements the output cache key store.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheKeyStore using a file-per-key strategy.
type Store struct {
	dir string
}

// NewStore creates a store keeping its records in dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, domain.NewError(domain.ErrStoreCreateFailed, "store directory is empty")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the records.
func (s *Store) Dir() string {
	return s.dir
}

// Get retrieves the record for key.
func (s *Store) Get(key string) (*domain.CacheRecord, error) {
	filename := s.getFilename(key)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var record domain.CacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", key)
	}
	if record.Key != key {
		return nil, nil
	}

	return &record, nil
}

// Put stores the record.
func (s *Store) Put(record domain.CacheRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	filename := s.getFilename(record.Key)
	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

func (s *Store) getFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}
