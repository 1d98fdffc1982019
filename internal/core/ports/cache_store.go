package ports

import "go.trai.ch/swiftplan/internal/core/domain"

// CacheKeyStore records which output cache keys have been built.
//
//go:generate mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheKeyStore interface {
	// Get retrieves the record for key.
	// Returns nil, nil if not found.
	Get(key string) (*domain.CacheRecord, error)

	// Put stores the record.
	Put(record domain.CacheRecord) error
}
