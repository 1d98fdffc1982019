package domain

import "time"

// CacheRecord remembers that a job with a given output cache key completed
// over inputs with the recorded digest.
type CacheRecord struct {
	Key       string    `json:"key"`
	Job       string    `json:"job"`
	InputHash string    `json:"inputHash"`
	Outputs   []string  `json:"outputs"`
	Timestamp time.Time `json:"timestamp"`
}
