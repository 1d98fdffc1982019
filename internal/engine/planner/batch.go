package planner

import (
	"math/rand"

	"go.trai.ch/swiftplan/internal/core/domain"
)

// DefaultBatchSizeLimit bounds the primaries of one batch job when no batch
// count is requested.
const DefaultBatchSizeLimit = 25

// batchPartitions splits primaries into the groups of batch-mode compile jobs.
// Groups are contiguous runs of the (optionally shuffled) inputs and differ in
// size by at most one.
func (c *Context) batchPartitions(primaries []domain.TypedVirtualPath) [][]domain.TypedVirtualPath {
	n := len(primaries)
	if n == 0 {
		return nil
	}

	count := c.batch.count
	if count == 0 {
		limit := c.batch.sizeLimit
		if limit == 0 {
			limit = DefaultBatchSizeLimit
		}
		count = max(c.batch.jobs, (n+limit-1)/limit)
	}
	count = min(max(count, 1), n)

	files := append([]domain.TypedVirtualPath(nil), primaries...)
	if c.batch.hasSeed {
		r := rand.New(rand.NewSource(c.batch.seed)) //nolint:gosec // reproducible test order only
		r.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
	}

	size, remainder := n/count, n%count
	out := make([][]domain.TypedVirtualPath, 0, count)
	start := 0
	for i := range count {
		end := start + size
		if i < remainder {
			end++
		}
		out = append(out, files[start:end])
		start = end
	}
	return out
}
