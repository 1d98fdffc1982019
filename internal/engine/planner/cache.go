package planner

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/swiftplan/internal/core/domain"
)

// OutputCacheKey derives the content key of the outputs job produces for the
// input at inputIndex. The key covers the tool and the finished command line,
// so any change in flags or paths yields a different key.
func OutputCacheKey(in *domain.Interner, job *domain.Job, inputIndex int) string {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}

	write(in.Lookup(job.Tool).String())
	var args func([]domain.ArgTemplate)
	args = func(list []domain.ArgTemplate) {
		for _, a := range list {
			write(a.Kind.String())
			write(a.Text)
			if a.Path.IsValid() {
				p := in.Lookup(a.Path)
				write(p.Kind.String())
				write(p.Name)
				if p.Contents != nil {
					for _, f := range p.Contents.Paths {
						write(in.Lookup(f).String())
					}
				}
			}
			args(a.Args)
		}
	}
	args(job.CommandLine)
	write(strconv.Itoa(inputIndex))
	return fmt.Sprintf("%016x", h.Sum64())
}

// cacheKeys computes one key per primary input, or a single key for the first
// input of a whole-module job.
func cacheKeys(in *domain.Interner, job *domain.Job) []domain.OutputCacheKey {
	if len(job.PrimaryInputs) > 0 {
		keys := make([]domain.OutputCacheKey, 0, len(job.PrimaryInputs))
		for _, p := range job.PrimaryInputs {
			idx := indexOf(job.Inputs, p)
			keys = append(keys, domain.OutputCacheKey{Input: p, Key: OutputCacheKey(in, job, idx)})
		}
		return keys
	}
	if len(job.Inputs) == 0 {
		return nil
	}
	return []domain.OutputCacheKey{{Input: job.Inputs[0], Key: OutputCacheKey(in, job, 0)}}
}

func indexOf(paths []domain.TypedVirtualPath, p domain.TypedVirtualPath) int {
	for i, q := range paths {
		if q == p {
			return i
		}
	}
	return -1
}
