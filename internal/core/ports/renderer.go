package ports

import (
	"context"
	"time"
)

// Renderer presents the progress of a running plan. Jobs are identified by
// the ID of the span that traces them.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start prepares the renderer before the first job runs.
	Start(ctx context.Context) error

	// Stop flushes pending output. No events arrive after Stop.
	Stop() error

	// Wait blocks until Stop has completed.
	Wait() error

	// OnPlanEmit receives job descriptions in plan order and, per job, the
	// jobs producing its inputs.
	OnPlanEmit(jobs []string, deps map[string][]string)

	// OnJobStart reports that a job began.
	OnJobStart(spanID, parentID, name string, startTime time.Time)

	// OnJobLog delivers a chunk of job output.
	OnJobLog(spanID string, data []byte)

	// OnJobComplete reports that a job ended; err is nil on success.
	OnJobComplete(spanID string, endTime time.Time, err error)
}
