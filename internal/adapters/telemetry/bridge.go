package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is a span processor that turns job spans into renderer events.
// Span IDs identify jobs to the renderer.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer turns
// the bridge into a no-op.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports a job start.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	id, ok := b.jobID(s.SpanContext())
	if !ok {
		return
	}
	parentID, _ := b.jobID(trace.SpanContextFromContext(parent))
	b.renderer.OnJobStart(id, parentID, s.Name(), s.StartTime())
}

// OnEnd reports a job completion. Spans ended with an error status
// complete with an ErrJobFailed carrying the status description.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id, ok := b.jobID(s.SpanContext())
	if !ok {
		return
	}
	b.renderer.OnJobComplete(id, s.EndTime(), spanError(s.Status()))
}

// ForceFlush is a no-op; events are delivered synchronously.
func (b *Bridge) ForceFlush(context.Context) error { return nil }

// Shutdown is a no-op.
func (b *Bridge) Shutdown(context.Context) error { return nil }

func (b *Bridge) jobID(sc trace.SpanContext) (string, bool) {
	if b.renderer == nil || !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func spanError(status sdktrace.Status) error {
	if status.Code != codes.Error {
		return nil
	}
	if status.Description == "" {
		return domain.ErrJobFailed
	}
	return domain.NewError(domain.ErrJobFailed, status.Description)
}
