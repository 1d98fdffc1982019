// Package telemetry traces job execution with OpenTelemetry and forwards
// span lifecycles and job output to a renderer.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultSizeLimit is the number of buffered bytes that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the longest output waits before being flushed.
	DefaultTimeLimit = 50 * time.Millisecond
)

// ErrOutputClosed is returned by writes after the batcher is closed.
var ErrOutputClosed = zerr.New("job output already closed")

// OutputBatcher collects job output and hands it to onFlush in chunks.
// Size-triggered flushes stop at the last complete line so a diagnostic
// is never split across two renderer calls; timed flushes and Close send
// whatever is buffered.
type OutputBatcher struct {
	sizeLimit int
	onFlush   func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Ticker
	done   chan struct{}
	closed bool
}

// NewOutputBatcher starts a batcher. Non-positive limits select the
// defaults. Close must be called to stop the background flusher.
func NewOutputBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *OutputBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	b := &OutputBatcher{
		sizeLimit: sizeLimit,
		onFlush:   onFlush,
		timer:     time.NewTicker(timeLimit),
		done:      make(chan struct{}),
	}
	go b.loop()
	return b
}

// Write buffers p.
func (b *OutputBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrOutputClosed
	}

	n, _ := b.buf.Write(p)
	if b.buf.Len() >= b.sizeLimit {
		b.emitLocked(b.lineBoundaryLocked())
	}
	return n, nil
}

// Flush sends everything buffered so far.
func (b *OutputBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.emitLocked(b.buf.Len())
	}
}

// Close stops the flusher and sends the remaining output. It is idempotent.
func (b *OutputBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	b.emitLocked(b.buf.Len())
	return nil
}

func (b *OutputBatcher) loop() {
	defer b.timer.Stop()
	for {
		select {
		case <-b.timer.C:
			b.Flush()
		case <-b.done:
			return
		}
	}
}

// lineBoundaryLocked returns how many buffered bytes end in a newline, or
// the whole buffer when no newline is present.
func (b *OutputBatcher) lineBoundaryLocked() int {
	if i := bytes.LastIndexByte(b.buf.Bytes(), '\n'); i >= 0 {
		return i + 1
	}
	return b.buf.Len()
}

func (b *OutputBatcher) emitLocked(n int) {
	if n == 0 {
		return
	}
	chunk := make([]byte, n)
	_, _ = b.buf.Read(chunk)
	if b.onFlush != nil {
		b.onFlush(chunk)
	}
}
