// Package linear provides a synchronous, line-buffered renderer for
// terminals and CI logs.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/ui/output"
	"go.trai.ch/swiftplan/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer by printing one line per job event,
// numbered against the plan: "[2/5] Compiling main b.swift".
// Job output is printed line by line with the job's counter as prefix.
// Spans that are not planned jobs are ignored.
type Renderer struct {
	out    io.Writer
	output *termenv.Output

	mu      sync.Mutex
	planned map[string]bool
	total   int
	started int
	jobs    map[string]*jobState // spanID -> job state
}

type jobState struct {
	name      string
	index     int
	startTime time.Time
	buffer    bytes.Buffer
}

// NewRenderer creates a new Renderer writing to w, or to stderr if w is nil.
// Colors use the ANSI profile.
func NewRenderer(w io.Writer) *Renderer {
	return NewRendererWithProfile(w, output.ColorProfileANSI())
}

// NewRendererWithProfile creates a Renderer writing to w with the given color
// profile.
func NewRendererWithProfile(w io.Writer, profile termenv.Profile) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	return &Renderer{
		out:     w,
		output:  output.NewWithProfile(w, profile),
		planned: make(map[string]bool),
		jobs:    make(map[string]*jobState),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all partial output lines.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		r.flushLocked(job)
	}
	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit records the planned jobs.
func (r *Renderer) OnPlanEmit(jobs []string, _ map[string][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.planned = make(map[string]bool, len(jobs))
	for _, name := range jobs {
		r.planned[name] = true
	}
	r.total = len(jobs)
	r.started = 0
}

// OnJobStart prints the job description with its position in the plan.
func (r *Renderer) OnJobStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.planned[name] {
		return
	}
	r.started++
	job := &jobState{name: name, index: r.started, startTime: startTime}
	r.jobs[spanID] = job

	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.counter(job), name)
}

// OnJobLog prints complete lines of job output.
func (r *Renderer) OnJobLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}

	job.buffer.Write(data)
	for {
		i := bytes.IndexByte(job.buffer.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := job.buffer.Next(i + 1)
		r.printLineLocked(job, line)
	}
}

// OnJobComplete flushes remaining output. Failures are reported with the
// error; successes print nothing further.
func (r *Renderer) OnJobComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}
	r.flushLocked(job)
	delete(r.jobs, spanID)

	if err == nil {
		return
	}
	symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red))).String()
	_, _ = fmt.Fprintf(r.out, "%s %s %s failed after %v: %v\n",
		r.counter(job), symbol, job.name, endTime.Sub(job.startTime).Round(time.Millisecond), err)
}

func (r *Renderer) counter(job *jobState) string {
	return r.output.String(fmt.Sprintf("[%d/%d]", job.index, r.total)).Faint().String()
}

// flushLocked must be called with r.mu held.
func (r *Renderer) flushLocked(job *jobState) {
	if job.buffer.Len() > 0 {
		r.printLineLocked(job, job.buffer.Bytes())
		job.buffer.Reset()
	}
}

// printLineLocked must be called with r.mu held.
func (r *Renderer) printLineLocked(job *jobState, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.counter(job), line)
}
