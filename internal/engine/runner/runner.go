// Package runner executes a planned set of jobs.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options controls a single run.
type Options struct {
	// Parallelism bounds the number of jobs executing at once.
	Parallelism int
	// NoCache runs every job even when its output cache keys are recorded.
	NoCache bool
	// Env is added to the environment of every job.
	Env map[string]string
	// WorkingDir is the directory jobs are started in.
	WorkingDir string
	// KeepTemporaries leaves the temporary directory in place after the run.
	KeepTemporaries bool
	// Stdout receives the standard output of jobs writing to "-".
	Stdout io.Writer
}

// Runner executes plans.
type Runner struct {
	executor ports.Executor
	store    ports.CacheKeyStore
	fs       ports.FileSystem
	hasher   ports.Hasher
	tracer   ports.Tracer
	logger   ports.Logger
}

// New creates a Runner with the given dependencies.
func New(
	executor ports.Executor,
	store ports.CacheKeyStore,
	fs ports.FileSystem,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Runner {
	return &Runner{
		executor: executor,
		store:    store,
		fs:       fs,
		hasher:   hasher,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run executes jobs, which must be in plan order. A job starts once every job
// producing one of its inputs has succeeded. A job replacing the driver
// process runs last, after the temporary directory is gone.
func (r *Runner) Run(
	ctx context.Context,
	in *domain.Interner,
	resolver *commandline.Resolver,
	jobs []*domain.Job,
	opts Options,
) error {
	if len(jobs) == 0 {
		return domain.ErrNoJobs
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = runtime.NumCPU()
	}

	var inPlace *domain.Job
	if last := jobs[len(jobs)-1]; last.RequiresInPlaceExecution {
		inPlace = last
		jobs = jobs[:len(jobs)-1]
	}

	if err := r.fs.MkdirAll(resolver.TemporaryDirectory()); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTemporaryDirectoryFailed.Error()), "path", resolver.TemporaryDirectory())
	}

	err := r.runAll(ctx, in, resolver, jobs, opts)
	if inPlace == nil || err != nil {
		if !opts.KeepTemporaries {
			r.removeTemporaries(resolver)
		}
		return err
	}

	r.removeTemporaries(resolver)
	inv, err := resolver.ResolveJob(inPlace, opts.Env)
	if err != nil {
		return err
	}
	inv.Dir = opts.WorkingDir
	if err := r.executor.Replace(inv); err != nil {
		name := inPlace.Description(in)
		return zerr.With(zerr.Wrap(err, name), "job", name)
	}
	return nil
}

func (r *Runner) removeTemporaries(resolver *commandline.Resolver) {
	if err := r.fs.RemoveAll(resolver.TemporaryDirectory()); err != nil {
		r.logger.Warn(fmt.Sprintf("failed to remove temporary directory %s: %v", resolver.TemporaryDirectory(), err))
	}
}

func (r *Runner) runAll(
	ctx context.Context,
	in *domain.Interner,
	resolver *commandline.Resolver,
	jobs []*domain.Job,
	opts Options,
) error {
	if len(jobs) == 0 {
		return nil
	}
	state := r.newRunState(ctx, in, resolver, jobs, opts)

	deps := make(map[string][]string, len(jobs))
	for i, name := range state.names {
		deps[name] = make([]string, 0, len(state.producers[i]))
		for _, p := range state.producers[i] {
			deps[name] = append(deps[name], state.names[p])
		}
	}
	r.tracer.EmitPlan(ctx, state.names, deps)

	// Phase 1: digest external inputs and look up every recorded cache key
	// before execution starts.
	lookupCtx, span := r.tracer.Start(ctx, "Checking output cache")
	err := state.lookupCache(lookupCtx)
	span.End()
	if err != nil {
		return err
	}

	return state.runExecutionLoop()
}

type result struct {
	index   int
	err     error
	skipped bool
}

type runState struct {
	r        *Runner
	ctx      context.Context
	in       *domain.Interner
	resolver *commandline.Resolver
	jobs     []*domain.Job
	opts     Options

	names       []string
	inputHashes []string
	producers   [][]int
	dependents  [][]int
	inDegree    []int
	cached      []bool
	dirty       []bool
	ready       []int
	active      int
	resultsCh   chan result
	errs        error
}

func (r *Runner) newRunState(
	ctx context.Context,
	in *domain.Interner,
	resolver *commandline.Resolver,
	jobs []*domain.Job,
	opts Options,
) *runState {
	n := len(jobs)
	state := &runState{
		r:           r,
		ctx:         ctx,
		in:          in,
		resolver:    resolver,
		jobs:        jobs,
		opts:        opts,
		names:       jobNames(in, jobs),
		inputHashes: make([]string, n),
		producers:   make([][]int, n),
		dependents:  make([][]int, n),
		inDegree:    make([]int, n),
		cached:      make([]bool, n),
		dirty:       make([]bool, n),
		resultsCh:   make(chan result, opts.Parallelism),
	}

	producer := make(map[domain.PathHandle]int)
	for i, job := range jobs {
		for _, o := range job.Outputs {
			if !in.Lookup(o.File).IsStream() {
				producer[o.File] = i
			}
		}
	}
	for i, job := range jobs {
		seen := make(map[int]bool)
		for _, input := range job.Inputs {
			p, ok := producer[input.File]
			if !ok || p >= i || seen[p] {
				continue
			}
			seen[p] = true
			state.producers[i] = append(state.producers[i], p)
			state.dependents[p] = append(state.dependents[p], i)
			state.inDegree[i]++
		}
		if state.inDegree[i] == 0 {
			state.ready = append(state.ready, i)
		}
	}
	return state
}

// jobNames returns a distinct display name per job.
func jobNames(in *domain.Interner, jobs []*domain.Job) []string {
	names := make([]string, len(jobs))
	counts := make(map[string]int, len(jobs))
	for i, job := range jobs {
		name := job.Description(in)
		counts[name]++
		if c := counts[name]; c > 1 {
			name = fmt.Sprintf("%s (%d)", name, c)
		}
		names[i] = name
	}
	return names
}

// lookupCache digests the inputs of every job with output cache keys and
// marks the jobs whose keys are all recorded over the same digest and whose
// outputs are all present.
func (state *runState) lookupCache(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, job := range state.jobs {
		if len(job.OutputCacheKeys) == 0 {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			hash, err := state.r.hasher.ComputeInputHash(state.externalInputs(i))
			if err != nil {
				state.r.logger.Debug(fmt.Sprintf("cache disabled for %s: hashing inputs failed: %v", state.names[i], err))
				return nil
			}
			state.inputHashes[i] = hash
			if state.opts.NoCache {
				return nil
			}

			for _, k := range job.OutputCacheKeys {
				record, err := state.r.store.Get(k.Key)
				if err != nil {
					return zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "job", state.names[i])
				}
				if record == nil || record.InputHash != hash {
					return nil
				}
			}
			for _, o := range job.Outputs {
				if state.in.Lookup(o.File).IsStream() {
					continue
				}
				if !state.r.fs.Exists(state.resolver.RenderPath(o.File)) {
					return nil
				}
			}
			state.cached[i] = true
			return nil
		})
	}

	return g.Wait()
}

// externalInputs lists the files job i reads that no job of the plan writes.
func (state *runState) externalInputs(i int) []string {
	produced := make(map[domain.PathHandle]bool)
	for _, p := range state.producers[i] {
		for _, o := range state.jobs[p].Outputs {
			produced[o.File] = true
		}
	}
	var paths []string
	for _, input := range state.jobs[i].Inputs {
		p := state.in.Lookup(input.File)
		if produced[input.File] || p.IsStream() || p.IsTemporary() {
			continue
		}
		paths = append(paths, state.resolver.RenderPath(input.File))
	}
	return paths
}

func (state *runState) runExecutionLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.opts.Parallelism && state.ctx.Err() == nil {
		i := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		skip := state.cached[i] && !state.dirty[i]
		go state.executeJob(i, skip)
	}
}

func (state *runState) executeJob(i int, skip bool) {
	// The span ends before the result is sent so the loop never finishes
	// ahead of the span being recorded.
	res := func() result {
		job := state.jobs[i]
		ctx, span := state.r.tracer.Start(state.ctx, state.names[i],
			ports.WithAttribute("swiftplan.kind", job.Kind.String()),
			ports.WithAttribute("swiftplan.module", job.ModuleName),
		)
		defer span.End()

		if skip {
			span.SetAttribute("swiftplan.cached", true)
			return result{index: i, skipped: true}
		}

		inv, err := state.resolver.ResolveJob(job, state.opts.Env)
		if err != nil {
			span.RecordError(err)
			return result{index: i, err: err}
		}
		inv.Dir = state.opts.WorkingDir

		var stdout io.Writer = span
		if state.opts.Stdout != nil && state.writesStdout(job) {
			stdout = state.opts.Stdout
		}
		if err := state.r.executor.Execute(ctx, inv, stdout, span); err != nil {
			span.RecordError(err)
			return result{index: i, err: err}
		}
		return result{index: i}
	}()

	state.resultsCh <- res
}

func (state *runState) writesStdout(job *domain.Job) bool {
	for _, o := range job.Outputs {
		if state.in.Lookup(o.File).Kind == domain.PathStandardOutput {
			return true
		}
	}
	return false
}

func (state *runState) handleResult(res result) {
	state.active--

	if res.err != nil {
		name := state.names[res.index]
		state.errs = errors.Join(state.errs, zerr.With(zerr.Wrap(res.err, name), "job", name))
		return
	}
	state.handleSuccess(res)
}

func (state *runState) handleSuccess(res result) {
	if !res.skipped {
		state.recordCacheKeys(res.index)
	}

	for _, dep := range state.dependents[res.index] {
		if !res.skipped {
			state.dirty[dep] = true
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

func (state *runState) recordCacheKeys(i int) {
	job := state.jobs[i]
	if len(job.OutputCacheKeys) == 0 || state.inputHashes[i] == "" {
		return
	}
	outputs := make([]string, 0, len(job.Outputs))
	for _, o := range job.Outputs {
		outputs = append(outputs, state.resolver.RenderPath(o.File))
	}
	now := time.Now()
	for _, k := range job.OutputCacheKeys {
		err := state.r.store.Put(domain.CacheRecord{
			Key:       k.Key,
			Job:       state.names[i],
			InputHash: state.inputHashes[i],
			Outputs:   outputs,
			Timestamp: now,
		})
		if err != nil {
			state.r.logger.Warn(fmt.Sprintf("failed to record cache key for %s: %v", state.names[i], err))
		}
	}
}
