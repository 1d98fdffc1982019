package runner_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/swiftplan/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

const tempDir = "/tmp/swiftplan-test"

type runnerTestMocks struct {
	executor *mocks.MockExecutor
	store    *mocks.MockCacheKeyStore
	fs       *mocks.MockFileSystem
	hasher   *mocks.MockHasher
	tracer   *mocks.MockTracer
	logger   *mocks.MockLogger
}

// setupRunnerTest creates a runner and common mocks.
func setupRunnerTest(t *testing.T) (*runner.Runner, runnerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := runnerTestMocks{
		executor: mocks.NewMockExecutor(ctrl),
		store:    mocks.NewMockCacheKeyStore(ctrl),
		fs:       mocks.NewMockFileSystem(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	mockSpan.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) { return len(p), nil }).AnyTimes()

	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	return runner.New(m.executor, m.store, m.fs, m.hasher, m.tracer, m.logger), m
}

type plan struct {
	in       *domain.Interner
	resolver *commandline.Resolver
	jobs     []*domain.Job
}

// newPlan builds compile a.swift, compile b.swift and link over both objects.
func newPlan(t *testing.T, fs ports.FileSystem) plan {
	t.Helper()
	in := domain.NewInterner()
	tool := in.Intern(domain.Absolute("/usr/bin/swift-frontend"))
	linker := in.Intern(domain.Absolute("/usr/bin/clang"))

	compile := func(name string) *domain.Job {
		src := domain.NewTypedPath(in.Intern(domain.Relative(name+".swift")), domain.FileTypeSwift)
		obj := domain.NewTypedPath(in.Intern(domain.Temporary(name+".o")), domain.FileTypeObject)
		return &domain.Job{
			ModuleName:    "main",
			Kind:          domain.JobCompile,
			Tool:          tool,
			CommandLine:   []domain.ArgTemplate{domain.Flag("-c"), domain.PathArg(src.File), domain.Flag("-o"), domain.PathArg(obj.File)},
			DisplayInputs: []domain.TypedVirtualPath{src},
			Inputs:        []domain.TypedVirtualPath{src},
			PrimaryInputs: []domain.TypedVirtualPath{src},
			Outputs:       []domain.TypedVirtualPath{obj},
		}
	}
	a, b := compile("a"), compile("b")
	exe := domain.NewTypedPath(in.Intern(domain.Relative("main")), domain.FileTypeImage)
	link := &domain.Job{
		ModuleName:  "main",
		Kind:        domain.JobLink,
		Tool:        linker,
		CommandLine: []domain.ArgTemplate{domain.PathArg(a.Outputs[0].File), domain.PathArg(b.Outputs[0].File)},
		Inputs:      []domain.TypedVirtualPath{a.Outputs[0], b.Outputs[0]},
		Outputs:     []domain.TypedVirtualPath{exe},
	}

	return plan{
		in:       in,
		resolver: commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesNever),
		jobs:     []*domain.Job{a, b, link},
	}
}

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) execute(_ context.Context, inv *domain.Invocation, _, _ io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv.Executable)
	return nil
}

func TestRunner_RunsInDependencyOrder(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)

	rec := &recorder{}
	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(rec.execute).Times(3)

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 2})
	require.NoError(t, err)

	require.Len(t, rec.calls, 3)
	assert.Equal(t, "/usr/bin/clang", rec.calls[2])
}

func TestRunner_PassesResolvedInvocation(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	p.jobs = p.jobs[:1]
	p.jobs[0].ExtraEnvironment = map[string]string{"JOB": "1"}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *domain.Invocation, _, _ io.Writer) error {
			assert.Equal(t, "/usr/bin/swift-frontend", inv.Executable)
			assert.Equal(t, []string{"-c", "a.swift", "-o", tempDir + "/a.o"}, inv.Args)
			assert.Equal(t, []string{"GLOBAL=1", "JOB=1"}, inv.Env)
			assert.Equal(t, "/work", inv.Dir)
			return nil
		},
	)

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{
		Parallelism:     1,
		Env:             map[string]string{"GLOBAL": "1"},
		WorkingDir:      "/work",
		KeepTemporaries: true,
	})
	require.NoError(t, err)
}

func TestRunner_FailurePropagation(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *domain.Invocation, _, _ io.Writer) error {
			if inv.Args[1] == "a.swift" {
				return domain.NewError(domain.ErrJobFailed, "command exited with status 1", "exit_code", 1)
			}
			return nil
		},
	).Times(2)

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrJobFailed)
	assert.Contains(t, err.Error(), "Compiling main a.swift")
}

func TestRunner_SkipsCachedJobs(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	a := p.jobs[0]
	a.OutputCacheKeys = []domain.OutputCacheKey{{Input: a.PrimaryInputs[0], Key: "key-a"}}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.fs.EXPECT().Exists(tempDir + "/a.o").Return(true)
	m.hasher.EXPECT().ComputeInputHash([]string{"a.swift"}).Return("h1", nil)
	m.store.EXPECT().Get("key-a").Return(&domain.CacheRecord{Key: "key-a", InputHash: "h1"}, nil)

	rec := &recorder{}
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(rec.execute).Times(2)

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/swift-frontend", "/usr/bin/clang"}, rec.calls)
}

func TestRunner_RerunsWhenOutputMissing(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	a := p.jobs[0]
	p.jobs = p.jobs[:1]
	a.OutputCacheKeys = []domain.OutputCacheKey{{Input: a.PrimaryInputs[0], Key: "key-a"}}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.fs.EXPECT().Exists(tempDir + "/a.o").Return(false)
	m.hasher.EXPECT().ComputeInputHash([]string{"a.swift"}).Return("h1", nil)
	m.store.EXPECT().Get("key-a").Return(&domain.CacheRecord{Key: "key-a", InputHash: "h1"}, nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(rec domain.CacheRecord) error {
		assert.Equal(t, "key-a", rec.Key)
		assert.Equal(t, "Compiling main a.swift", rec.Job)
		assert.Equal(t, "h1", rec.InputHash)
		assert.Equal(t, []string{tempDir + "/a.o"}, rec.Outputs)
		return nil
	})

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.NoError(t, err)
}

func TestRunner_RerunsWhenInputsChanged(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	a := p.jobs[0]
	p.jobs = p.jobs[:1]
	a.OutputCacheKeys = []domain.OutputCacheKey{{Input: a.PrimaryInputs[0], Key: "key-a"}}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.hasher.EXPECT().ComputeInputHash([]string{"a.swift"}).Return("h2", nil)
	m.store.EXPECT().Get("key-a").Return(&domain.CacheRecord{Key: "key-a", InputHash: "h1"}, nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.store.EXPECT().Put(gomock.Any()).Return(nil)

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.NoError(t, err)
}

func TestRunner_NoCacheSkipsLookup(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	a := p.jobs[0]
	p.jobs = p.jobs[:1]
	a.OutputCacheKeys = []domain.OutputCacheKey{{Input: a.PrimaryInputs[0], Key: "key-a"}}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.hasher.EXPECT().ComputeInputHash([]string{"a.swift"}).Return("h1", nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.store.EXPECT().Put(gomock.Any()).Return(errors.New("disk full"))
	m.logger.EXPECT().Warn(gomock.Any())

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1, NoCache: true})
	require.NoError(t, err)
}

func TestRunner_HashFailureLogsAndRuns(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	a := p.jobs[0]
	p.jobs = p.jobs[:1]
	a.OutputCacheKeys = []domain.OutputCacheKey{{Input: a.PrimaryInputs[0], Key: "key-a"}}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.hasher.EXPECT().ComputeInputHash([]string{"a.swift"}).Return("", errors.New("permission denied"))
	m.logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "Compiling main a.swift")
		assert.Contains(t, msg, "permission denied")
	})
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.NoError(t, err)
}

func TestRunner_StoreReadFailure(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)
	a := p.jobs[0]
	a.OutputCacheKeys = []domain.OutputCacheKey{{Input: a.PrimaryInputs[0], Key: "key-a"}}

	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.hasher.EXPECT().ComputeInputHash([]string{"a.swift"}).Return("h1", nil)
	m.store.EXPECT().Get("key-a").Return(nil, errors.New("corrupt"))

	err := r.Run(t.Context(), p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrStoreReadFailed.Error())
}

func TestRunner_InPlaceJobRunsLast(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	in := domain.NewInterner()
	src := domain.NewTypedPath(in.Intern(domain.Relative("main.swift")), domain.FileTypeSwift)
	job := &domain.Job{
		ModuleName:               "main",
		Kind:                     domain.JobInterpret,
		Tool:                     in.Intern(domain.Absolute("/usr/bin/swift-frontend")),
		CommandLine:              []domain.ArgTemplate{domain.Flag("-interpret"), domain.PathArg(src.File)},
		Inputs:                   []domain.TypedVirtualPath{src},
		RequiresInPlaceExecution: true,
	}
	resolver := commandline.NewResolver(in, m.fs, tempDir, domain.ResponseFilesNever)

	gomock.InOrder(
		m.fs.EXPECT().MkdirAll(tempDir).Return(nil),
		m.fs.EXPECT().RemoveAll(tempDir).Return(nil),
		m.executor.EXPECT().Replace(gomock.Any()).DoAndReturn(func(inv *domain.Invocation) error {
			assert.Equal(t, []string{"-interpret", "main.swift"}, inv.Args)
			return nil
		}),
	)

	err := r.Run(t.Context(), in, resolver, []*domain.Job{job}, runner.Options{KeepTemporaries: true})
	require.NoError(t, err)
}

func TestRunner_NoJobs(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	in := domain.NewInterner()

	err := r.Run(t.Context(), in, commandline.NewResolver(in, m.fs, tempDir, domain.ResponseFilesNever), nil, runner.Options{})
	require.ErrorIs(t, err, domain.ErrNoJobs)
}

func TestRunner_Cancellation(t *testing.T) {
	t.Parallel()
	r, m := setupRunnerTest(t)
	p := newPlan(t, m.fs)

	ctx, cancel := context.WithCancel(t.Context())
	m.fs.EXPECT().MkdirAll(tempDir).Return(nil)
	m.fs.EXPECT().RemoveAll(tempDir).Return(nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ *domain.Invocation, _, _ io.Writer) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		},
	).MinTimes(1).MaxTimes(2)

	err := r.Run(ctx, p.in, p.resolver, p.jobs, runner.Options{Parallelism: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCaptureJSON(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	fs := mocks.NewMockFileSystem(ctrl)
	in := domain.NewInterner()
	resolver := commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesNever)
	job := &domain.Job{
		Kind:        domain.JobPrintTargetInfo,
		Tool:        in.Intern(domain.Absolute("/usr/bin/swift-frontend")),
		CommandLine: domain.Flags("-frontend", "-print-target-info"),
	}

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.Invocation, stdout, _ io.Writer) error {
			_, err := io.WriteString(stdout, `{"compilerVersion":"6.0","target":{"triple":"arm64-apple-macosx13.0"},"paths":{"runtimeResourcePath":"/usr/lib/swift"}}`)
			return err
		},
	)

	info, err := runner.CaptureJSON[domain.FrontendTargetInfo](t.Context(), executor, resolver, job, nil)
	require.NoError(t, err)
	assert.Equal(t, "arm64-apple-macosx13.0", info.Target.Triple)
	assert.Equal(t, "/usr/lib/swift", info.RuntimeResourcePath())
}

func TestCaptureJSON_Failure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	in := domain.NewInterner()
	resolver := commandline.NewResolver(in, mocks.NewMockFileSystem(ctrl), tempDir, domain.ResponseFilesNever)
	job := &domain.Job{Kind: domain.JobPrintTargetInfo, Tool: in.Intern(domain.Absolute("/usr/bin/swift-frontend"))}

	executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.Invocation, _, stderr io.Writer) error {
			_, _ = io.WriteString(stderr, "unknown target\n")
			return domain.NewError(domain.ErrJobFailed, "command exited with status 1", "exit_code", 1)
		},
	)

	_, err := runner.CaptureJSON[domain.FrontendTargetInfo](t.Context(), executor, resolver, job, nil)
	require.ErrorIs(t, err, domain.ErrJobFailed)
}
