// Package app implements the application layer for swiftplan.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/swiftplan/internal/adapters/cas"
	"go.trai.ch/swiftplan/internal/adapters/telemetry"
	toolchainadapter "go.trai.ch/swiftplan/internal/adapters/toolchain"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.trai.ch/swiftplan/internal/engine/planner"
	"go.trai.ch/swiftplan/internal/engine/runner"
	"go.trai.ch/swiftplan/internal/engine/toolchain"
	"go.trai.ch/swiftplan/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	planInputs   ports.PlanInputLoader
	parser       ports.OptionsParser
	locator      ports.ToolLocator
	executor     ports.Executor
	store        ports.CacheKeyStore
	fs           ports.FileSystem
	hasher       ports.Hasher
	logger       ports.Logger
	renderer     ports.Renderer

	getwd   func() (string, error)
	environ func() []string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	planInputs ports.PlanInputLoader,
	parser ports.OptionsParser,
	locator ports.ToolLocator,
	executor ports.Executor,
	store ports.CacheKeyStore,
	fs ports.FileSystem,
	hasher ports.Hasher,
	log ports.Logger,
	renderer ports.Renderer,
) *App {
	return &App{
		configLoader: loader,
		planInputs:   planInputs,
		parser:       parser,
		locator:      locator,
		executor:     executor,
		store:        store,
		fs:           fs,
		hasher:       hasher,
		logger:       log,
		renderer:     renderer,
		getwd:        os.Getwd,
		environ:      os.Environ,
	}
}

// WithWorkingDir pins the directory configuration is discovered from.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithEnviron replaces the process environment seen by the driver.
// This is primarily used for testing.
func (a *App) WithEnviron(env []string) *App {
	a.environ = func() []string { return env }
	return a
}

// PlanOptions configures how a driver command line is planned.
type PlanOptions struct {
	// Args is the driver command line without the program name. A leading
	// --driver-mode= argument selects the driver personality.
	Args []string
	// DriverMode overrides the personality, "swift" or "swiftc".
	DriverMode string
	// PrebuiltModules is a prebuilt module set to plan instead of Args.
	PrebuiltModules string
	// ToolchainDir overrides the configured toolchain bin directory.
	ToolchainDir string
	// TemporaryDirectory overrides where temporary job files are placed.
	TemporaryDirectory string
	// ResponseFiles overrides the response file policy.
	ResponseFiles string
	// StaticTargetInfo derives target information without running the frontend.
	StaticTargetInfo bool
	// JSON prints the plan as a serialized plan document.
	JSON bool
	// Out receives the plan.
	Out io.Writer
}

// RunOptions configures a run.
type RunOptions struct {
	PlanOptions
	Parallelism     int
	NoCache         bool
	KeepTemporaries bool
}

// session is everything derived from one driver invocation.
type session struct {
	cfg        *domain.DriverConfig
	in         *domain.Interner
	opts       ports.ParsedOptions
	tc         toolchain.Toolchain
	resolver   *commandline.Resolver
	env        map[string]string
	workingDir string
	// planDir is the -working-directory value; empty keeps paths relative.
	planDir string
	mode    string
	jobs    []*domain.Job
}

// Plan computes the jobs for a driver command line and prints them.
func (a *App) Plan(ctx context.Context, opts PlanOptions) error {
	s, err := a.plan(ctx, opts)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.JSON {
		data, err := domain.EncodePlan(s.in, s.jobs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return writePlan(out, s)
}

// Run plans a driver command line and executes it.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	s, err := a.plan(ctx, opts.PlanOptions)
	if err != nil {
		return err
	}

	parallelism, err := s.parallelism(opts.Parallelism)
	if err != nil {
		return err
	}

	renderer := a.renderer
	bridge := telemetry.NewBridge(renderer)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracerFromProvider(tp, "swiftplan").WithRenderer(renderer)

	run := runner.New(a.executor, a.store, a.fs, a.hasher, tracer, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		err := run.Run(ctx, s.in, s.resolver, s.jobs, runner.Options{
			Parallelism:     parallelism,
			NoCache:         opts.NoCache,
			Env:             s.cfg.Environment,
			WorkingDir:      s.workingDir,
			KeepTemporaries: opts.KeepTemporaries,
			Stdout:          opts.Out,
		})
		if err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// PrintTargetInfo asks the frontend to describe the target of a command line
// and prints the result as indented JSON.
func (a *App) PrintTargetInfo(ctx context.Context, opts PlanOptions) error {
	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	info, err := a.targetInfo(ctx, s, opts.StaticTargetInfo || s.cfg.StaticTargetInfo)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode target information")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Cache       bool
	Temporaries bool
}

// Clean removes the output cache key store and temporary directories.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	cwd, err := a.getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	var errs error
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := a.fs.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Cache {
		remove(cas.StorePath(cfg), "output cache key store")
	}
	if options.Temporaries {
		remove(tempPath(cfg), "temporary directory")
	}
	return errs
}

func (a *App) plan(ctx context.Context, opts PlanOptions) (*session, error) {
	s, err := a.prepare(opts)
	if err != nil {
		return nil, err
	}

	if opts.PrebuiltModules != "" {
		set, err := a.planInputs.LoadPrebuiltModules(opts.PrebuiltModules)
		if err != nil {
			return nil, err
		}
		var sdk string
		if opt, ok := s.opts.LastArgument("-sdk"); ok {
			sdk = opt.Value()
		}
		s.jobs, err = planner.PlanPrebuiltModules(planner.PrebuiltConfig{
			Interner:  s.in,
			Toolchain: s.tc,
			FS:        a.fs,
			SDKPath:   sdk,
			Set:       set,
		})
		if err != nil {
			return nil, err
		}
		a.logPlan(s)
		return s, nil
	}

	info, err := a.targetInfo(ctx, s, opts.StaticTargetInfo || s.cfg.StaticTargetInfo)
	if err != nil {
		return nil, err
	}

	cfg := planner.Config{
		Interner:   s.in,
		Options:    s.opts,
		Toolchain:  s.tc,
		TargetInfo: info,
		FS:         a.fs,
		DriverKind: s.kind(),
		Env:        s.env,
	}
	if path, ok := s.opts.LastArgument("-output-file-map"); ok {
		cfg.OutputFileMap, err = a.planInputs.LoadOutputFileMap(s.absolute(path.Value()), s.in, s.planDir)
		if err != nil {
			return nil, err
		}
	}
	if path, ok := s.opts.LastArgument("-explicit-dependency-graph"); ok {
		cfg.DependencyGraph, err = a.planInputs.LoadDependencyGraph(s.absolute(path.Value()))
		if err != nil {
			return nil, err
		}
	}

	pc, err := planner.NewContext(cfg)
	if err != nil {
		return nil, err
	}
	s.jobs, err = planner.New(pc).Plan()
	if err != nil {
		return nil, err
	}
	a.logPlan(s)
	return s, nil
}

// prepare loads configuration, parses the command line and selects the
// toolchain.
func (a *App) prepare(opts PlanOptions) (*session, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.TemporaryDirectory != "" {
		cfg.TemporaryDirectory = opts.TemporaryDirectory
	}
	if opts.ResponseFiles != "" {
		policy, ok := domain.ParseResponseFilePolicy(opts.ResponseFiles)
		if !ok {
			return nil, domain.NewError(domain.ErrInvalidArgumentValue, "response files must be heuristic, always or never", "value", opts.ResponseFiles)
		}
		cfg.ResponseFiles = policy
	}

	mode, rest := splitDriverMode(opts.Args)
	if opts.DriverMode != "" {
		mode = opts.DriverMode
	}
	if _, err := driverKind(mode); err != nil {
		return nil, err
	}

	args, err := commandline.ExpandResponseFiles(a.fs, rest)
	if err != nil {
		return nil, err
	}
	parsed, err := a.parser.Parse(args)
	if err != nil {
		return nil, err
	}

	triple, err := targetTriple(parsed)
	if err != nil {
		return nil, err
	}

	env := environMap(a.environ())
	for k, v := range cfg.Environment {
		env[k] = v
	}

	locator := a.locator
	if opts.ToolchainDir != "" {
		locator = toolchainadapter.NewLocator(a.logger, opts.ToolchainDir)
	}

	in := domain.NewInterner()
	tc := toolchain.New(triple, toolchain.Config{
		Interner: in,
		Locator:  locator,
		FS:       a.fs,
		Env:      env,
	})

	workingDir, planDir := cwd, ""
	if wd, ok := parsed.LastArgument("-working-directory"); ok {
		planDir = wd.Value()
		workingDir = absoluteFrom(cwd, planDir)
	}

	a.logger.Debug(fmt.Sprintf("planning for %s from %s", triple, cfg.Root))

	return &session{
		cfg:        cfg,
		in:         in,
		opts:       parsed,
		tc:         tc,
		resolver:   commandline.NewResolver(in, a.fs, tempPath(cfg), cfg.ResponseFiles),
		env:        env,
		workingDir: workingDir,
		planDir:    planDir,
		mode:       mode,
	}, nil
}

// targetInfo runs the frontend's print-target-info job, or derives the
// information from the toolchain when static is set.
func (a *App) targetInfo(ctx context.Context, s *session, static bool) (*domain.FrontendTargetInfo, error) {
	if static {
		var resourceDir, sdk string
		if opt, ok := s.opts.LastArgument("-resource-dir"); ok {
			resourceDir = opt.Value()
		}
		if opt, ok := s.opts.LastArgument("-sdk"); ok {
			sdk = opt.Value()
		}
		return s.tc.StaticTargetInfo(resourceDir, sdk), nil
	}

	job, err := planner.PrintTargetInfoJob(s.in, s.opts, s.tc)
	if err != nil {
		return nil, err
	}
	info, err := runner.CaptureJSON[domain.FrontendTargetInfo](ctx, a.executor, s.resolver, job, s.env)
	if err != nil {
		return nil, errors.Join(domain.ErrTargetInfoFailed, err)
	}
	return info, nil
}

func (a *App) logPlan(s *session) {
	for _, job := range s.jobs {
		a.logger.Debug(fmt.Sprintf("planned %s: %s", job.Kind, s.resolver.Render(job)))
	}
}

// parallelism picks the job limit: the flag, then -j, then configuration.
func (s *session) parallelism(flag int) (int, error) {
	if flag > 0 {
		return flag, nil
	}
	if j, ok := s.opts.LastArgument("-j"); ok {
		n, err := strconv.Atoi(j.Value())
		if err != nil || n < 1 {
			return 0, domain.NewError(domain.ErrInvalidArgumentValue, "job count must be a positive integer", "option", "-j", "value", j.Value())
		}
		return n, nil
	}
	return s.cfg.Parallelism, nil
}

// kind is only called after prepare validated the mode.
func (s *session) kind() domain.DriverKind {
	k, _ := driverKind(s.mode)
	return k
}

func (s *session) absolute(path string) string {
	return absoluteFrom(s.workingDir, path)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(style.Iris)

// writePlan prints one line per job: its kind, then its command line.
func writePlan(w io.Writer, s *session) error {
	for _, job := range s.jobs {
		header := headerStyle.Render(style.Dot + " " + job.Kind.String())
		if job.ModuleName != "" {
			header += " " + job.ModuleName
		}
		if _, err := fmt.Fprintf(w, "%s\n  %s\n", header, s.resolver.Render(job)); err != nil {
			return err
		}
	}
	return nil
}

func targetTriple(opts ports.ParsedOptions) (domain.Triple, error) {
	if t, ok := opts.LastArgument("-target"); ok {
		return domain.ParseTriple(t.Value())
	}
	return hostTriple()
}

func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func absoluteFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

func tempPath(cfg *domain.DriverConfig) string {
	if cfg.TemporaryDirectory != "" {
		return cfg.TemporaryDirectory
	}
	return filepath.Join(cfg.Root, domain.DefaultTempPath())
}
