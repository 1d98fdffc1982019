package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/swiftplan/internal/adapters/fs"
	"go.trai.ch/swiftplan/internal/adapters/options"
	"go.trai.ch/swiftplan/internal/app"
	"go.trai.ch/swiftplan/internal/build"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	logger   *mocks.MockLogger
	renderer *mocks.MockRenderer
	provider ComponentProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		renderer: mocks.NewMockRenderer(ctrl),
	}
	locator := mocks.NewMockToolLocator(ctrl)
	locator.EXPECT().Locate(gomock.Any()).DoAndReturn(func(name string) (string, error) {
		return "/tc/usr/bin/" + name, nil
	}).AnyTimes()
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("h1", nil).AnyTimes()
	store := mocks.NewMockCacheKeyStore(ctrl)
	store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	store.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()

	application := app.New(
		f.loader,
		mocks.NewMockPlanInputLoader(ctrl),
		options.NewParser(),
		locator,
		f.executor,
		store,
		fs.NewMemFileSystem(nil),
		hasher,
		f.logger,
		f.renderer,
	).WithWorkingDir("/work").WithEnviron(nil)

	f.provider = func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: f.logger,
		}, func() {}, nil
	}
	return f
}

func TestRun_Version(t *testing.T) {
	f := newFixture(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), f.provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "swiftplan version "+build.Version)
}

func TestRun_Plan(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("/work").Return(&domain.DriverConfig{Root: "/work"}, nil)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(),
		[]string{"plan", "--static-target-info", "--", "-target", "x86_64-unknown-linux-gnu", "-c", "a.swift"},
		stdout, new(bytes.Buffer), f.provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "/tc/usr/bin/swift-frontend")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	f := newFixture(t)
	loadErr := errors.New("config load failed")
	f.loader.EXPECT().Load("/work").Return(nil, loadErr)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, loadErr)
	})

	exitCode := run(context.Background(), []string{"clean"}, new(bytes.Buffer), new(bytes.Buffer), f.provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailureIsNotLoggedTwice verifies that failed jobs are left to the renderer.
func TestRun_BuildFailureIsNotLoggedTwice(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("/work").Return(&domain.DriverConfig{Root: "/work"}, nil)
	f.renderer.EXPECT().Start(gomock.Any()).Return(nil)
	f.renderer.EXPECT().Wait().Return(nil)
	f.renderer.EXPECT().Stop().Return(nil)
	f.renderer.EXPECT().OnPlanEmit(gomock.Any(), gomock.Any()).AnyTimes()
	f.renderer.EXPECT().OnJobStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.renderer.EXPECT().OnJobLog(gomock.Any(), gomock.Any()).AnyTimes()
	f.renderer.EXPECT().OnJobComplete(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("exit status 1"))

	exitCode := run(context.Background(),
		[]string{"run", "--no-cache", "--static-target-info", "--", "-target", "x86_64-unknown-linux-gnu", "-c", "a.swift"},
		new(bytes.Buffer), new(bytes.Buffer), f.provider)
	assert.Equal(t, 1, exitCode)
}
