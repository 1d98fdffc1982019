package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/cmd/swiftplan/commands"
	"go.trai.ch/swiftplan/internal/app"
	"go.trai.ch/swiftplan/internal/build"
)

type mockApp struct {
	planFunc  func(ctx context.Context, opts app.PlanOptions) error
	runFunc   func(ctx context.Context, opts app.RunOptions) error
	infoFunc  func(ctx context.Context, opts app.PlanOptions) error
	cleanFunc func(ctx context.Context, opts app.CleanOptions) error
}

func (m *mockApp) Plan(ctx context.Context, opts app.PlanOptions) error {
	if m.planFunc != nil {
		return m.planFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Run(ctx context.Context, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) PrintTargetInfo(ctx context.Context, opts app.PlanOptions) error {
	if m.infoFunc != nil {
		return m.infoFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

type recordingLogger struct {
	verbose, json bool
}

func (l *recordingLogger) Info(string)          {}
func (l *recordingLogger) Warn(string)          {}
func (l *recordingLogger) Debug(string)         {}
func (l *recordingLogger) Error(error)          {}
func (l *recordingLogger) SetVerbose(v bool)    { l.verbose = v }
func (l *recordingLogger) SetJSON(enabled bool) { l.json = enabled }

func TestCommands_Plan(t *testing.T) {
	var captured app.PlanOptions
	mock := &mockApp{
		planFunc: func(_ context.Context, opts app.PlanOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock, nil)
	cli.SetArgs([]string{
		"plan", "--json", "--driver-mode", "swift", "--toolchain", "/tc/bin",
		"--temp-dir", "/tmp/x", "--response-files", "always", "--static-target-info",
		"--", "-c", "-o", "a.o", "a.swift",
	})
	require.NoError(t, cli.Execute(context.Background()))

	assert.True(t, captured.JSON)
	assert.Equal(t, "swift", captured.DriverMode)
	assert.Equal(t, "/tc/bin", captured.ToolchainDir)
	assert.Equal(t, "/tmp/x", captured.TemporaryDirectory)
	assert.Equal(t, "always", captured.ResponseFiles)
	assert.True(t, captured.StaticTargetInfo)
	assert.Equal(t, []string{"-c", "-o", "a.o", "a.swift"}, captured.Args)
	assert.NotNil(t, captured.Out)
}

func TestCommands_Run(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.RunOptions
		called := false

		mock := &mockApp{
			runFunc: func(_ context.Context, opts app.RunOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"run", "-j", "3", "--no-cache", "--keep-temporaries", "--", "-c", "a.swift"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, 3, captured.Parallelism)
		assert.True(t, captured.NoCache)
		assert.True(t, captured.KeepTemporaries)
		assert.Equal(t, []string{"-c", "a.swift"}, captured.Args)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock, nil)
		cli.SetArgs([]string{"run", "--", "a.swift"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("shows usage without driver arguments", func(t *testing.T) {
		mock := &mockApp{
			runFunc: func(_ context.Context, _ app.RunOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock, nil)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"run"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Usage:")
	})
}

func TestCommands_PrintTargetInfo(t *testing.T) {
	var captured app.PlanOptions
	mock := &mockApp{
		infoFunc: func(_ context.Context, opts app.PlanOptions) error {
			captured = opts
			return nil
		},
	}

	cli := commands.New(mock, nil)
	cli.SetArgs([]string{"print-target-info", "--", "-target", "arm64-apple-macosx13.0"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, []string{"-target", "arm64-apple-macosx13.0"}, captured.Args)
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		args []string
		want app.CleanOptions
	}{
		{args: []string{"clean"}, want: app.CleanOptions{Cache: true}},
		{args: []string{"clean", "-t"}, want: app.CleanOptions{Temporaries: true}},
		{args: []string{"clean", "--all"}, want: app.CleanOptions{Cache: true, Temporaries: true}},
	}
	for _, tt := range tests {
		var captured app.CleanOptions
		mock := &mockApp{
			cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
				captured = opts
				return nil
			},
		}
		cli := commands.New(mock, nil)
		cli.SetArgs(tt.args)
		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, tt.want, captured)
	}
}

func TestCommands_LoggerFlags(t *testing.T) {
	log := &recordingLogger{}
	cli := commands.New(&mockApp{}, log)
	cli.SetArgs([]string{"clean", "--verbose", "--log-json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, log.verbose)
	assert.True(t, log.json)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{}, nil)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}

func TestCommands_VersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		t.Run(flag, func(t *testing.T) {
			cli := commands.New(&mockApp{}, nil)

			buf := new(bytes.Buffer)
			cli.SetOutput(buf, buf)
			cli.SetArgs([]string{flag})

			require.NotPanics(t, func() {
				require.NoError(t, cli.Execute(context.Background()))
			})
			assert.Contains(t, buf.String(), "swiftplan version "+build.Version)
		})
	}
}

func TestCommands_EverySubcommandExecutes(t *testing.T) {
	for _, args := range [][]string{
		{"plan", "--", "-c", "a.swift"},
		{"run", "--", "-c", "a.swift"},
		{"print-target-info", "--", "-target", "x86_64-unknown-linux-gnu"},
		{"clean"},
		{"version"},
	} {
		t.Run(args[0], func(t *testing.T) {
			cli := commands.New(&mockApp{}, &recordingLogger{})
			cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
			cli.SetArgs(args)

			require.NotPanics(t, func() {
				require.NoError(t, cli.Execute(context.Background()))
			})
		})
	}
}
