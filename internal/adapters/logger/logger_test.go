package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/adapters/logger"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/zerr"
)

var time0 time.Time

// newTestLogger creates a logger writing uncolored output to a buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	lg.Info("Planned 3 jobs")
	lg.Warn("keeping temporary directory")
	assert.Equal(t, "Planned 3 jobs\n! keeping temporary directory\n", buf.String())

	buf.Reset()
	lg.SetVerbose(true)
	lg.Debug("swift-frontend exited with status 0")
	assert.Equal(t, "~ swift-frontend exited with status 0\n", buf.String())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "standard error",
			err:        errors.New("exec: \"swift-frontend\": executable file not found in $PATH"),
			goldenName: "error_standard",
		},
		{
			name: "job failure chain",
			err: zerr.With(zerr.Wrap(
				domain.NewError(domain.ErrJobFailed, "swift-frontend exited with status 1", "exit_code", 1),
				"Compiling main a.swift",
			), "job", "Compiling main a.swift"),
			goldenName: "error_job_failure",
		},
		{
			name:       "sentinel with metadata",
			err:        domain.NewError(domain.ErrToolNotFound, "unable to locate clang", "tool", "clang"),
			goldenName: "error_tool_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("Planned 3 jobs")
	lg.Error(domain.NewError(domain.ErrToolNotFound, "unable to locate clang", "tool", "clang"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "Planned 3 jobs", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "clang", failure["tool"])
	assert.Equal(t, "unable to locate clang: unable to locate tool", failure["error"])

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	lg, _ := newTestLogger(t)
	assert.NotPanics(t, func() { lg.SetOutput(nil) })
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, buf := newTestLogger(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			lg.Info("Compiling main a.swift")
			lg.SetJSON(false)
		})
	}
	wg.Wait()

	assert.Equal(t, 8, bytes.Count(buf.Bytes(), []byte("\n")))
}
