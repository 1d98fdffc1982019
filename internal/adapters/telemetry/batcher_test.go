package telemetry_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/adapters/telemetry"
)

type flushRecorder struct {
	mu      sync.Mutex
	flushes []string
}

func (f *flushRecorder) onFlush(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes = append(f.flushes, string(data))
}

func (f *flushRecorder) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.flushes...)
}

func TestOutputBatcher_SizeFlushKeepsLinesWhole(t *testing.T) {
	t.Parallel()
	rec := &flushRecorder{}
	b := telemetry.NewOutputBatcher(16, time.Hour, rec.onFlush)
	defer b.Close() //nolint:errcheck // test cleanup

	_, err := b.Write([]byte("main.swift:1: "))
	require.NoError(t, err)
	assert.Empty(t, rec.all())

	_, err = b.Write([]byte("error\nnote: "))
	require.NoError(t, err)
	assert.Equal(t, []string{"main.swift:1: error\n"}, rec.all())

	require.NoError(t, b.Close())
	assert.Equal(t, []string{"main.swift:1: error\n", "note: "}, rec.all())
}

func TestOutputBatcher_SizeFlushWithoutNewline(t *testing.T) {
	t.Parallel()
	rec := &flushRecorder{}
	b := telemetry.NewOutputBatcher(8, time.Hour, rec.onFlush)
	defer b.Close() //nolint:errcheck // test cleanup

	_, err := b.Write([]byte("01234567"))
	require.NoError(t, err)
	assert.Equal(t, []string{"01234567"}, rec.all())
}

func TestOutputBatcher_FlushesOnTime(t *testing.T) {
	t.Parallel()
	rec := &flushRecorder{}
	b := telemetry.NewOutputBatcher(1024, 5*time.Millisecond, rec.onFlush)
	defer b.Close() //nolint:errcheck // test cleanup

	_, err := b.Write([]byte("partial"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"partial"}, rec.all())
}

func TestOutputBatcher_CloseFlushesAndRejectsWrites(t *testing.T) {
	t.Parallel()
	rec := &flushRecorder{}
	b := telemetry.NewOutputBatcher(1024, time.Hour, rec.onFlush)

	_, err := b.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.Equal(t, []string{"tail"}, rec.all())

	_, err = b.Write([]byte("late"))
	require.ErrorIs(t, err, telemetry.ErrOutputClosed)
	b.Flush()
	assert.Len(t, rec.all(), 1)
}
