package telemetry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/swiftplan/internal/adapters/telemetry"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setupRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return sr, tp
}

func attributesOf(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestOTelTracer_StartAttributes(t *testing.T) {
	t.Parallel()
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracerFromProvider(tp, "swiftplan")

	_, span := tracer.Start(t.Context(), "Compiling main a.swift",
		ports.WithAttribute("swiftplan.kind", "compile"),
		ports.WithAttribute("swiftplan.module", "main"),
	)
	span.SetAttribute("swiftplan.cached", true)
	span.SetAttribute("swiftplan.inputs", []string{"a.swift"})
	span.SetAttribute("swiftplan.jobs", 3)
	span.SetAttribute("swiftplan.ratio", 0.5)
	span.SetAttribute("swiftplan.other", struct{ N int }{N: 1})
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Compiling main a.swift", ended[0].Name())

	attrs := attributesOf(ended[0])
	assert.Equal(t, "compile", attrs["swiftplan.kind"].AsString())
	assert.Equal(t, "main", attrs["swiftplan.module"].AsString())
	assert.True(t, attrs["swiftplan.cached"].AsBool())
	assert.Equal(t, []string{"a.swift"}, attrs["swiftplan.inputs"].AsStringSlice())
	assert.Equal(t, int64(3), attrs["swiftplan.jobs"].AsInt64())
	assert.InDelta(t, 0.5, attrs["swiftplan.ratio"].AsFloat64(), 0)
	assert.Equal(t, "{1}", attrs["swiftplan.other"].AsString())
}

func TestOTelSpan_RecordError(t *testing.T) {
	t.Parallel()
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracerFromProvider(tp, "swiftplan")

	_, span := tracer.Start(t.Context(), "Linking main")
	span.RecordError(errors.New("clang exited with status 1"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "clang exited with status 1", ended[0].Status().Description)
}

func TestOTelSpan_WriteWithoutRenderer(t *testing.T) {
	t.Parallel()
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracerFromProvider(tp, "swiftplan")

	_, span := tracer.Start(t.Context(), "Compiling main a.swift")
	n, err := span.Write([]byte("warning: unused variable\n"))
	require.NoError(t, err)
	assert.Equal(t, 25, n)
	span.(*telemetry.OTelSpan).MarkExecStart()
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 2)
	assert.Equal(t, "log", events[0].Name)
	assert.Equal(t, "exec_start", events[1].Name)
}

func TestOTelTracer_WithRenderer(t *testing.T) {
	t.Parallel()
	_, tp := setupRecorder(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	tracer := telemetry.NewOTelTracerFromProvider(tp, "swiftplan").WithRenderer(renderer)

	jobs := []string{"Compiling main a.swift", "Linking main"}
	deps := map[string][]string{"Linking main": {"Compiling main a.swift"}}
	renderer.EXPECT().OnPlanEmit(jobs, deps)
	tracer.EmitPlan(t.Context(), jobs, deps)

	_, span := tracer.Start(t.Context(), "Compiling main a.swift")
	renderer.EXPECT().OnJobLog(gomock.Any(), []byte("a.swift:1:1: warning\n"))
	_, err := span.Write([]byte("a.swift:1:1: warning\n"))
	require.NoError(t, err)
	span.End()
}
