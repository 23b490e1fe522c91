package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracerDisabled(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "false")

	tp, tracer, err := InitTracer(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tp)
	assert.NotNil(t, tracer)
}

func TestInitNamedTracerWithStubExporter(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")

	orig := newTraceExporter
	t.Cleanup(func() { newTraceExporter = orig })

	stub := &stubExporter{}
	newTraceExporter = func(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
		stub.endpoint = endpoint
		return stub, nil
	}

	tp, tracer, err := InitNamedTracer(context.Background(), "liquidity-ticker-ssh")
	require.NoError(t, err)
	assert.NotNil(t, tracer)
	assert.Equal(t, "collector:4317", stub.endpoint)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestInitTracerExporterError(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "")

	orig := newTraceExporter
	t.Cleanup(func() { newTraceExporter = orig })
	newTraceExporter = func(context.Context, string) (sdktrace.SpanExporter, error) {
		return nil, errors.New("dial failed")
	}

	_, _, err := InitTracer(context.Background())
	assert.Error(t, err)
}

func TestSamplingRatio(t *testing.T) {
	for in, want := range map[string]float64{"": 1, "0.25": 0.25, "abc": 1, "2": 1, "0": 0} {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", in)
		assert.Equal(t, want, samplingRatio(), "input %q", in)
	}
}

type stubExporter struct {
	endpoint string
}

func (s *stubExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (s *stubExporter) Shutdown(ctx context.Context) error {
	return nil
}
