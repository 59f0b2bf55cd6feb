package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// NewTracer returns a Tracer for serviceName. When the process has no
// exporter configured it falls back to the globally registered (no-op
// by default) TracerProvider, so instrumentation is always safe to call
// even when nothing is listening for spans.
func NewTracer(serviceName string) trace.Tracer {
	return otel.Tracer(serviceName)
}

// Shutdowner stops a configured TracerProvider, flushing any pending
// spans.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// NewNoopProvider installs an SDK TracerProvider with no span processor
// attached, which is the safe default when no collector endpoint is
// configured: spans are created and discarded with only the cost of
// building them, never blocking on network I/O.
func NewNoopProvider() Shutdowner {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}
