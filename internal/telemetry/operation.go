// Package telemetry wraps the monitoring loop's connect/poll/publish
// calls in OpenTelemetry spans.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation ties a sequence of steps to one root span, letting callers
// start child spans for each step without threading a tracer reference
// through every function signature.
type Operation struct {
	ctx    context.Context
	tracer trace.Tracer
	span   trace.Span
}

// Start begins a root span for name. tracer may be nil, in which case
// Operation degrades to running steps with no tracing overhead.
func Start(ctx context.Context, tracer trace.Tracer, name string) *Operation {
	if tracer == nil {
		return &Operation{ctx: ctx}
	}
	spanCtx, span := tracer.Start(ctx, name)
	return &Operation{ctx: spanCtx, tracer: tracer, span: span}
}

// Context returns the operation's span-carrying context.
func (o *Operation) Context() context.Context {
	if o == nil || o.ctx == nil {
		return context.Background()
	}
	return o.ctx
}

// RunStep runs fn under a child span named id, recording any error onto
// that span.
func (o *Operation) RunStep(ctx context.Context, id string, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	if o == nil || o.tracer == nil {
		return fn(ctx)
	}
	if ctx == nil {
		ctx = o.ctx
	}

	stepCtx, span := o.tracer.Start(ctx, id)
	defer span.End()

	if err := fn(stepCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
		return err
	}
	return nil
}

// End closes the operation's root span, recording err if non-nil.
func (o *Operation) End(err error) {
	if o == nil || o.span == nil {
		return
	}
	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
	}
	o.span.End()
}
