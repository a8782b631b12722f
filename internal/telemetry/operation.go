package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	PhaseEventName = "hostnamed.phase"
	PhaseKey       = "hostnamed.phase"
	AttributeKey   = "hostnamed.attribute"
	SenderKey      = "hostnamed.sender"
	ActionKey      = "hostnamed.action"
	InteractiveKey = "hostnamed.interactive"
)

// Operation is one traced request. Steps run as child spans and phase
// transitions are recorded as events on the root span.
type Operation struct {
	ctx    context.Context
	tracer trace.Tracer
	span   trace.Span
}

// Start opens the root span of an operation. A nil tracer traces nothing.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) *Operation {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	spanCtx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return &Operation{ctx: spanCtx, tracer: tracer, span: span}
}

func (o *Operation) Context() context.Context {
	if o == nil {
		return context.Background()
	}
	return o.ctx
}

// Phase records a state transition on the root span.
func (o *Operation) Phase(phase string) {
	if o == nil || o.span == nil {
		return
	}
	o.span.AddEvent(PhaseEventName, trace.WithAttributes(attribute.String(PhaseKey, phase)))
}

// RunStep runs fn inside a child span named id.
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

// End closes the root span, marking it failed when err is non-nil.
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
