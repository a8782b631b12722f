package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hostnamed"
	"hostnamed/internal/shellconf"
	"hostnamed/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "hostnamed/identity"

// Request is a single change request. It is owned by the Set call it is
// passed to; Value is copied into the State only on commit. An absent
// value is the empty string.
type Request struct {
	Attribute   hostnamed.Attribute
	Value       string
	Sender      string
	Interactive bool
}

// Result reports where a request ended. Value is the committed value,
// which differs from the requested one when a fallback was substituted.
type Result struct {
	Phase Phase
	Value string
}

// Stores are the two persisted backends.
type Stores struct {
	StaticHostname ConfigStore
	MachineInfo    ConfigStore
}

// Engine runs change requests against a State.
type Engine struct {
	state     *State
	auth      Authorizer
	stores    Stores
	host      Host
	publisher Publisher
	tracer    trace.Tracer
	now       func() time.Time
	readOnly  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithReadOnly rejects every request without consulting the Authorizer.
// The mode is fixed for the Engine's lifetime.
func WithReadOnly(readOnly bool) Option {
	return func(e *Engine) {
		e.readOnly = readOnly
	}
}

// WithPublisher sets where committed changes are broadcast.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithClock sets the timestamp source for published changes.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine whose state starts at initial.
func New(initial hostnamed.Snapshot, auth Authorizer, stores Stores, host Host, opts ...Option) *Engine {
	e := &Engine{
		state:  NewState(initial),
		auth:   auth,
		stores: stores,
		host:   host,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.publisher == nil {
		e.publisher = Publishers(nil)
	}
	return e
}

// ReadOnly reports whether the engine rejects all changes.
func (e *Engine) ReadOnly() bool {
	return e.readOnly
}

// Get returns the current value of a.
func (e *Engine) Get(a hostnamed.Attribute) string {
	return e.state.Get(a)
}

// Snapshot returns all current values.
func (e *Engine) Snapshot() hostnamed.Snapshot {
	return e.state.Snapshot()
}

// Set runs req to a terminal phase. It blocks while authorization is
// pending; concurrent calls proceed independently until they need the
// same lock group.
func (e *Engine) Set(ctx context.Context, req Request) (Result, error) {
	if !req.Attribute.Valid() {
		return Result{Phase: PhaseFailed}, fmt.Errorf("%w: %d", ErrUnknownAttribute, req.Attribute)
	}
	f := flows[req.Attribute]

	op := telemetry.Start(ctx, e.tracer, "hostnamed.set",
		attribute.String(telemetry.AttributeKey, req.Attribute.String()),
		attribute.String(telemetry.SenderKey, req.Sender),
		attribute.String(telemetry.ActionKey, f.action),
		attribute.Bool(telemetry.InteractiveKey, req.Interactive),
	)
	res, err := e.run(op, f, req)
	op.End(err)

	log := slog.With("attr", req.Attribute.String(), "sender", req.Sender, "phase", res.Phase.String())
	switch res.Phase {
	case PhaseCommitted:
		log.Info("Identity attribute changed.", "value", res.Value)
	case PhaseFailed:
		log.Warn("Identity change failed.", "err", err)
	default:
		log.Debug("Identity change rejected.", "err", err)
	}
	return res, err
}

func (e *Engine) run(op *telemetry.Operation, f flow, req Request) (Result, error) {
	ctx := op.Context()
	phase := func(p Phase) Result {
		op.Phase(p.String())
		return Result{Phase: p}
	}

	phase(PhaseReceived)
	if e.readOnly {
		return phase(PhaseReadOnlyRejected), ErrReadOnly
	}

	phase(PhaseAuthorizationPending)
	err := op.RunStep(ctx, "authorize", func(ctx context.Context) error {
		return e.auth.CheckAuthorization(ctx, req.Sender, f.action, req.Interactive)
	})
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return phase(PhaseDenied), err
		}
		return phase(PhaseAuthError), &AuthorizationError{Action: f.action, Err: err}
	}

	unlock := e.state.lock(req.Attribute.Group())
	defer unlock()

	phase(PhaseValidating)
	var value string
	_ = op.RunStep(ctx, "validate", func(context.Context) error {
		value = f.normalize(e.state, req.Value)
		return nil
	})

	if store := e.store(f.store); store != nil {
		phase(PhasePersisting)
		err := op.RunStep(ctx, "persist", func(context.Context) error {
			return store.SetAndSave(shellconf.Assignment{Key: f.key, AltKey: f.altKey, Value: value})
		})
		if err != nil {
			return phase(PhaseFailed), &PersistError{Attribute: req.Attribute, Err: err}
		}
	}

	if f.applyHost {
		phase(PhasePersisting)
		err := op.RunStep(ctx, "apply", func(context.Context) error {
			return e.host.SetHostname(value)
		})
		if err != nil {
			return phase(PhaseFailed), &ApplyError{Err: err}
		}
	}

	_ = op.RunStep(ctx, "commit", func(context.Context) error {
		e.state.commit(req.Attribute, value)
		e.publisher.Publish(hostnamed.Change{
			Attribute: req.Attribute,
			Value:     value,
			Sender:    req.Sender,
			At:        e.now(),
		})
		return nil
	})

	res := phase(PhaseCommitted)
	res.Value = value
	return res, nil
}

func (e *Engine) store(kind storeKind) ConfigStore {
	switch kind {
	case storeStaticHostname:
		return e.stores.StaticHostname
	case storeMachineInfo:
		return e.stores.MachineInfo
	default:
		return nil
	}
}
