package cloner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"graph-cloner/catalog"
	"graph-cloner/copier"
)

// Cloner produces deep copies of object graphs.
type Cloner interface {
	// Clone returns a copy of v. A nil v yields nil.
	Clone(ctx context.Context, v any) (any, error)
}

// CloneOf clones v with c and returns the copy with v's static type.
func CloneOf[T any](ctx context.Context, c Cloner, v T) (T, error) {
	var zero T

	out, err := c.Clone(ctx, v)
	if err != nil || out == nil {
		return zero, err
	}

	t, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("clone of %T has type %T", v, out)
	}

	return t, nil
}

// Engine is the reflection based Cloner.
//
// Each Clone call gets its own identity map and scheduler; the policy
// resolutions and copier lookups are cached on the Engine and shared by
// every call.
//
// Thread Safety: an Engine is safe for concurrent use once built.
type Engine struct {
	opts     Options
	catalog  *catalog.Catalog
	registry *copier.Registry
}

var _ Cloner = (*Engine)(nil)

// New builds an Engine from DefaultOptions modified by opts.
func New(opts ...Option) (*Engine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		opts:     o,
		catalog:  catalog.New(o.Policy),
		registry: copier.NewRegistry(o.Copiers),
	}, nil
}

// MustNew is like New but panics on invalid options.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return e
}

// Mode returns the execution model of the engine.
func (e *Engine) Mode() Mode {
	return e.opts.Mode
}

func (e *Engine) Clone(ctx context.Context, v any) (out any, err error) {
	if v == nil {
		return nil, nil
	}

	mode := e.opts.Mode
	runID := uuid.NewString()

	ctx, span := e.opts.Tracer.Start(ctx, "cloner.Clone",
		trace.WithAttributes(
			attribute.String("clone.run_id", runID),
			attribute.String("clone.mode", mode.String()),
			attribute.String("clone.type", fmt.Sprintf("%T", v)),
		),
	)
	defer span.End()

	logger := LoggerWithTrace(ctx, e.opts.Logger).With(
		slog.String("run_id", runID),
		slog.String("mode", mode.String()),
	)

	e.opts.Observer.CloneStarted(mode)
	logger.Debug("clone started", slog.String("type", fmt.Sprintf("%T", v)))

	start := time.Now()
	c := &copyContext{
		ctx:    ctx,
		engine: e,
		clones: newIdentityMap(),
		sched:  e.newScheduler(ctx),
	}

	out, err = e.run(c, reflect.ValueOf(v))

	stats := Stats{
		Nodes:    c.clones.len(),
		Tasks:    c.sched.tasks(),
		Duration: time.Since(start),
	}

	span.SetAttributes(
		attribute.Int("clone.nodes", stats.Nodes),
		attribute.Int64("clone.tasks", stats.Tasks),
	)

	e.opts.Observer.CloneFinished(mode, stats, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("clone failed",
			slog.String("error", err.Error()),
			slog.Int("nodes", stats.Nodes),
			slog.Int64("tasks", stats.Tasks),
		)

		return nil, err
	}

	logger.Debug("clone finished",
		slog.Int("nodes", stats.Nodes),
		slog.Int64("tasks", stats.Tasks),
		slog.Duration("duration", stats.Duration),
	)

	return out, nil
}

// run copies the root and waits for every continuation. The scheduler is
// always drained, even when the root copy fails, so no task outlives the call.
func (e *Engine) run(c *copyContext, root reflect.Value) (out any, err error) {
	var copied reflect.Value

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(root.Type(), r)
			}
		}()

		copied, err = c.Copy(root)
	}()

	if err != nil {
		c.sched.abort(err)
	}

	if werr := c.sched.wait(); err == nil {
		err = werr
	}

	if err == nil {
		err = c.ctx.Err()
	}

	if err != nil {
		var cloning *CloningError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if !errors.As(err, &cloning) {
				err = &CloningError{Type: root.Type(), Err: err}
			}
		}

		return nil, err
	}

	return copied.Interface(), nil
}
