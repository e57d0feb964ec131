package cloner

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"graph-cloner/catalog"
	"graph-cloner/copier"
	"graph-cloner/policy"
)

const tracerName = "graph-cloner/cloner"

var (
	ErrUnsupportedMode = errors.New("unsupported execution mode")
	ErrInvalidWorkers  = errors.New("parallel mode needs at least one worker")
)

// Mode selects the execution model driving a copy to completion.
type Mode int

const (
	// DepthFirst runs every continuation inline, right after its shell is created.
	DepthFirst Mode = iota
	// BreadthFirst queues continuations and drains them on the calling goroutine.
	BreadthFirst
	// Parallel runs continuations as independent tasks on a bounded set of workers.
	Parallel
)

// String returns the mode name as used in rule files and flags.
func (m Mode) String() string {
	switch m {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "depth-first", "dfs", "sequential":
		return DepthFirst, nil
	case "breadth-first", "bfs":
		return BreadthFirst, nil
	case "parallel":
		return Parallel, nil
	}

	return DepthFirst, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// Executor runs tasks on a caller-supplied pool. Submit must eventually run the
// task or drop it; a dropped task is only noticed when the Clone context ends.
type Executor interface {
	Submit(task func())
}

// ExecutorFunc adapts a function to an Executor.
type ExecutorFunc func(task func())

func (f ExecutorFunc) Submit(task func()) {
	f(task)
}

// Options configures an Engine.
type Options struct {
	Policy       policy.Policy
	Allocator    copier.Allocator
	Copiers      map[reflect.Type]copier.Copier
	Introspector catalog.Introspector
	Mode         Mode
	Workers      int
	Executor     Executor
	Logger       *slog.Logger
	Observer     Observer
	Tracer       trace.Tracer
}

// DefaultOptions returns depth-first copying driven by struct tags.
func DefaultOptions() Options {
	return Options{
		Policy:       policy.NewTagPolicy(policy.DefaultTagKey),
		Allocator:    copier.ReflectAllocator{},
		Copiers:      make(map[reflect.Type]copier.Copier),
		Introspector: catalog.Unsafe,
		Mode:         DepthFirst,
		Workers:      runtime.GOMAXPROCS(0),
		Logger:       slog.Default(),
		Observer:     nopObserver{},
		Tracer:       otel.Tracer(tracerName),
	}
}

// Option modifies Options.
type Option func(*Options)

// WithPolicy replaces the policy. Use policy.Compose to keep struct tags as well.
func WithPolicy(p policy.Policy) Option {
	return func(o *Options) {
		o.Policy = p
	}
}

// WithAllocator replaces the allocator used for pointer shells.
func WithAllocator(a copier.Allocator) Option {
	return func(o *Options) {
		o.Allocator = a
	}
}

// WithCopier registers a copier for exactly type t.
func WithCopier(t reflect.Type, c copier.Copier) Option {
	return func(o *Options) {
		if o.Copiers == nil {
			o.Copiers = make(map[reflect.Type]copier.Copier)
		}

		o.Copiers[t] = c
	}
}

// WithIntrospector replaces the field access strategy.
func WithIntrospector(i catalog.Introspector) Option {
	return func(o *Options) {
		o.Introspector = i
	}
}

// WithMode selects the execution model.
func WithMode(m Mode) Option {
	return func(o *Options) {
		o.Mode = m
	}
}

// WithWorkers selects parallel mode with n workers.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Mode = Parallel
		o.Workers = n
	}
}

// WithExecutor selects parallel mode on a caller-supplied pool.
func WithExecutor(e Executor) Option {
	return func(o *Options) {
		o.Mode = Parallel
		o.Executor = e
	}
}

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver sets the observer notified about every Clone call.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// WithTracer sets the tracer used for Clone spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) {
		o.Tracer = t
	}
}

func (o *Options) validate() error {
	switch o.Mode {
	case DepthFirst, BreadthFirst:
	case Parallel:
		if o.Executor == nil && o.Workers < 1 {
			return ErrInvalidWorkers
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedMode, o.Mode)
	}

	if o.Policy == nil {
		o.Policy = policy.None
	}

	if o.Allocator == nil {
		o.Allocator = copier.ReflectAllocator{}
	}

	if o.Introspector == nil {
		o.Introspector = catalog.Unsafe
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.Observer == nil {
		o.Observer = nopObserver{}
	}

	if o.Tracer == nil {
		o.Tracer = otel.Tracer(tracerName)
	}

	return nil
}
