package cloner

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Stats describes one finished Clone call.
type Stats struct {
	// Nodes is the number of identity-bearing originals visited.
	Nodes int
	// Tasks is the number of continuations scheduled.
	Tasks int64
	// Duration is the wall time of the call.
	Duration time.Duration
}

// Observer is notified at the start and end of every Clone call.
//
// Thread Safety: an Engine may call the observer from many goroutines at once.
type Observer interface {
	CloneStarted(mode Mode)
	CloneFinished(mode Mode, stats Stats, err error)
}

type nopObserver struct{}

func (nopObserver) CloneStarted(Mode)                {}
func (nopObserver) CloneFinished(Mode, Stats, error) {}

// LoggerWithTrace returns a logger carrying the trace and span IDs of the
// span in ctx, if there is one.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	return logger.With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

type observers []Observer

// Observers fans notifications out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var out observers

	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}

	return out
}

func (o observers) CloneStarted(mode Mode) {
	for _, obs := range o {
		obs.CloneStarted(mode)
	}
}

func (o observers) CloneFinished(mode Mode, stats Stats, err error) {
	for _, obs := range o {
		obs.CloneFinished(mode, stats, err)
	}
}
