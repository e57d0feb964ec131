package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"graph-cloner/cloner"
	"graph-cloner/policy"
)

const namespace = "graph_cloner"

// Collector records Clone calls as Prometheus metrics.
//
// Thread Safety: safe for concurrent use.
type Collector struct {
	inflight *prometheus.GaugeVec
	clones   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    *prometheus.CounterVec
	tasks    *prometheus.CounterVec
}

var _ cloner.Observer = (*Collector)(nil)

// New registers the clone metrics on reg. A nil reg registers nothing, which
// keeps tests free of global state.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		inflight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clones_in_flight",
			Help:      "Clone calls currently running by mode",
		}, []string{"mode"}),
		clones: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clones_total",
			Help:      "Clone calls by mode and result",
		}, []string{"mode", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "clone_duration_seconds",
			Help:      "Clone call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"mode"}),
		nodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Identity-bearing values visited by mode",
		}, []string{"mode"}),
		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Continuations scheduled by mode",
		}, []string{"mode"}),
	}
}

func (c *Collector) CloneStarted(mode cloner.Mode) {
	c.inflight.WithLabelValues(mode.String()).Inc()
}

func (c *Collector) CloneFinished(mode cloner.Mode, stats cloner.Stats, err error) {
	m := mode.String()

	c.inflight.WithLabelValues(m).Dec()
	c.clones.WithLabelValues(m, Result(err)).Inc()
	c.duration.WithLabelValues(m).Observe(stats.Duration.Seconds())
	c.nodes.WithLabelValues(m).Add(float64(stats.Nodes))
	c.tasks.WithLabelValues(m).Add(float64(stats.Tasks))
}

// Result classifies a Clone outcome into a metric label.
func Result(err error) string {
	var (
		conflict   *policy.ConflictingPolicyError
		cloningErr *cloner.CloningError
	)

	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &cloningErr):
		return "failed"
	default:
		return "error"
	}
}
