package metrics

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-cloner/cloner"
	"graph-cloner/policy"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.CloneStarted(cloner.Parallel)
	assert.InDelta(t, 1, testutil.ToFloat64(c.inflight.WithLabelValues("parallel")), 0)

	c.CloneFinished(cloner.Parallel, cloner.Stats{Nodes: 7, Tasks: 5, Duration: time.Millisecond}, nil)
	c.CloneStarted(cloner.Parallel)
	c.CloneFinished(cloner.Parallel, cloner.Stats{Nodes: 3, Tasks: 1}, errors.New("boom"))

	assert.InDelta(t, 0, testutil.ToFloat64(c.inflight.WithLabelValues("parallel")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.clones.WithLabelValues("parallel", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.clones.WithLabelValues("parallel", "error")), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(c.nodes.WithLabelValues("parallel")), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(c.tasks.WithLabelValues("parallel")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestCollectorNilRegisterer(t *testing.T) {
	c := New(nil)

	assert.NotPanics(t, func() {
		c.CloneStarted(cloner.DepthFirst)
		c.CloneFinished(cloner.DepthFirst, cloner.Stats{}, nil)
	})
}

func TestCollectorObservesEngine(t *testing.T) {
	c := New(nil)

	e, err := cloner.New(cloner.WithObserver(c), cloner.WithMode(cloner.BreadthFirst))
	require.NoError(t, err)

	type node struct {
		Next *node
	}

	head := &node{Next: &node{}}
	head.Next.Next = head

	_, err = e.Clone(t.Context(), head)
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(c.clones.WithLabelValues("breadth-first", "ok")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.nodes.WithLabelValues("breadth-first")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.tasks.WithLabelValues("breadth-first")), 0)
}

func TestResult(t *testing.T) {
	conflict := &policy.ConflictingPolicyError{Input: "x", Actions: []policy.Action{policy.Null, policy.Deep}}

	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.Canceled, "canceled"},
		{&cloner.CloningError{Err: context.DeadlineExceeded}, "canceled"},
		{conflict, "conflict"},
		{&cloner.CloningError{Type: reflect.TypeFor[int](), Err: errors.New("x")}, "failed"},
		{errors.New("x"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err))
	}
}
