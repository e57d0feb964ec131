package cloner

import (
	"context"
	"reflect"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// scheduler decides when continuations run.
type scheduler interface {
	// schedule hands over the continuation that populates a shell of type t.
	schedule(t reflect.Type, next func() error) error
	// wait blocks until every scheduled continuation has run or the first one failed.
	wait() error
	// abort stops scheduling after a failure outside of any continuation.
	abort(err error)
	// tasks returns the number of continuations scheduled so far.
	tasks() int64
}

func (e *Engine) newScheduler(ctx context.Context) scheduler {
	switch e.opts.Mode {
	case BreadthFirst:
		return &breadthFirst{ctx: ctx}
	case Parallel:
		return newParallel(ctx, e.opts.Workers, e.opts.Executor)
	default:
		return &depthFirst{ctx: ctx}
	}
}

// depthFirst runs each continuation inline; the call stack is the work stack.
type depthFirst struct {
	ctx   context.Context
	count int64
}

func (s *depthFirst) schedule(t reflect.Type, next func() error) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	s.count++

	return guarded(t, next)
}

func (s *depthFirst) wait() error  { return nil }
func (s *depthFirst) abort(error)  {}
func (s *depthFirst) tasks() int64 { return s.count }

type task struct {
	typ  reflect.Type
	next func() error
}

// breadthFirst queues continuations and drains them in FIFO order on the
// calling goroutine, keeping the stack flat whatever the graph depth.
type breadthFirst struct {
	ctx     context.Context
	pending []task
	count   int64
	err     error
}

func (s *breadthFirst) schedule(t reflect.Type, next func() error) error {
	if s.err != nil {
		return nil
	}

	s.count++
	s.pending = append(s.pending, task{typ: t, next: next})

	return nil
}

func (s *breadthFirst) wait() error {
	for len(s.pending) > 0 && s.err == nil {
		if err := s.ctx.Err(); err != nil {
			return err
		}

		head := s.pending[0]
		s.pending[0] = task{}
		s.pending = s.pending[1:]

		if err := guarded(head.typ, head.next); err != nil {
			s.err = err
		}
	}

	s.pending = nil

	return s.err
}

func (s *breadthFirst) abort(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *breadthFirst) tasks() int64 { return s.count }

// parallel runs each continuation as its own task.
//
// The errgroup is the completion barrier and keeps the first failure; its
// context doubles as the failure flag: once it is done no new continuation is
// scheduled, while tasks already started run to completion. The semaphore
// bounds the number of running tasks to the worker count; tasks waiting on it
// form the pending queue.
type parallel struct {
	group    *errgroup.Group
	gctx     context.Context
	cancel   context.CancelCauseFunc
	sem      *semaphore.Weighted
	executor Executor
	count    atomic.Int64
}

func newParallel(ctx context.Context, workers int, executor Executor) *parallel {
	ctx, cancel := context.WithCancelCause(ctx)
	group, gctx := errgroup.WithContext(ctx)

	p := &parallel{
		group:    group,
		gctx:     gctx,
		cancel:   cancel,
		executor: executor,
	}

	if executor == nil {
		p.sem = semaphore.NewWeighted(int64(workers))
	}

	return p
}

func (p *parallel) schedule(t reflect.Type, next func() error) error {
	if p.gctx.Err() != nil {
		return nil
	}

	p.count.Add(1)
	p.group.Go(func() error {
		return p.run(t, next)
	})

	return nil
}

func (p *parallel) run(t reflect.Type, next func() error) error {
	if p.executor != nil {
		return p.delegate(t, next)
	}

	if err := p.sem.Acquire(p.gctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	if err := p.gctx.Err(); err != nil {
		return err
	}

	return guarded(t, next)
}

func (p *parallel) delegate(t reflect.Type, next func() error) error {
	done := make(chan error, 1)

	p.executor.Submit(func() {
		if err := p.gctx.Err(); err != nil {
			done <- err
			return
		}

		done <- guarded(t, next)
	})

	select {
	case err := <-done:
		return err
	case <-p.gctx.Done():
		return p.gctx.Err()
	}
}

func (p *parallel) wait() error {
	err := p.group.Wait()
	p.cancel(nil)

	return err
}

func (p *parallel) abort(err error) {
	p.cancel(err)
}

func (p *parallel) tasks() int64 { return p.count.Load() }

// guarded runs a continuation, turning a panic into an error.
func guarded(t reflect.Type, next func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(t, r)
		}
	}()

	return wrap(t, next())
}
