package cloner

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"graph-cloner/catalog"
	"graph-cloner/copier"
	"graph-cloner/policy"
)

var errBadAllocation = errors.New("allocator returned an unexpected value")

// copyContext is the traversal state of one Clone call.
type copyContext struct {
	ctx    context.Context
	engine *Engine
	clones *identityMap
	sched  scheduler
}

var _ copier.Context = (*copyContext)(nil)

// Copy returns the duplicate of original:
//  1. absent values are returned as they are
//  2. identity-bearing originals already visited resolve to their duplicate
//  3. Original and Null type actions short-circuit
//  4. otherwise the registered copier builds the duplicate, which is recorded once
//  5. its continuation, if any, is handed to the scheduler
func (c *copyContext) Copy(original reflect.Value) (reflect.Value, error) {
	if absent(original) {
		return original, nil
	}

	t := original.Type()

	switch shape := copier.Classify(t); {
	case shape == copier.ShapeInterface:
		return c.copyInterface(original)
	case shape.HasIdentity() && !c.engine.registry.Copier(t).Trivial():
		return c.copyNode(original)
	default:
		return c.copyValue(original)
	}
}

// CopyInto writes the duplicate of original into dst. Struct and array values
// whose copier supports it are filled in place.
func (c *copyContext) CopyInto(dst, original reflect.Value) error {
	if !original.IsValid() {
		dst.SetZero()
		return nil
	}

	t := original.Type()

	if shape := copier.Classify(t); shape == copier.ShapeStruct || shape == copier.ShapeArray {
		action, err := c.engine.catalog.TypeAction(t)
		if err != nil {
			return wrap(t, err)
		}

		switch action {
		case policy.Original:
			dst.Set(original)
			return nil
		case policy.Null:
			dst.SetZero()
			return nil
		}

		if in, ok := c.engine.registry.Copier(t).(copier.InPlace); ok {
			return wrap(t, in.CopyInto(dst, original, c))
		}
	}

	v, err := c.Copy(original)
	if err != nil {
		return err
	}

	dst.Set(v)

	return nil
}

func (c *copyContext) Allocate(t reflect.Type) (reflect.Value, error) {
	v, err := c.engine.opts.Allocator.Allocate(t)
	if err != nil {
		var allocation *copier.AllocationError
		if errors.As(err, &allocation) {
			return reflect.Value{}, err
		}

		return reflect.Value{}, &copier.AllocationError{Type: t, Err: err}
	}

	if !v.IsValid() || v.Type() != reflect.PointerTo(t) {
		return reflect.Value{}, &copier.AllocationError{Type: t, Err: errBadAllocation}
	}

	return v, nil
}

func (c *copyContext) Slots(t reflect.Type) ([]catalog.Entry, error) {
	return c.engine.catalog.Slots(t)
}

func (c *copyContext) Field(v reflect.Value, s policy.Slot) (reflect.Value, error) {
	return c.engine.opts.Introspector.Field(v, s)
}

func (c *copyContext) KeyAction(t reflect.Type) (policy.Action, error) {
	return c.engine.catalog.KeyAction(t)
}

func (c *copyContext) copyInterface(original reflect.Value) (reflect.Value, error) {
	inner, err := c.Copy(original.Elem())
	if err != nil {
		return reflect.Value{}, err
	}

	if absent(inner) {
		return reflect.Zero(original.Type()), nil
	}

	out := reflect.New(original.Type()).Elem()
	out.Set(inner)

	return out, nil
}

// copyNode copies a pointer, map or slice at most once per Clone call.
func (c *copyContext) copyNode(original reflect.Value) (reflect.Value, error) {
	t := original.Type()
	e := c.clones.entry(keyOf(original))

	e.mu.Lock()
	if e.done {
		v, err := e.value, e.err
		e.mu.Unlock()

		return v, err
	}

	res, err := c.shell(original)
	e.value, e.err, e.done = res.Value, err, true
	e.mu.Unlock()

	if err != nil {
		return reflect.Value{}, err
	}

	if res.Next == nil {
		return res.Value, nil
	}

	if err := c.sched.schedule(t, res.Next); err != nil {
		return reflect.Value{}, err
	}

	return res.Value, nil
}

// shell resolves the type action and runs the copier for one original.
func (c *copyContext) shell(original reflect.Value) (res copier.Result, err error) {
	t := original.Type()

	defer func() {
		if r := recover(); r != nil {
			res, err = copier.Result{}, recovered(t, r)
		}
	}()

	action, err := c.engine.catalog.TypeAction(t)
	if err != nil {
		return copier.Result{}, wrap(t, err)
	}

	switch action {
	case policy.Original:
		return copier.Result{Value: original}, nil
	case policy.Null:
		return copier.Result{Value: reflect.Zero(t)}, nil
	}

	res, err = c.engine.registry.Copier(t).Copy(original, c)
	if err != nil {
		return copier.Result{}, wrap(t, err)
	}

	if !res.Value.IsValid() {
		return copier.Result{}, &CloningError{Type: t, Err: fmt.Errorf("copier returned no value")}
	}

	return res, nil
}

// copyValue copies values without identity. Their continuation, if a custom
// copier returns one, runs at once since the value is copied out right after.
func (c *copyContext) copyValue(original reflect.Value) (reflect.Value, error) {
	t := original.Type()

	res, err := c.shell(original)
	if err != nil {
		return reflect.Value{}, err
	}

	if res.Next != nil {
		if err := res.Next(); err != nil {
			return reflect.Value{}, wrap(t, err)
		}
	}

	return res.Value, nil
}

func absent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}
