package copier

import (
	"reflect"
	"sync"

	"graph-cloner/policy"
)

var (
	// Noop returns the original value.
	Noop Copier = noopCopier{}
	// Null returns the zero value of the original's type.
	Null Copier = nullCopier{}
	// Shallow duplicates a slice without duplicating its elements.
	Shallow Copier = shallowCopier{}
	// Slice duplicates a slice and every element.
	Slice Copier = sliceCopier{}
	// Array duplicates an array value and every element.
	Array Copier = arrayCopier{}
	// Map duplicates a map and every value; keys only when their policy says Deep.
	Map Copier = mapCopier{}
	// Pointer duplicates the value a pointer points to.
	Pointer Copier = pointerCopier{}
	// Struct duplicates a struct value slot by slot.
	Struct Copier = structCopier{}
	// SyncMap duplicates a sync.Map value and every entry.
	SyncMap Copier = syncMapCopier{}
)

type noopCopier struct{}

func (noopCopier) Trivial() bool { return true }

func (noopCopier) Copy(original reflect.Value, _ Context) (Result, error) {
	return Result{Value: original}, nil
}

type nullCopier struct{}

func (nullCopier) Trivial() bool { return true }

func (nullCopier) Copy(original reflect.Value, _ Context) (Result, error) {
	return Result{Value: reflect.Zero(original.Type())}, nil
}

type shallowCopier struct{}

func (shallowCopier) Trivial() bool { return false }

func (shallowCopier) Copy(original reflect.Value, _ Context) (Result, error) {
	shell := reflect.MakeSlice(original.Type(), original.Len(), original.Cap())
	reflect.Copy(shell, original)

	return Result{Value: shell}, nil
}

type sliceCopier struct{}

func (sliceCopier) Trivial() bool { return false }

func (sliceCopier) Copy(original reflect.Value, ctx Context) (Result, error) {
	shell := reflect.MakeSlice(original.Type(), original.Len(), original.Cap())

	return Result{
		Value: shell,
		Next: func() error {
			for i := range original.Len() {
				if err := ctx.CopyInto(shell.Index(i), original.Index(i)); err != nil {
					return err
				}
			}

			return nil
		},
	}, nil
}

type arrayCopier struct{}

func (arrayCopier) Trivial() bool { return false }

func (c arrayCopier) Copy(original reflect.Value, ctx Context) (Result, error) {
	dst := reflect.New(original.Type()).Elem()
	if err := c.CopyInto(dst, original, ctx); err != nil {
		return Result{}, err
	}

	return Result{Value: dst}, nil
}

func (arrayCopier) CopyInto(dst, original reflect.Value, ctx Context) error {
	for i := range original.Len() {
		if err := ctx.CopyInto(dst.Index(i), original.Index(i)); err != nil {
			return err
		}
	}

	return nil
}

type mapCopier struct{}

func (mapCopier) Trivial() bool { return false }

func (mapCopier) Copy(original reflect.Value, ctx Context) (Result, error) {
	shell := reflect.MakeMapWithSize(original.Type(), original.Len())

	return Result{
		Value: shell,
		Next: func() error {
			keyAction, err := ctx.KeyAction(original.Type().Key())
			if err != nil {
				return err
			}

			iter := original.MapRange()
			for iter.Next() {
				key := iter.Key()
				if keyAction == policy.Deep {
					if key, err = ctx.Copy(key); err != nil {
						return err
					}
				}

				value, err := ctx.Copy(iter.Value())
				if err != nil {
					return err
				}

				shell.SetMapIndex(key, value)
			}

			return nil
		},
	}, nil
}

type pointerCopier struct{}

func (pointerCopier) Trivial() bool { return false }

func (pointerCopier) Copy(original reflect.Value, ctx Context) (Result, error) {
	shell, err := ctx.Allocate(original.Type().Elem())
	if err != nil {
		return Result{}, err
	}

	if shell.Type() != original.Type() {
		shell = shell.Convert(original.Type())
	}

	return Result{
		Value: shell,
		Next: func() error {
			return ctx.CopyInto(shell.Elem(), original.Elem())
		},
	}, nil
}

type structCopier struct{}

func (structCopier) Trivial() bool { return false }

func (c structCopier) Copy(original reflect.Value, ctx Context) (Result, error) {
	dst := reflect.New(original.Type()).Elem()
	if err := c.CopyInto(dst, original, ctx); err != nil {
		return Result{}, err
	}

	return Result{Value: dst}, nil
}

func (structCopier) CopyInto(dst, original reflect.Value, ctx Context) error {
	original = addressable(original)

	entries, err := ctx.Slots(original.Type())
	if err != nil {
		return err
	}

	for _, e := range entries {
		to, err := ctx.Field(dst, e.Slot)
		if err != nil {
			return err
		}

		if e.Action == policy.Null {
			to.SetZero()
			continue
		}

		from, err := ctx.Field(original, e.Slot)
		if err != nil {
			return err
		}

		if e.Action == policy.Original {
			to.Set(from)
			continue
		}

		if err := ctx.CopyInto(to, from); err != nil {
			return err
		}
	}

	return nil
}

var syncMapType = reflect.TypeFor[sync.Map]()

type syncMapCopier struct{}

func (syncMapCopier) Trivial() bool { return false }

func (c syncMapCopier) Copy(original reflect.Value, ctx Context) (Result, error) {
	dst := reflect.New(syncMapType).Elem()
	if err := c.CopyInto(dst, original, ctx); err != nil {
		return Result{}, err
	}

	return Result{Value: dst}, nil
}

func (syncMapCopier) CopyInto(dst, original reflect.Value, ctx Context) error {
	src := addressable(original).Addr().Interface().(*sync.Map)
	out := dst.Addr().Interface().(*sync.Map)

	keyAction, err := ctx.KeyAction(reflect.TypeFor[any]())
	if err != nil {
		return err
	}

	src.Range(func(k, v any) bool {
		key := k
		if keyAction == policy.Deep {
			var copied reflect.Value
			if copied, err = ctx.Copy(reflect.ValueOf(k)); err != nil {
				return false
			}

			key = valueInterface(copied)
		}

		var value reflect.Value
		if value, err = ctx.Copy(reflect.ValueOf(v)); err != nil {
			return false
		}

		out.Store(key, valueInterface(value))

		return true
	})

	return err
}

// addressable returns v itself when it is addressable, otherwise an addressable copy.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}

	tmp := reflect.New(v.Type()).Elem()
	tmp.Set(v)

	return tmp
}

func valueInterface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	return v.Interface()
}
