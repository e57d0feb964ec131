package cloner_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"graph-cloner/cloner"
)

// modes lists one engine configuration per execution model.
var modes = []struct {
	name string
	opts []cloner.Option
}{
	{name: "depth-first", opts: []cloner.Option{cloner.WithMode(cloner.DepthFirst)}},
	{name: "breadth-first", opts: []cloner.Option{cloner.WithMode(cloner.BreadthFirst)}},
	{name: "parallel", opts: []cloner.Option{cloner.WithWorkers(4)}},
	{name: "parallel-single", opts: []cloner.Option{cloner.WithWorkers(1)}},
}

func eachMode(t *testing.T, extra []cloner.Option, fn func(t *testing.T, e *cloner.Engine)) {
	t.Helper()

	for _, m := range modes {
		t.Run(m.name, func(t *testing.T) {
			e, err := cloner.New(append(append([]cloner.Option{}, m.opts...), extra...)...)
			require.NoError(t, err)

			fn(t, e)
		})
	}
}

var timeType = reflect.TypeFor[time.Time]()

// isomorphism checks that dup has the same shape as orig: equal scalar
// content, the same sharing pattern, and no identity-bearing value in common.
type isomorphism struct {
	seen map[string]uintptr
	used map[uintptr]string
}

func requireIsomorphic(t *testing.T, orig, dup any) {
	t.Helper()

	iso := &isomorphism{seen: map[string]uintptr{}, used: map[uintptr]string{}}
	if err := iso.walk(reflect.ValueOf(orig), reflect.ValueOf(dup), "root"); err != nil {
		t.Fatalf("%v\noriginal: %s\nclone: %s", err, spew.Sdump(orig), spew.Sdump(dup))
	}
}

func (iso *isomorphism) node(a, b reflect.Value, path string) (bool, error) {
	if a.IsNil() != b.IsNil() {
		return false, fmt.Errorf("%s: nil mismatch", path)
	}

	if a.IsNil() {
		return false, nil
	}

	key := fmt.Sprintf("%v/%x", a.Type(), a.Pointer())
	if a.Kind() == reflect.Slice {
		key = fmt.Sprintf("%s/%d/%d", key, a.Len(), a.Cap())
	}

	if want, ok := iso.seen[key]; ok {
		if want != b.Pointer() {
			return false, fmt.Errorf("%s: sharing not preserved", path)
		}

		return false, nil
	}

	if a.Pointer() == b.Pointer() && !(a.Kind() == reflect.Slice && a.Cap() == 0) {
		return false, fmt.Errorf("%s: clone shares %v with the original", path, a.Type())
	}

	if prev, ok := iso.used[b.Pointer()]; ok && b.Kind() != reflect.Slice {
		return false, fmt.Errorf("%s: clone merges %s and %s", path, prev, key)
	}

	iso.seen[key] = b.Pointer()
	iso.used[b.Pointer()] = key

	return true, nil
}

func (iso *isomorphism) walk(a, b reflect.Value, path string) error {
	if a.IsValid() != b.IsValid() {
		return fmt.Errorf("%s: validity mismatch", path)
	}

	if !a.IsValid() {
		return nil
	}

	if a.Type() != b.Type() {
		return fmt.Errorf("%s: type %v != %v", path, a.Type(), b.Type())
	}

	switch a.Kind() {
	case reflect.Pointer:
		if descend, err := iso.node(a, b, path); err != nil || !descend {
			return err
		}

		return iso.walk(a.Elem(), b.Elem(), "(*"+path+")")
	case reflect.Slice:
		if descend, err := iso.node(a, b, path); err != nil || !descend {
			return err
		}

		if a.Len() != b.Len() || a.Cap() != b.Cap() {
			return fmt.Errorf("%s: length mismatch", path)
		}

		for i := range a.Len() {
			if err := iso.walk(a.Index(i), b.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if descend, err := iso.node(a, b, path); err != nil || !descend {
			return err
		}

		if a.Len() != b.Len() {
			return fmt.Errorf("%s: length mismatch", path)
		}

		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() {
				return fmt.Errorf("%s: missing key %v", path, iter.Key())
			}

			if err := iso.walk(iter.Value(), bv, fmt.Sprintf("%s[%v]", path, iter.Key())); err != nil {
				return err
			}
		}
	case reflect.Interface:
		return iso.walk(a.Elem(), b.Elem(), path)
	case reflect.Array:
		for i := range a.Len() {
			if err := iso.walk(a.Index(i), b.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		if a.Type() == timeType {
			return iso.scalar(a, b, path)
		}

		for i := range a.NumField() {
			if err := iso.walk(a.Field(i), b.Field(i), path+"."+a.Type().Field(i).Name); err != nil {
				return err
			}
		}
	default:
		return iso.scalar(a, b, path)
	}

	return nil
}

func (iso *isomorphism) scalar(a, b reflect.Value, path string) error {
	if fmt.Sprint(a) != fmt.Sprint(b) {
		return fmt.Errorf("%s: %v != %v", path, a, b)
	}

	return nil
}
