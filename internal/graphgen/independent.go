package graphgen

import (
	"fmt"
	"reflect"
	"time"
)

var timeType = reflect.TypeFor[time.Time]()

// Independent walks an original graph and its clone side by side and reports
// the first place where the clone reuses a pointer, map or slice of the
// original, or where sharing in the original is not mirrored by the clone.
func Independent(orig, dup any) error {
	w := &independence{seen: map[nodeKey]uintptr{}}
	return w.walk(reflect.ValueOf(orig), reflect.ValueOf(dup), "root")
}

type nodeKey struct {
	typ      reflect.Type
	ptr      uintptr
	len, cap int
}

type independence struct {
	seen map[nodeKey]uintptr
}

// visit checks one identity-bearing pair and reports whether to descend.
func (w *independence) visit(a, b reflect.Value, path string) (bool, error) {
	if a.IsNil() != b.IsNil() {
		return false, fmt.Errorf("%s: nil mismatch", path)
	}

	if a.IsNil() {
		return false, nil
	}

	key := nodeKey{typ: a.Type(), ptr: a.Pointer()}
	if a.Kind() == reflect.Slice {
		if a.Cap() == 0 {
			return false, nil
		}

		key.len, key.cap = a.Len(), a.Cap()
	}

	if want, ok := w.seen[key]; ok {
		if want != b.Pointer() {
			return false, fmt.Errorf("%s: sharing not preserved", path)
		}

		return false, nil
	}

	if a.Pointer() == b.Pointer() {
		return false, fmt.Errorf("%s: clone shares %v with the original", path, a.Type())
	}

	w.seen[key] = b.Pointer()

	return true, nil
}

func (w *independence) walk(a, b reflect.Value, path string) error {
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
		if descend, err := w.visit(a, b, path); err != nil || !descend {
			return err
		}

		return w.walk(a.Elem(), b.Elem(), path)
	case reflect.Interface:
		if a.IsNil() != b.IsNil() {
			return fmt.Errorf("%s: nil mismatch", path)
		}

		return w.walk(a.Elem(), b.Elem(), path)
	case reflect.Slice:
		if descend, err := w.visit(a, b, path); err != nil || !descend {
			return err
		}

		return w.elements(a, b, path)
	case reflect.Array:
		return w.elements(a, b, path)
	case reflect.Map:
		if descend, err := w.visit(a, b, path); err != nil || !descend {
			return err
		}

		if a.Len() != b.Len() {
			return fmt.Errorf("%s: map length %d != %d", path, a.Len(), b.Len())
		}

		for it := a.MapRange(); it.Next(); {
			if err := w.walk(it.Value(), b.MapIndex(it.Key()), fmt.Sprintf("%s[%v]", path, it.Key())); err != nil {
				return err
			}
		}
	case reflect.Struct:
		if a.Type() == timeType {
			return nil
		}

		for i := range a.NumField() {
			if err := w.walk(a.Field(i), b.Field(i), path+"."+a.Type().Field(i).Name); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *independence) elements(a, b reflect.Value, path string) error {
	if a.Len() != b.Len() {
		return fmt.Errorf("%s: length %d != %d", path, a.Len(), b.Len())
	}

	for i := range a.Len() {
		if err := w.walk(a.Index(i), b.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}

	return nil
}
