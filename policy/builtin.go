package policy

import (
	"reflect"
	"time"
)

var immutableTypes = map[reflect.Type]struct{}{
	reflect.TypeFor[time.Time]():      {},
	reflect.TypeFor[time.Location]():  {},
	reflect.TypeOf(reflect.TypeOf(0)): {}, // *reflect.rtype
}

// Builtin returns the action used when no policy has an opinion: Original for
// values without mutable identity, Deep for everything else.
func Builtin(t reflect.Type) Action {
	if t == nil {
		return Original
	}

	if _, ok := immutableTypes[t]; ok {
		return Original
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return Original
	case reflect.Pointer:
		if _, ok := immutableTypes[t.Elem()]; ok {
			return Original
		}
	}

	return Deep
}

// MarkImmutable registers t as a type whose values are always shared.
// It must be called during program initialization.
func MarkImmutable(t reflect.Type) {
	immutableTypes[t] = struct{}{}
}
