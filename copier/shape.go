package copier

import (
	"reflect"
)

// Shape classifies a type by how it is duplicated.
type Shape int

const (
	ShapeTrivial Shape = iota
	ShapeInterface
	ShapePointer
	ShapeSlice
	ShapeArray
	ShapeMap
	ShapeStruct

	// ShapeTotal is a constant that represents the total number of shapes defined
	ShapeTotal = int(iota)
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTrivial:
		return "trivial"
	case ShapeInterface:
		return "interface"
	case ShapePointer:
		return "pointer"
	case ShapeSlice:
		return "slice"
	case ShapeArray:
		return "array"
	case ShapeMap:
		return "map"
	case ShapeStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// HasIdentity reports whether values of this shape are shared by reference and
// therefore tracked in the identity map.
func (s Shape) HasIdentity() bool {
	return s == ShapePointer || s == ShapeSlice || s == ShapeMap
}

// Classify dispatches t to its shape.
func Classify(t reflect.Type) Shape {
	if t == nil {
		return ShapeTrivial
	}

	switch t.Kind() {
	default:
		return ShapeTrivial
	case reflect.Interface:
		return ShapeInterface
	case reflect.Pointer:
		return ShapePointer
	case reflect.Slice:
		return ShapeSlice
	case reflect.Array:
		return ShapeArray
	case reflect.Map:
		return ShapeMap
	case reflect.Struct:
		return ShapeStruct
	}
}

// Primitive reports whether values of t hold no references at all: booleans,
// numbers, strings and arrays of those. A plain value copy of a primitive is
// already a complete duplicate.
func Primitive(t reflect.Type) bool {
	switch t.Kind() {
	default:
		return false
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Array:
		return Primitive(t.Elem())
	}
}
