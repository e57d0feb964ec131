package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"

	"graph-cloner/policy"
)

var (
	ErrNotAddressable = errors.New("struct value is not addressable")
	ErrUnexported     = errors.New("field is not exported")
)

// IntrospectionError reports a slot that could not be read or written.
type IntrospectionError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspection of %v field %s failed: %v", e.Type, e.Field, e.Err)
}

func (e *IntrospectionError) Unwrap() error {
	return e.Err
}

// Introspector gives read/write access to a slot of a struct value.
// The struct value passed in must be addressable.
type Introspector interface {
	Field(v reflect.Value, s policy.Slot) (reflect.Value, error)
}

// Unsafe reaches every field, exported or not, by re-deriving unexported
// fields from their address.
var Unsafe Introspector = unsafeIntrospector{}

// Exported only reaches exported fields and fails on anything else.
var Exported Introspector = exportedIntrospector{}

type unsafeIntrospector struct{}

func (unsafeIntrospector) Field(v reflect.Value, s policy.Slot) (reflect.Value, error) {
	if !v.CanAddr() {
		return reflect.Value{}, &IntrospectionError{Type: v.Type(), Field: s.String(), Err: ErrNotAddressable}
	}

	for _, i := range s.Index {
		v = v.Field(i)
		if !v.CanSet() {
			v = reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
		}
	}

	return v, nil
}

type exportedIntrospector struct{}

func (exportedIntrospector) Field(v reflect.Value, s policy.Slot) (reflect.Value, error) {
	if !v.CanAddr() {
		return reflect.Value{}, &IntrospectionError{Type: v.Type(), Field: s.String(), Err: ErrNotAddressable}
	}

	owner := v.Type()
	for _, i := range s.Index {
		if !v.Type().Field(i).IsExported() {
			return reflect.Value{}, &IntrospectionError{Type: owner, Field: s.String(), Err: ErrUnexported}
		}

		v = v.Field(i)
	}

	if !v.CanSet() {
		return reflect.Value{}, &IntrospectionError{Type: owner, Field: s.String(), Err: ErrUnexported}
	}

	return v, nil
}
