package copier

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrNilType = errors.New("type is nil")

// AllocationError reports that a shell for a type could not be created.
type AllocationError struct {
	Type reflect.Type
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("cannot allocate %v: %v", e.Type, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// Allocator creates empty instances without running any construction logic.
// Allocate returns a pointer to a new zero value of type t.
type Allocator interface {
	Allocate(t reflect.Type) (reflect.Value, error)
}

// AllocatorFunc adapts a function to an Allocator.
type AllocatorFunc func(t reflect.Type) (reflect.Value, error)

func (f AllocatorFunc) Allocate(t reflect.Type) (reflect.Value, error) {
	return f(t)
}

// ReflectAllocator allocates zeroed memory with reflect.New.
type ReflectAllocator struct{}

func (ReflectAllocator) Allocate(t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, &AllocationError{Err: ErrNilType}
	}

	return reflect.New(t), nil
}
