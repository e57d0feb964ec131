package cloner

import (
	"errors"
	"fmt"
	"reflect"

	"graph-cloner/catalog"
	"graph-cloner/copier"
	"graph-cloner/policy"
)

// CloningError wraps any failure met while copying a value of Type.
// Type is the innermost value being copied when the failure happened.
type CloningError struct {
	Type reflect.Type
	Err  error
}

func (e *CloningError) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("cloning failed: %v", e.Err)
	}

	return fmt.Sprintf("cloning %v failed: %v", e.Type, e.Err)
}

func (e *CloningError) Unwrap() error {
	return e.Err
}

// wrap attaches t to err unless err already carries its own context.
func wrap(t reflect.Type, err error) error {
	if err == nil {
		return nil
	}

	var (
		cloning       *CloningError
		conflict      *policy.ConflictingPolicyError
		allocation    *copier.AllocationError
		introspection *catalog.IntrospectionError
	)

	switch {
	case errors.As(err, &cloning),
		errors.As(err, &conflict),
		errors.As(err, &allocation),
		errors.As(err, &introspection):
		return err
	}

	return &CloningError{Type: t, Err: err}
}

// recovered turns a recovered panic into an error.
func recovered(t reflect.Type, r any) error {
	if err, ok := r.(error); ok {
		return &CloningError{Type: t, Err: fmt.Errorf("panic: %w", err)}
	}

	return &CloningError{Type: t, Err: fmt.Errorf("panic: %v", r)}
}
