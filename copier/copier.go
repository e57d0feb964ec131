package copier

import (
	"reflect"

	"graph-cloner/catalog"
	"graph-cloner/policy"
)

// Result is the outcome of copying one value.
//
// Value is the duplicate, possibly a shell whose content is filled in later by
// Next. Next is nil when the duplicate is already complete.
type Result struct {
	Value reflect.Value
	Next  func() error
}

// Context is the traversal engine as seen by a copier.
type Context interface {
	// Copy returns the duplicate of original, applying the policy and the
	// identity map. The result may still be under construction.
	Copy(original reflect.Value) (reflect.Value, error)
	// CopyInto writes the duplicate of original into the addressable dst.
	CopyInto(dst, original reflect.Value) error
	// Allocate returns a pointer to a new zero value of type t.
	Allocate(t reflect.Type) (reflect.Value, error)
	// Slots returns the catalogued slots of struct type t.
	Slots(t reflect.Type) ([]catalog.Entry, error)
	// Field gives access to a slot of the addressable struct value v.
	Field(v reflect.Value, s policy.Slot) (reflect.Value, error)
	// KeyAction returns the explicit policy action for map keys of type t.
	KeyAction(t reflect.Type) (policy.Action, error)
}

// Copier produces structural duplicates of values of one type.
//
// For identity-bearing values (pointers, maps, slices) Copy must only build the
// empty shell and leave every recursive Context call to Next: the shell is
// registered in the identity map when Copy returns, and that is what lets
// cycles resolve to it.
type Copier interface {
	// Trivial reports whether Copy never touches the Context. Trivial copies
	// bypass the identity map.
	Trivial() bool
	Copy(original reflect.Value, ctx Context) (Result, error)
}

// InPlace is implemented by copiers of value types that can populate an
// existing addressable destination instead of returning a new value.
type InPlace interface {
	CopyInto(dst, original reflect.Value, ctx Context) error
}

// Func adapts a function to a non-trivial Copier.
type Func func(original reflect.Value, ctx Context) (Result, error)

func (f Func) Trivial() bool { return false }

func (f Func) Copy(original reflect.Value, ctx Context) (Result, error) {
	return f(original, ctx)
}
