package policy

import (
	"reflect"
	"strconv"
	"strings"
)

// Slot identifies one field of a composite type as seen from the type being copied.
//
// Index is the path from the catalogued type down to the field, so fields promoted
// from embedded structs carry more than one element. Owner is the struct type that
// declares the field.
type Slot struct {
	Owner reflect.Type
	Field reflect.StructField
	Index []int
}

// String returns "Owner.Field".
func (s Slot) String() string {
	if s.Owner == nil {
		return s.Field.Name
	}

	return s.Owner.String() + "." + s.Field.Name
}

// Path returns the dotted index path, e.g. "0.2".
func (s Slot) Path() string {
	parts := make([]string, len(s.Index))
	for i, idx := range s.Index {
		parts[i] = strconv.Itoa(idx)
	}

	return strings.Join(parts, ".")
}

// Policy resolves copy actions for types and slots.
//
// Implementations return Default when they have no opinion; a ConflictingPolicyError
// is returned when the rules of a policy disagree about the same input.
type Policy interface {
	TypeAction(t reflect.Type) (Action, error)
	SlotAction(s Slot) (Action, error)
}

// Funcs adapts two plain functions to a Policy. A nil function answers Default.
type Funcs struct {
	Type func(reflect.Type) Action
	Slot func(Slot) Action
}

func (f Funcs) TypeAction(t reflect.Type) (Action, error) {
	if f.Type == nil {
		return Default, nil
	}

	return f.Type(t), nil
}

func (f Funcs) SlotAction(s Slot) (Action, error) {
	if f.Slot == nil {
		return Default, nil
	}

	return f.Slot(s), nil
}

// None is a policy without any rules.
var None Policy = Funcs{}

type composite []Policy

// Compose merges several policies. Every policy is consulted and their answers
// are folded, so two policies returning different non-default actions for the
// same input are reported as a conflict.
func Compose(policies ...Policy) Policy {
	flat := make(composite, 0, len(policies))
	for _, p := range policies {
		switch p := p.(type) {
		case nil:
		case composite:
			flat = append(flat, p...)
		default:
			flat = append(flat, p)
		}
	}

	if len(flat) == 1 {
		return flat[0]
	}

	return flat
}

func (c composite) TypeAction(t reflect.Type) (Action, error) {
	var fold Fold
	for _, p := range c {
		a, err := p.TypeAction(t)
		if err != nil {
			return Default, err
		}

		fold.Add(a)
	}

	return fold.Result(typeName(t))
}

func (c composite) SlotAction(s Slot) (Action, error) {
	var fold Fold
	for _, p := range c {
		a, err := p.SlotAction(s)
		if err != nil {
			return Default, err
		}

		fold.Add(a)
	}

	return fold.Result(s.String())
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
