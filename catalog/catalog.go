package catalog

import (
	"reflect"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"graph-cloner/policy"
)

// Entry is one slot to process together with its resolved action.
type Entry struct {
	Slot   policy.Slot
	Action policy.Action
}

// Catalog memoizes per-type policy decisions: the ordered slot list of struct
// types and the resolved type actions.
//
// Thread Safety: safe for concurrent use. Concurrent first computations for the
// same type are collapsed into one; the cached values are pure functions of the
// type and the policy.
type Catalog struct {
	policy policy.Policy

	mu      sync.RWMutex
	slots   map[reflect.Type][]Entry
	actions map[reflect.Type]policy.Action
	keys    map[reflect.Type]policy.Action
	flight  singleflight.Group
}

// New creates a catalog for the given policy. A nil policy means policy.None.
func New(p policy.Policy) *Catalog {
	if p == nil {
		p = policy.None
	}

	return &Catalog{
		policy:  p,
		slots:   make(map[reflect.Type][]Entry),
		actions: make(map[reflect.Type]policy.Action),
		keys:    make(map[reflect.Type]policy.Action),
	}
}

// Policy returns the policy the catalog resolves against.
func (c *Catalog) Policy() policy.Policy {
	return c.policy
}

// Slots returns the slots of struct type t: slots of embedded structs first,
// then t's own fields, both in declaration order. Blank fields and slots whose
// action is Skip are left out. Non-struct types have no slots.
func (c *Catalog) Slots(t reflect.Type) ([]Entry, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, nil
	}

	c.mu.RLock()
	entries, ok := c.slots[t]
	c.mu.RUnlock()

	if ok {
		return entries, nil
	}

	v, err, _ := c.flight.Do("slots:"+typeKey(t), func() (any, error) {
		entries, err := c.collect(t)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.slots[t] = entries
		c.mu.Unlock()

		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]Entry), nil
}

func (c *Catalog) collect(t reflect.Type) ([]Entry, error) {
	var inherited, own []Entry

	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			action, err := c.TypeAction(f.Type)
			if err != nil {
				return nil, err
			}

			// embedded structs copied deeply are flattened into the embedding type
			if action == policy.Deep {
				entries, err := c.Slots(f.Type)
				if err != nil {
					return nil, err
				}

				for _, e := range entries {
					e.Slot.Index = append([]int{i}, e.Slot.Index...)
					inherited = append(inherited, e)
				}

				continue
			}
		}

		slot := policy.Slot{Owner: t, Field: f, Index: []int{i}}

		action, err := c.policy.SlotAction(slot)
		if err != nil {
			return nil, err
		}

		if action == policy.Skip {
			continue
		}

		own = append(own, Entry{Slot: slot, Action: action})
	}

	return append(inherited, own...), nil
}

// TypeAction resolves the action for values of type t. Pointer types without a
// rule of their own inherit the rule of their element type; when no rule applies
// policy.Builtin decides. Skip on a type means Null.
func (c *Catalog) TypeAction(t reflect.Type) (policy.Action, error) {
	c.mu.RLock()
	action, ok := c.actions[t]
	c.mu.RUnlock()

	if ok {
		return action, nil
	}

	action, err := c.explicit(t)
	if err != nil {
		return policy.Default, err
	}

	switch action {
	case policy.Default:
		action = policy.Builtin(t)
	case policy.Skip:
		action = policy.Null
	}

	c.mu.Lock()
	c.actions[t] = action
	c.mu.Unlock()

	return action, nil
}

// KeyAction resolves the policy's own action for map keys of type t, without
// falling back to policy.Builtin. Keys are only duplicated when this is Deep.
func (c *Catalog) KeyAction(t reflect.Type) (policy.Action, error) {
	c.mu.RLock()
	action, ok := c.keys[t]
	c.mu.RUnlock()

	if ok {
		return action, nil
	}

	action, err := c.explicit(t)
	if err != nil {
		return policy.Default, err
	}

	c.mu.Lock()
	c.keys[t] = action
	c.mu.Unlock()

	return action, nil
}

func (c *Catalog) explicit(t reflect.Type) (policy.Action, error) {
	for cur := t; cur != nil; cur = cur.Elem() {
		action, err := c.policy.TypeAction(cur)
		if err != nil {
			return policy.Default, err
		}

		if action != policy.Default || cur.Kind() != reflect.Pointer {
			return action, nil
		}
	}

	return policy.Default, nil
}

func typeKey(t reflect.Type) string {
	return strconv.FormatUint(uint64(reflect.ValueOf(t).Pointer()), 16)
}
