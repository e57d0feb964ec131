package copier

import (
	"reflect"
	"sync"
)

// containers are built-in copiers for known container types whose internals
// must not be copied field by field.
var containers = map[reflect.Type]Copier{
	syncMapType: SyncMap,
}

// Registry maps types to copiers.
//
// Resolution order for a type:
//  1. a copier registered for exactly that type
//  2. slices and arrays of non-primitive elements
//  3. known containers: maps, slices of primitives, sync.Map
//  4. the generic pointer and struct copiers, driven by the slot catalog
//  5. Noop for everything else (primitives, funcs, channels)
//
// Thread Safety: safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	exact    map[reflect.Type]Copier
	resolved map[reflect.Type]Copier
}

// NewRegistry creates a registry holding the given exact registrations.
func NewRegistry(copiers map[reflect.Type]Copier) *Registry {
	r := &Registry{
		exact:    make(map[reflect.Type]Copier, len(copiers)),
		resolved: make(map[reflect.Type]Copier),
	}

	for t, c := range copiers {
		r.exact[t] = c
	}

	return r
}

// Register sets the copier for exactly type t.
func (r *Registry) Register(t reflect.Type, c Copier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exact[t] = c
	delete(r.resolved, t)
}

// Copier returns the copier for t following the resolution order.
func (r *Registry) Copier(t reflect.Type) Copier {
	r.mu.RLock()
	c, ok := r.resolved[t]
	r.mu.RUnlock()

	if ok {
		return c
	}

	c = r.resolve(t)

	r.mu.Lock()
	r.resolved[t] = c
	r.mu.Unlock()

	return c
}

func (r *Registry) resolve(t reflect.Type) Copier {
	r.mu.RLock()
	c, ok := r.exact[t]
	r.mu.RUnlock()

	if ok {
		return c
	}

	shape := Classify(t)

	if (shape == ShapeSlice || shape == ShapeArray) && !Primitive(t.Elem()) {
		if shape == ShapeSlice {
			return Slice
		}

		return Array
	}

	if c, ok := containers[t]; ok {
		return c
	}

	switch shape {
	case ShapeMap:
		return Map
	case ShapeSlice:
		return Shallow
	case ShapePointer:
		return Pointer
	case ShapeStruct:
		return Struct
	default:
		return Noop
	}
}
