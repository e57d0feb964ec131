package cloner

import (
	"reflect"
	"sync"
)

// identityKey identifies an original by reference, never by value. Slices also
// carry their length and capacity: two slices over the same array are distinct
// originals unless they are identical headers.
type identityKey struct {
	typ      reflect.Type
	ptr      uintptr
	len, cap int
}

func keyOf(v reflect.Value) identityKey {
	k := identityKey{typ: v.Type(), ptr: v.Pointer()}
	if v.Kind() == reflect.Slice {
		k.len, k.cap = v.Len(), v.Cap()
	}

	return k
}

// identityEntry holds the duplicate of one original. Its mutex is held while
// the shell is being built, so concurrent visitors of the same original wait
// for that one shell instead of building their own.
type identityEntry struct {
	mu    sync.Mutex
	done  bool
	value reflect.Value
	err   error
}

// identityMap maps originals to duplicates for the duration of one Clone call.
// The map mutex only guards the O(1) lookup-or-insert of entries.
type identityMap struct {
	mu      sync.Mutex
	entries map[identityKey]*identityEntry
}

func newIdentityMap() *identityMap {
	return &identityMap{entries: make(map[identityKey]*identityEntry)}
}

func (m *identityMap) entry(k identityKey) *identityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[k]
	if !ok {
		e = &identityEntry{}
		m.entries[k] = e
	}

	return e
}

func (m *identityMap) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
