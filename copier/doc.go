// Package copier provides the strategies that duplicate individual values and
// the registry that picks one per type.
//
// A Copier either finishes the duplicate at once, or returns a shell together
// with a continuation (Result.Next) that fills the shell in. Splitting the two
// is what allows the same traversal to run inline, from a FIFO queue, or on a
// pool of workers.
//
// Built-in copiers:
//   - Noop, Null: trivial, no duplication
//   - Shallow: slices of primitives
//   - Slice, Array, Map: containers, element by element
//   - Pointer, Struct: generic, slot by slot through the catalog
//   - SyncMap: sync.Map through its public API
package copier
