// Package catalog caches what the cloner needs to know about a type: the
// ordered list of slots to copy, and the resolved copy actions.
//
// It also defines the Introspector capability used to reach a slot of a struct
// value. Unsafe is the default; Exported refuses unexported fields with an
// IntrospectionError instead of silently leaving them out.
package catalog
