// Package cloner deep-copies arbitrary object graphs.
//
// Every identity-bearing value (pointer, map, slice) reachable from the root
// is copied exactly once per Clone call, so shared references stay shared and
// cycles are reproduced instead of followed forever. What gets copied is
// decided by a policy.Policy; how a type is copied is decided by the
// copier.Registry; when the pieces are filled in is decided by the Mode.
//
//	e, err := cloner.New(cloner.WithWorkers(8))
//	if err != nil {
//		return err
//	}
//
//	dup, err := cloner.CloneOf(ctx, e, graph)
package cloner
