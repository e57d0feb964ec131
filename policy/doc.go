// Package policy resolves copy actions for types and struct fields.
//
// An Action says what the cloner does with a value:
//   - Default: no opinion, fall through to the next source (finally Builtin)
//   - Original: share the value, no duplication
//   - Null: replace it with the zero value
//   - Skip: leave the field out of traversal entirely
//   - Deep: produce an independent structural duplicate
//
// Policy sources:
//   - PredicatePolicy: unordered (predicate, action) rules
//   - TagPolicy: actions declared with struct tags
//   - Funcs: plain resolver functions
//   - Compose: several sources at once
//
// Actions are never ranked against each other. When two rules select different
// non-default actions for the same input the policy fails with a
// ConflictingPolicyError; the Fold type implements that merge so that it gives
// the same answer whatever the evaluation order.
package policy
