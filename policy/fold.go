package policy

import (
	"fmt"
	"slices"
	"strings"
)

// Fold accumulates the actions of every matching rule.
//
// The zero value is the empty fold. Add and Merge are commutative and associative,
// so a set of rules may be split into chunks, folded independently (possibly in
// parallel) and merged in any order with the same outcome:
//   - nothing but Default seen: Default
//   - one distinct non-default action seen: that action
//   - two or more distinct non-default actions seen: a conflict
type Fold struct {
	seen uint8 // bit set of non-default actions
}

// Add records one matched action.
func (f *Fold) Add(a Action) {
	if a == Default || !a.IsValid() {
		return
	}

	f.seen |= 1 << uint(a)
}

// Merge combines another fold into f.
func (f *Fold) Merge(other Fold) {
	f.seen |= other.seen
}

// Conflicting reports whether more than one distinct non-default action was seen.
func (f Fold) Conflicting() bool {
	return f.seen&(f.seen-1) != 0
}

// Actions returns the distinct non-default actions seen, in declaration order.
func (f Fold) Actions() []Action {
	var actions []Action
	for a := Default + 1; int(a) < ActionTotal; a++ {
		if f.seen&(1<<uint(a)) != 0 {
			actions = append(actions, a)
		}
	}

	return actions
}

// Result returns the folded action or a ConflictingPolicyError naming input.
func (f Fold) Result(input string) (Action, error) {
	actions := f.Actions()

	switch len(actions) {
	case 0:
		return Default, nil
	case 1:
		return actions[0], nil
	default:
		return Default, &ConflictingPolicyError{Input: input, Actions: actions}
	}
}

// ConflictingPolicyError reports that rules matching the same input disagree.
type ConflictingPolicyError struct {
	Input   string
	Actions []Action
}

func (e *ConflictingPolicyError) Error() string {
	names := make([]string, len(e.Actions))
	for i, a := range e.Actions {
		names[i] = a.String()
	}

	return fmt.Sprintf("conflicting copy actions for %s: %s", e.Input, strings.Join(names, ", "))
}

// Is matches any other ConflictingPolicyError with the same input and actions,
// or any ConflictingPolicyError when target has an empty input.
func (e *ConflictingPolicyError) Is(target error) bool {
	t, ok := target.(*ConflictingPolicyError)
	if !ok {
		return false
	}

	if t.Input == "" {
		return true
	}

	return t.Input == e.Input && slices.Equal(t.Actions, e.Actions)
}
