package policy

import (
	"reflect"
	"runtime"
	"sync"
)

// parallelThreshold is the rule count above which matching is split into chunks.
const parallelThreshold = 256

// Rule pairs a predicate with the action it selects.
type Rule[I any] struct {
	Match  func(I) bool
	Action Action
}

// Rules is an unordered set of predicate rules for inputs of type I.
type Rules[I any] []Rule[I]

// Fold evaluates every rule against input and folds the matching actions.
func (r Rules[I]) Fold(input I) Fold {
	var fold Fold
	for _, rule := range r {
		if rule.Action != Default && rule.Match(input) {
			fold.Add(rule.Action)
		}
	}

	return fold
}

// FoldParallel evaluates the rules in up to n chunks concurrently and merges the
// chunk folds. The outcome equals Fold(input).
func (r Rules[I]) FoldParallel(input I, n int) Fold {
	if n <= 1 || len(r) < 2 {
		return r.Fold(input)
	}

	size := (len(r) + n - 1) / n

	var (
		mu    sync.Mutex
		total Fold
		wg    sync.WaitGroup
	)

	for start := 0; start < len(r); start += size {
		chunk := r[start:min(start+size, len(r))]

		wg.Go(func() {
			fold := chunk.Fold(input)

			mu.Lock()
			total.Merge(fold)
			mu.Unlock()
		})
	}

	wg.Wait()

	return total
}

// Resolve folds the matching rules and reports a conflict under the given name.
func (r Rules[I]) Resolve(input I, name string) (Action, error) {
	if len(r) >= parallelThreshold {
		return r.FoldParallel(input, runtime.GOMAXPROCS(0)).Result(name)
	}

	return r.Fold(input).Result(name)
}

// PredicatePolicy is a policy made of unordered predicate rules.
// Add rules before the policy is shared; resolution itself is safe for concurrent use.
type PredicatePolicy struct {
	Types Rules[reflect.Type]
	Slots Rules[Slot]
}

// NewPredicatePolicy creates an empty PredicatePolicy.
func NewPredicatePolicy() *PredicatePolicy {
	return &PredicatePolicy{}
}

// Type adds a type rule.
func (p *PredicatePolicy) Type(match func(reflect.Type) bool, action Action) *PredicatePolicy {
	p.Types = append(p.Types, Rule[reflect.Type]{Match: match, Action: action})
	return p
}

// Slot adds a slot rule.
func (p *PredicatePolicy) Slot(match func(Slot) bool, action Action) *PredicatePolicy {
	p.Slots = append(p.Slots, Rule[Slot]{Match: match, Action: action})
	return p
}

// TypeIs adds a rule matching exactly the type of sample.
func (p *PredicatePolicy) TypeIs(t reflect.Type, action Action) *PredicatePolicy {
	return p.Type(func(in reflect.Type) bool { return in == t }, action)
}

// Field adds a rule matching the named field declared by owner.
func (p *PredicatePolicy) Field(owner reflect.Type, name string, action Action) *PredicatePolicy {
	return p.Slot(func(s Slot) bool {
		return s.Owner == owner && s.Field.Name == name
	}, action)
}

func (p *PredicatePolicy) TypeAction(t reflect.Type) (Action, error) {
	return p.Types.Resolve(t, typeName(t))
}

func (p *PredicatePolicy) SlotAction(s Slot) (Action, error) {
	return p.Slots.Resolve(s, s.String())
}
