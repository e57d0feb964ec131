package rules

import (
	"reflect"
	"strings"

	"github.com/tidwall/match"

	"graph-cloner/cloner"
	"graph-cloner/policy"
)

// Build turns a file into a predicate policy and the engine options it
// implies. The returned options keep struct tag rules in force next to the
// file's rules. The file is validated first.
func Build(f *File) (*policy.PredicatePolicy, []cloner.Option, error) {
	if err := Validate(f).Err(); err != nil {
		return nil, nil, err
	}

	p := policy.NewPredicatePolicy()

	// names were checked by Validate
	for _, r := range f.Types {
		action, _ := policy.ParseAction(r.Action)
		p.Type(typeMatcher(r), action)
	}

	for _, r := range f.Slots {
		action, _ := policy.ParseAction(r.Action)
		p.Slot(slotMatcher(r), action)
	}

	for _, k := range f.Keys {
		p.Type(globMatcher(k), policy.Deep)
	}

	mode, err := cloner.ParseMode(f.Execution.Mode)
	if err != nil {
		return nil, nil, err
	}

	opts := []cloner.Option{
		cloner.WithPolicy(policy.Compose(policy.NewTagPolicy(policy.DefaultTagKey), p)),
		cloner.WithMode(mode),
	}

	if mode == cloner.Parallel && f.Execution.Workers > 0 {
		opts = append(opts, cloner.WithWorkers(f.Execution.Workers))
	}

	return p, opts, nil
}

func globMatcher(pattern string) func(reflect.Type) bool {
	return func(t reflect.Type) bool {
		return match.Match(t.String(), pattern)
	}
}

func typeMatcher(r TypeRule) func(reflect.Type) bool {
	kind := kinds[strings.ToLower(r.Kind)]

	return func(t reflect.Type) bool {
		if r.Match != "" && !match.Match(t.String(), r.Match) {
			return false
		}

		if r.Kind != "" && t.Kind() != kind {
			return false
		}

		if r.Package != "" && !inPackage(t.PkgPath(), r.Package) {
			return false
		}

		return true
	}
}

func slotMatcher(r SlotRule) func(policy.Slot) bool {
	return func(s policy.Slot) bool {
		if r.Owner != "" && !match.Match(s.Owner.String(), r.Owner) {
			return false
		}

		if r.Field != "" && !match.Match(s.Field.Name, r.Field) {
			return false
		}

		if r.Type != "" && !match.Match(s.Field.Type.String(), r.Type) {
			return false
		}

		if r.Tag != "" {
			if _, ok := s.Field.Tag.Lookup(r.Tag); !ok {
				return false
			}
		}

		return true
	}
}

// inPackage reports whether pkg is pattern, or below it when pattern ends in "/...".
func inPackage(pkg, pattern string) bool {
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		return pkg == base || strings.HasPrefix(pkg, base+"/")
	}

	return pkg == pattern
}
