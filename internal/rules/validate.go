package rules

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"graph-cloner/cloner"
	"graph-cloner/internal/diagnostic"
	"graph-cloner/policy"
)

var actionNames = []string{"default", "original", "null", "skip", "deep"}

var modeNames = []string{"depth-first", "breadth-first", "parallel", "dfs", "bfs", "sequential"}

var kinds = func() map[string]reflect.Kind {
	m := make(map[string]reflect.Kind)
	for k := reflect.Bool; k <= reflect.UnsafePointer; k++ {
		m[k.String()] = k
	}

	m["pointer"] = reflect.Pointer

	return m
}()

// Validate checks f for problems that would make Build fail or a rule useless.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "rules file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", f.Version), "", "version")
	}

	mode, err := cloner.ParseMode(f.Execution.Mode)
	if err != nil {
		res.AddError("unknown_mode", err.Error(), "execution", "mode").
			Suggest(suggest(f.Execution.Mode, modeNames)...)
	}

	switch {
	case f.Execution.Workers < 0:
		res.AddError("bad_workers", "workers must not be negative", "execution", "workers")
	case f.Execution.Workers > 0 && mode != cloner.Parallel:
		res.AddWarning("unused_workers", "workers only apply to parallel mode", "execution", "workers")
	}

	for i, r := range f.Types {
		rule := fmt.Sprintf("types[%d]", i)

		if r.empty() {
			res.AddError("empty_matcher", "rule has no matcher", rule, "")
		}

		if r.Kind != "" {
			if _, ok := kinds[strings.ToLower(r.Kind)]; !ok {
				res.AddError("unknown_kind", fmt.Sprintf("unknown kind %q", r.Kind), rule, "kind").
					Suggest(suggest(r.Kind, slices.Sorted(maps.Keys(kinds)))...)
			}
		}

		validateAction(res, rule, r.Action)
	}

	for i, r := range f.Slots {
		rule := fmt.Sprintf("slots[%d]", i)

		if r.empty() {
			res.AddError("empty_matcher", "rule has no matcher", rule, "")
		}

		validateAction(res, rule, r.Action)
	}

	for i, k := range f.Keys {
		if k == "" {
			res.AddError("empty_matcher", "key glob is empty", fmt.Sprintf("keys[%d]", i), "")
		}
	}

	return res
}

func validateAction(res *diagnostic.Diagnostics, rule, name string) {
	a, err := policy.ParseAction(name)

	switch {
	case err != nil:
		res.AddError("unknown_action", fmt.Sprintf("unknown action %q", name), rule, "action").
			Suggest(suggest(name, actionNames)...)
	case a == policy.Default:
		res.AddWarning("default_action", "rule never changes the outcome", rule, "action")
	}
}
