package policy

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultTagKey is the struct tag key read by TagPolicy.
const DefaultTagKey = "clone"

// inheritOption marks a type rule that applies to embedding types as well.
const inheritOption = "inherit"

// TagPolicy reads copy actions declared in struct tags.
//
// Slot rules come from the field's own tag and never inherit:
//
//	type Session struct {
//		User  *User
//		cache map[string]any `clone:"skip"`
//	}
//
// Type rules come from a blank marker field. A rule with the "inherit" option
// also applies to every struct embedding the type, the nearest one winning:
//
//	type Token struct {
//		_     struct{} `clone:"original,inherit"`
//		Value string
//	}
type TagPolicy struct {
	Key string
}

// NewTagPolicy creates a TagPolicy reading the given tag key, DefaultTagKey if empty.
func NewTagPolicy(key string) *TagPolicy {
	if key == "" {
		key = DefaultTagKey
	}

	return &TagPolicy{Key: key}
}

func (p *TagPolicy) key() string {
	if p.Key == "" {
		return DefaultTagKey
	}

	return p.Key
}

func (p *TagPolicy) TypeAction(t reflect.Type) (Action, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return Default, nil
	}

	action, _, found, err := p.declared(t)
	if err != nil || found {
		return action, err
	}

	// breadth-first over embedded ancestors, nearest first
	visited := map[reflect.Type]struct{}{t: {}}
	level := embedded(t)

	for len(level) > 0 {
		var next []reflect.Type

		for _, anc := range level {
			if _, ok := visited[anc]; ok {
				continue
			}

			visited[anc] = struct{}{}

			action, inherit, found, err := p.declared(anc)
			if err != nil {
				return Default, err
			}

			if found && inherit {
				return action, nil
			}

			next = append(next, embedded(anc)...)
		}

		level = next
	}

	return Default, nil
}

func (p *TagPolicy) SlotAction(s Slot) (Action, error) {
	tag, ok := s.Field.Tag.Lookup(p.key())
	if !ok {
		return Default, nil
	}

	action, _, err := ParseTag(tag)
	if err != nil {
		return Default, fmt.Errorf("field %s: %w", s, err)
	}

	return action, nil
}

// declared returns the rule carried by t's blank marker fields.
func (p *TagPolicy) declared(t reflect.Type) (action Action, inherit, found bool, err error) {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name != "_" {
			continue
		}

		tag, ok := f.Tag.Lookup(p.key())
		if !ok {
			continue
		}

		action, inherit, err = ParseTag(tag)
		if err != nil {
			return Default, false, false, fmt.Errorf("type %s: %w", t, err)
		}

		return action, inherit, true, nil
	}

	return Default, false, false, nil
}

// ParseTag parses a tag value of the form "<action>[,inherit]" and reports
// whether the inherit option is present.
func ParseTag(tag string) (Action, bool, error) {
	name, opts, _ := strings.Cut(tag, ",")

	action, err := ParseAction(name)
	if err != nil {
		return Default, false, err
	}

	inherit := false
	for _, opt := range strings.Split(opts, ",") {
		if strings.TrimSpace(opt) == inheritOption {
			inherit = true
		}
	}

	return action, inherit, nil
}

// embedded returns the struct types t embeds, by value or by pointer.
func embedded(t reflect.Type) []reflect.Type {
	var out []reflect.Type
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if ft.Kind() == reflect.Struct {
			out = append(out, ft)
		}
	}

	return out
}
