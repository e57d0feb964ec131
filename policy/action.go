package policy

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Action -linecomment -output=action_string.go

// Action tells the engine what to do with a type or a slot.
type Action int

const (
	Default  Action = iota // default
	Original               // original
	Null                   // null
	Skip                   // skip
	Deep                   // deep

	// ActionTotal is a constant that represents the total number of actions defined
	ActionTotal = int(iota)
)

// ParseAction parses a lowercase action name as used in struct tags and rule files.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return Default, nil
	case "original":
		return Original, nil
	case "null", "nil", "zero":
		return Null, nil
	case "skip":
		return Skip, nil
	case "deep":
		return Deep, nil
	}

	return Default, fmt.Errorf("unknown copy action %q", s)
}

// IsValid reports whether a is one of the defined actions.
func (a Action) IsValid() bool {
	return a >= Default && int(a) < ActionTotal
}

// MarshalYAML encodes the action by name.
func (a Action) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML decodes an action name.
func (a *Action) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	parsed, err := ParseAction(s)
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}
