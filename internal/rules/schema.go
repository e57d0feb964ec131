package rules

import (
	"gopkg.in/yaml.v3"
)

// File is the root of a YAML rules file.
type File struct {
	// Version of the rules schema.
	Version string `yaml:"version,omitempty"`

	// Execution selects how clones are driven. Zero means depth-first.
	Execution Execution `yaml:"execution,omitempty"`

	// Types are rules deciding what happens to every value of a type.
	Types []TypeRule `yaml:"types,omitempty"`

	// Slots are rules deciding what happens to particular struct fields.
	Slots []SlotRule `yaml:"slots,omitempty"`

	// Keys lists type globs whose map keys are deep-copied.
	Keys []string `yaml:"keys,omitempty"`
}

// Execution configures the execution model.
type Execution struct {
	// Mode is one of depth-first, breadth-first or parallel.
	Mode string `yaml:"mode,omitempty"`
	// Workers bounds parallel tasks; zero keeps the engine default.
	Workers int `yaml:"workers,omitempty"`
}

// TypeRule matches types. Every non-empty matcher must match.
type TypeRule struct {
	// Match is a glob over the type string, e.g. "*config.Settings" or "[]*graph.*".
	Match string `yaml:"match,omitempty"`
	// Kind is a reflect.Kind name, e.g. "map" or "chan".
	Kind string `yaml:"kind,omitempty"`
	// Package is an import path; "/..." matches sub-packages too.
	Package string `yaml:"package,omitempty"`
	// Action is an action name, parsed by Validate and Build.
	Action string `yaml:"action"`
}

// SlotRule matches struct fields. Every non-empty matcher must match.
type SlotRule struct {
	// Owner is a glob over the declaring struct type string.
	Owner string `yaml:"owner,omitempty"`
	// Field is a glob over the field name.
	Field string `yaml:"field,omitempty"`
	// Type is a glob over the field type string.
	Type string `yaml:"type,omitempty"`
	// Tag matches fields carrying this struct tag key.
	Tag string `yaml:"tag,omitempty"`
	// Action is an action name, parsed by Validate and Build.
	Action string `yaml:"action"`
}

func (r TypeRule) empty() bool {
	return r.Match == "" && r.Kind == "" && r.Package == ""
}

func (r SlotRule) empty() bool {
	return r.Owner == "" && r.Field == "" && r.Type == "" && r.Tag == ""
}

func (r *TypeRule) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeRule
	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}

	r.Action = rawAction(node)

	return nil
}

func (r *SlotRule) UnmarshalYAML(node *yaml.Node) error {
	type plain SlotRule
	if err := node.Decode((*plain)(r)); err != nil {
		return err
	}

	r.Action = rawAction(node)

	return nil
}

// rawAction returns the action of a rule mapping as written. A bare YAML null
// (null, ~, Null) names the null action; an empty value names none.
func rawAction(node *yaml.Node) string {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "action" {
			continue
		}

		v := node.Content[i+1]
		if v.ShortTag() == "!!null" && v.Value != "" {
			return "null"
		}

		return v.Value
	}

	return ""
}
