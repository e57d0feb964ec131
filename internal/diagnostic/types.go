package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostics collects the findings of one validation pass.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code is a stable identifier of the kind of finding, e.g. "unknown_action".
	Code    string
	Message string
	// Rule locates the rule the finding is about, e.g. "types[2]".
	Rule string
	// Key is the offending rule key, if any.
	Key string
	// Suggestions are likely intended values.
	Suggestions []string
}

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// AddError records an error. The returned diagnostic is only valid until the
// next call that adds an error.
func (d *Diagnostics) AddError(code, message, rule, key string) *Diagnostic {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  message,
		Rule:     rule,
		Key:      key,
	})

	return &d.Errors[len(d.Errors)-1]
}

// AddWarning records a warning.
func (d *Diagnostics) AddWarning(code, message, rule, key string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: Warning,
		Code:     code,
		Message:  message,
		Rule:     rule,
		Key:      key,
	})
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge appends the findings of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Codes returns the codes of all errors in order.
func (d *Diagnostics) Codes() []string {
	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return codes
}

// Err joins all errors into one, or returns nil.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, errors.New(e.String()))
	}

	return errors.Join(errs...)
}

// Suggest attaches suggestions to d.
func (d *Diagnostic) Suggest(suggestions ...string) {
	d.Suggestions = append(d.Suggestions, suggestions...)
}

func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Rule != "" {
		b.WriteString(d.Rule)

		if d.Key != "" {
			b.WriteString("." + d.Key)
		}

		b.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(d.Suggestions, " or "))
	}

	return b.String()
}
