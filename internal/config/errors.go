// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"strings"

	"github.com/ManuGH/deploycfg/internal/validate"
)

var (
	// ErrConfiguration classifies every load failure.
	// Use errors.Is(err, ErrConfiguration) or errors.As with *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownConfigField classifies strict parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")
)

// ConfigurationError reports a configuration that cannot be used. Issues name
// the offending fields by their file path (e.g. "optimizerSettings.runs").
type ConfigurationError struct {
	Source string           // file path or stage that produced the error
	Issues []validate.Error // field-level problems, in discovery order
	Err    error            // underlying cause (I/O, syntax), may be nil

	unknownField bool
}

// NewConfigurationError builds a ConfigurationError from field issues.
func NewConfigurationError(source string, issues ...validate.Error) *ConfigurationError {
	return &ConfigurationError{Source: source, Issues: issues}
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	for i, issue := range e.Issues {
		if i == 0 && e.Err == nil {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		if issue.Field != "" {
			b.WriteString(issue.Field)
			b.WriteString(": ")
		}
		b.WriteString(issue.Message)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is matches ErrConfiguration always and ErrUnknownConfigField when an
// unknown key was found.
func (e *ConfigurationError) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return true
	case ErrUnknownConfigField:
		return e.unknownField
	}
	return false
}

// Fields returns the distinct offending field paths in discovery order.
func (e *ConfigurationError) Fields() []string {
	seen := make(map[string]struct{}, len(e.Issues))
	out := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			continue
		}
		if _, ok := seen[issue.Field]; ok {
			continue
		}
		seen[issue.Field] = struct{}{}
		out = append(out, issue.Field)
	}
	return out
}

// HasField reports whether an issue names path or a field nested below it.
func (e *ConfigurationError) HasField(path string) bool {
	for _, issue := range e.Issues {
		f := issue.Field
		if f == path || strings.HasPrefix(f, path+".") || strings.HasPrefix(f, path+"[") {
			return true
		}
	}
	return false
}

// issueCollector accumulates field issues across load stages.
type issueCollector struct {
	v       *validate.Validator
	unknown bool
}

func newIssueCollector() *issueCollector {
	return &issueCollector{v: validate.New()}
}

func (c *issueCollector) add(field, message string, value any) {
	c.v.AddError(field, message, value)
}

func (c *issueCollector) addUnknown(field string) {
	c.unknown = true
	c.v.AddError(field, "unknown field", nil)
}

func (c *issueCollector) err(source string) *ConfigurationError {
	if c.v.IsValid() {
		return nil
	}
	return &ConfigurationError{Source: source, Issues: c.v.Errors(), unknownField: c.unknown}
}
