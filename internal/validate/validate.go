// SPDX-License-Identifier: MIT

// Package validate provides field-level validation utilities for deploycfg.
package validate

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"

	"github.com/blang/semver"
)

// Error represents a validation error
type Error struct {
	Field   string      // Field path that failed validation (e.g. "networks.rinkeby.url")
	Value   interface{} // The invalid value
	Message string      // Human-readable error message
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		errors: make([]Error, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the validation failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}

	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// URL validates a URL string
func (v *Validator) URL(field, value string, allowedSchemes []string) {
	if value == "" {
		v.AddError(field, "URL cannot be empty", value)
		return
	}

	u, err := url.Parse(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid URL: %v", err), value)
		return
	}

	if u.Host == "" {
		v.AddError(field, "URL must have a host", value)
		return
	}

	if len(allowedSchemes) > 0 && !slices.Contains(allowedSchemes, u.Scheme) {
		v.AddError(field,
			fmt.Sprintf("unsupported URL scheme %q (allowed: %v)", u.Scheme, allowedSchemes),
			value)
	}
}

// NotEmpty validates that a string is not empty or whitespace-only
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "value cannot be empty", value)
	}
}

// OneOf validates that a value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) {
	if slices.Contains(allowed, value) {
		return
	}
	v.AddError(field,
		fmt.Sprintf("value must be one of %v, got %q", allowed, value),
		value)
}

// Positive validates that a number is positive (> 0)
func (v *Validator) Positive(field string, value int) {
	if value <= 0 {
		v.AddError(field, fmt.Sprintf("value must be positive, got %d", value), value)
	}
}

// NonNegative validates that a number is non-negative (>= 0)
func (v *Validator) NonNegative(field string, value int) {
	if value < 0 {
		v.AddError(field, fmt.Sprintf("value cannot be negative, got %d", value), value)
	}
}

// SemVer validates a strict MAJOR.MINOR.PATCH version and, when supported is
// non-empty, that it falls inside the given range expression.
func (v *Validator) SemVer(field, value, supported string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "version cannot be empty", value)
		return
	}
	ver, err := semver.Parse(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid version: %v", err), value)
		return
	}
	if supported == "" {
		return
	}
	rng, err := semver.ParseRange(supported)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid supported range %q: %v", supported, err), value)
		return
	}
	if !rng(ver) {
		v.AddError(field, fmt.Sprintf("version %s is not supported (supported: %s)", value, supported), value)
	}
}

// HexKey validates a hex string holding exactly size bytes, with or without 0x prefix.
func (v *Validator) HexKey(field, value string, size int) {
	raw := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if len(raw) != size*2 {
		v.AddError(field, fmt.Sprintf("must be %d hex bytes, got %d characters", size, len(raw)), "<redacted>")
		return
	}
	if _, err := hex.DecodeString(raw); err != nil {
		v.AddError(field, "must be hex encoded", "<redacted>")
	}
}

// UniqueValues validates that no two keys of m map to the same value.
// Conflicts are reported once per duplicated value, naming the keys involved.
func (v *Validator) UniqueValues(field string, m map[string]int) {
	byValue := make(map[int][]string, len(m))
	for k, val := range m {
		byValue[val] = append(byValue[val], k)
	}
	values := make([]int, 0, len(byValue))
	for val := range byValue {
		values = append(values, val)
	}
	sort.Ints(values)
	for _, val := range values {
		keys := byValue[val]
		if len(keys) < 2 {
			continue
		}
		sort.Strings(keys)
		v.AddError(field,
			fmt.Sprintf("value %d is used by more than one entry: %s", val, strings.Join(keys, ", ")),
			val)
	}
}

// UniqueStrings validates that values holds no duplicates.
func (v *Validator) UniqueStrings(field string, values []string) {
	seen := make(map[string]struct{}, len(values))
	for _, s := range values {
		if _, ok := seen[s]; ok {
			v.AddError(field, fmt.Sprintf("duplicate entry %q", s), s)
			continue
		}
		seen[s] = struct{}{}
	}
}
