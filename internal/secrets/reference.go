// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_./:-]*)\}`)

// HasReference reports whether s contains a reference opener.
func HasReference(s string) bool {
	return strings.Contains(s, "${")
}

// References returns the names referenced in s, in order of appearance.
func References(s string) []string {
	matches := referencePattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// IsWholeReference reports whether s consists of exactly one reference.
func IsWholeReference(s string) bool {
	loc := referencePattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// ValidateReferences rejects reference openers that do not form a valid ${NAME}.
func ValidateReferences(s string) error {
	rest := referencePattern.ReplaceAllString(s, "")
	if idx := strings.Index(rest, "${"); idx >= 0 {
		return fmt.Errorf("malformed secret reference near %q", truncate(rest[idx:], 16))
	}
	return nil
}

// Expand replaces every ${NAME} in s with the value src returns for NAME.
func Expand(ctx context.Context, src Source, s string) (string, error) {
	if !HasReference(s) {
		return s, nil
	}
	if err := ValidateReferences(s); err != nil {
		return "", err
	}
	if src == nil {
		return "", fmt.Errorf("resolve %q: no secret source configured: %w", References(s)[0], ErrNotFound)
	}

	var firstErr error
	out := referencePattern.ReplaceAllStringFunc(s, func(ref string) string {
		if firstErr != nil {
			return ref
		}
		name := referencePattern.FindStringSubmatch(ref)[1]
		val, err := src.Lookup(ctx, name)
		if err != nil {
			firstErr = fmt.Errorf("resolve %q: %w", name, err)
			return ref
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
