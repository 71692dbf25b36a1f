// SPDX-License-Identifier: MIT

package validate

import (
	"errors"
	"fmt"
	"strings"
)

// LogLevel is a CLI log verbosity accepted by --log-level and LOG_LEVEL.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = []string{
	string(LogLevelDebug),
	string(LogLevelInfo),
	string(LogLevelWarn),
	string(LogLevelError),
}

// ErrInvalidLogLevel is returned by ParseLogLevel for unknown levels.
var ErrInvalidLogLevel = errors.New("invalid log level")

func (l LogLevel) String() string { return string(l) }

// ParseLogLevel normalizes s (case and surrounding space) and checks it
// against the supported levels. field names the flag or variable in the error.
func ParseLogLevel(field, s string) (LogLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	v := New()
	v.OneOf(field, norm, logLevels)
	if err := v.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}
	return LogLevel(norm), nil
}
