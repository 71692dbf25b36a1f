// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/metrics"
	"github.com/ManuGH/deploycfg/internal/telemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Load outcomes reported to observers and metrics.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// LoadEvent describes one completed load attempt.
type LoadEvent struct {
	ID       string
	Path     string
	Format   Format
	Digest   string // SHA-256 of the canonical YAML encoding; empty on failure
	Outcome  string
	Err      error
	Duration time.Duration
	At       time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvLookup replaces os.LookupEnv for environment overrides.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(l *Loader) {
		if fn != nil {
			l.lookupEnv = fn
		}
	}
}

// WithObserver registers fn to receive every LoadEvent.
func WithObserver(fn func(LoadEvent)) Option {
	return func(l *Loader) {
		if fn != nil {
			l.observers = append(l.observers, fn)
		}
	}
}

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
	lookupEnv  func(string) (string, bool)
	observers  []func(LoadEvent)
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string, opts ...Option) *Loader {
	l := &Loader{
		configPath: configPath,
		version:    version,
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the configuration file path.
func (l *Loader) Path() string { return l.configPath }

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load(ctx context.Context) (ProjectConfig, error) {
	if l.configPath == "" {
		return l.load(ctx, nil, FormatYAML, "")
	}

	path := filepath.Clean(l.configPath)
	format, err := FormatFromPath(path)
	if err != nil {
		return l.fail(ctx, path, "", &ConfigurationError{Source: path, Err: err})
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return l.fail(ctx, path, format, &ConfigurationError{Source: path, Err: fmt.Errorf("read file: %w", err)})
	}
	return l.load(ctx, data, format, path)
}

// LoadBytes runs the full pipeline over an in-memory document.
func (l *Loader) LoadBytes(ctx context.Context, data []byte, format Format) (ProjectConfig, error) {
	return l.load(ctx, data, format, "")
}

func (l *Loader) load(ctx context.Context, data []byte, format Format, path string) (ProjectConfig, error) {
	ev, span, logger := l.begin(ctx, path, format)
	defer span.End()

	source := path
	if source == "" {
		source = "<" + string(format) + ">"
	}

	// 1. Defaults
	cfg := Defaults()
	issues := newIssueCollector()

	// 2. Strict decode
	if err := decode(data, format, path, &cfg, issues); err != nil {
		return l.finish(span, logger, ev, ProjectConfig{}, &ConfigurationError{Source: source, Err: err})
	}

	// 3. Environment overrides (highest priority)
	l.applyEnv(&cfg, issues, logger)
	normalize(&cfg)

	// 4. Validate final configuration
	validateInto(issues.v, cfg)
	if cerr := issues.err(source); cerr != nil {
		return l.finish(span, logger, ev, ProjectConfig{}, cerr)
	}

	if HasLiteralKeys(cfg) {
		logger.Warn().
			Str(xglog.FieldEvent, "config.literal_private_key").
			Str(xglog.FieldPath, path).
			Msg("configuration embeds private keys; source them from a secret store as ${NAME} references")
	}

	return l.finish(span, logger, ev, cfg, nil)
}

func (l *Loader) fail(ctx context.Context, path string, format Format, cerr *ConfigurationError) (ProjectConfig, error) {
	ev, span, logger := l.begin(ctx, path, format)
	defer span.End()
	return l.finish(span, logger, ev, ProjectConfig{}, cerr)
}

func (l *Loader) begin(ctx context.Context, path string, format Format) (LoadEvent, trace.Span, zerolog.Logger) {
	ev := LoadEvent{
		ID:     uuid.NewString(),
		Path:   path,
		Format: format,
		At:     time.Now(),
	}
	ctx = xglog.ContextWithLoadID(ctx, ev.ID)

	ctx, span := telemetry.Tracer("deploycfg/config").Start(ctx, "config.Load")
	span.SetAttributes(telemetry.ConfigLoadAttributes(path, string(format), ev.ID, l.version)...)

	logger := xglog.WithComponentFromContext(ctx, "config")
	logger.Debug().
		Str(xglog.FieldEvent, "config.load_start").
		Str(xglog.FieldPath, path).
		Str(xglog.FieldFormat, string(format)).
		Msg("loading configuration")
	return ev, span, logger
}

func (l *Loader) finish(span trace.Span, logger zerolog.Logger, ev LoadEvent, cfg ProjectConfig, cerr *ConfigurationError) (ProjectConfig, error) {
	ev.Duration = time.Since(ev.At)

	if cerr != nil {
		ev.Err = cerr
		ev.Outcome = OutcomeError
		if len(cerr.Issues) > 0 {
			ev.Outcome = OutcomeInvalid
		}
		metrics.RecordConfigLoad(ev.Outcome)
		for _, issue := range cerr.Issues {
			metrics.RecordValidationError(issue.Field)
		}
		span.RecordError(cerr)
		span.SetAttributes(attribute.Int(telemetry.ConfigIssuesKey, len(cerr.Issues)))
		span.SetStatus(codes.Error, ev.Outcome)
		logger.Error().
			Err(cerr).
			Str(xglog.FieldEvent, "config.load_failed").
			Str(xglog.FieldPath, ev.Path).
			Strs("fields", cerr.Fields()).
			Msg("configuration rejected")
		l.notify(ev)
		return ProjectConfig{}, cerr
	}

	ev.Outcome = OutcomeSuccess
	ev.Digest = Digest(cfg)
	metrics.RecordConfigLoad(ev.Outcome)
	span.SetStatus(codes.Ok, "")
	logger.Info().
		Str(xglog.FieldEvent, "config.load_success").
		Str(xglog.FieldPath, ev.Path).
		Str(xglog.FieldCompilerVersion, cfg.CompilerVersion).
		Str(xglog.FieldDefaultNetwork, cfg.DefaultNetwork).
		Int("networks", len(cfg.Networks)).
		Dur("duration", ev.Duration).
		Msg("configuration loaded")
	l.notify(ev)
	return cfg, nil
}

func (l *Loader) notify(ev LoadEvent) {
	for _, fn := range l.observers {
		fn(ev)
	}
}
