// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/ManuGH/deploycfg/internal/config"
	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/persistence/sqlite"
	"github.com/ManuGH/deploycfg/internal/secrets"
	"github.com/ManuGH/deploycfg/internal/telemetry"
	"github.com/ManuGH/deploycfg/internal/validate"
	"github.com/ManuGH/deploycfg/internal/version"
	"github.com/spf13/cobra"
)

// Runtime settings of the CLI itself, never part of the project file.
const (
	envConfig       = config.EnvPrefix + "CONFIG"
	envSecrets      = config.EnvPrefix + "SECRETS"
	envHistoryDB    = config.EnvPrefix + "HISTORY_DB"
	envOTelEndpoint = config.EnvPrefix + "OTEL_ENDPOINT"
	envOTelExporter = config.EnvPrefix + "OTEL_EXPORTER"

	defaultConfigPath = "deploycfg.yaml"
)

type globalOptions struct {
	configPath   string
	secrets      string
	historyDB    string
	logLevel     string
	otelEndpoint string
	otelExporter string

	provider *telemetry.Provider
	history  *sqlite.HistoryStore
	sources  *secrets.Chain
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (o *globalOptions) bindFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", envOr(envConfig, defaultConfigPath), "project configuration file (.yaml, .yml, .json, .hcl) ["+envConfig+"]")
	f.StringVar(&o.secrets, "secrets", envOr(envSecrets, secrets.DefaultSpec), "secret sources, e.g. env,dotenv:.env,redis://localhost:6379/0,badger:/path ["+envSecrets+"]")
	f.StringVar(&o.historyDB, "history", envOr(envHistoryDB, ""), "SQLite file recording every load; empty disables ["+envHistoryDB+"]")
	f.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL or warn")
	f.StringVar(&o.otelEndpoint, "otel-endpoint", envOr(envOTelEndpoint, ""), "OTLP collector endpoint; empty disables tracing ["+envOTelEndpoint+"]")
	f.StringVar(&o.otelExporter, "otel-exporter", envOr(envOTelExporter, "grpc"), "OTLP transport: grpc or http ["+envOTelExporter+"]")
}

func (o *globalOptions) setup(ctx context.Context, stderr io.Writer) error {
	field, raw := "--log-level", o.logLevel
	if raw == "" {
		field, raw = "LOG_LEVEL", envOr("LOG_LEVEL", string(validate.LogLevelWarn))
	}
	level, err := validate.ParseLogLevel(field, raw)
	if err != nil {
		return usageError(err)
	}
	xglog.Reset()
	xglog.Configure(xglog.Config{Level: level.String(), Output: stderr, Version: version.Version})

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        o.otelEndpoint != "",
		ServiceVersion: version.Version,
		ExporterType:   o.otelExporter,
		Endpoint:       o.otelEndpoint,
		SamplingRate:   1.0,
	})
	if err != nil {
		return usageError(err)
	}
	o.provider = provider
	return nil
}

func (o *globalOptions) close() {
	if o.provider != nil {
		_ = o.provider.Shutdown(context.Background())
	}
	if o.history != nil {
		_ = o.history.Close()
	}
	if o.sources != nil {
		_ = o.sources.Close()
	}
}

// loaderFor returns a loader for path that records into the history
// database when one is configured. withEnv=false ignores DEPLOYCFG_*
// overrides, for commands that rewrite or compare files.
func (o *globalOptions) loaderFor(ctx context.Context, path string, withEnv bool) (*config.Loader, error) {
	var opts []config.Option
	if !withEnv {
		opts = append(opts, config.WithEnvLookup(func(string) (string, bool) { return "", false }))
	}
	if o.historyDB != "" {
		if o.history == nil {
			h, err := sqlite.OpenHistory(o.historyDB)
			if err != nil {
				return nil, err
			}
			o.history = h
		}
		opts = append(opts, config.WithObserver(o.history.Observer(ctx)))
	}
	return config.NewLoader(path, version.Version, opts...), nil
}

// load reads the project configuration with environment overrides applied.
func (o *globalOptions) load(ctx context.Context) (config.ProjectConfig, *config.Loader, error) {
	loader, err := o.loaderFor(ctx, o.configPath, true)
	if err != nil {
		return config.ProjectConfig{}, nil, err
	}
	cfg, err := loader.Load(ctx)
	return cfg, loader, err
}

// resolve loads the configuration and expands its secret references.
func (o *globalOptions) resolve(ctx context.Context) (config.ProjectConfig, config.Credentials, error) {
	cfg, _, err := o.load(ctx)
	if err != nil {
		return config.ProjectConfig{}, config.Credentials{}, err
	}
	creds, err := o.resolveLoaded(ctx, cfg)
	if err != nil {
		return config.ProjectConfig{}, config.Credentials{}, err
	}
	return cfg, creds, nil
}

// resolveLoaded expands the secret references of an already loaded cfg.
func (o *globalOptions) resolveLoaded(ctx context.Context, cfg config.ProjectConfig) (config.Credentials, error) {
	if o.sources == nil {
		src, err := secrets.Open(ctx, o.secrets)
		if err != nil {
			return config.Credentials{}, usageError(err)
		}
		o.sources = src
	}
	return config.Resolve(ctx, cfg, o.sources)
}

var errNoHistory = errors.New("no history database configured (use --history or " + envHistoryDB + ")")
