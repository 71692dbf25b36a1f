// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package plugin activates the capability modules a project configuration
// lists under plugins. Capabilities are registered explicitly; nothing is
// discovered at runtime.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ManuGH/deploycfg/internal/config"
	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/telemetry"
	"github.com/ManuGH/deploycfg/internal/validate"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnknownCapability classifies plugin names with no registered capability.
var ErrUnknownCapability = errors.New("unknown capability")

// Capability is an optional module enabled by listing its name in plugins.
type Capability interface {
	Name() string
	Configure(ctx context.Context, snap config.Snapshot) error
}

// Registry holds the capabilities available to a project.
type Registry struct {
	caps map[string]Capability
}

// NewRegistry builds a registry from caps. Names must be unique and non-empty.
func NewRegistry(caps ...Capability) (*Registry, error) {
	r := &Registry{caps: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		name := c.Name()
		if name == "" {
			return nil, errors.New("capability with empty name")
		}
		if _, dup := r.caps[name]; dup {
			return nil, fmt.Errorf("duplicate capability %q", name)
		}
		r.caps[name] = c
	}
	return r, nil
}

// Names returns the registered capability names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.caps))
	for name := range r.caps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	c, ok := r.caps[name]
	return c, ok
}

// Activate configures exactly the capabilities named in the snapshot's
// plugins, in declaration order. Unknown names are rejected before anything
// is configured.
func (r *Registry) Activate(ctx context.Context, snap config.Snapshot) ([]Capability, error) {
	logger := xglog.WithComponentFromContext(ctx, "plugin")
	names := snap.Plugins()

	v := validate.New()
	for i, name := range names {
		if _, ok := r.caps[name]; !ok {
			v.AddError(fmt.Sprintf("plugins[%d]", i), fmt.Sprintf("%s %q", ErrUnknownCapability, name), name)
		}
	}
	if !v.IsValid() {
		cerr := config.NewConfigurationError(snap.Source(), v.Errors()...)
		cerr.Err = ErrUnknownCapability
		return nil, cerr
	}

	active := make([]Capability, 0, len(names))
	for _, name := range names {
		c := r.caps[name]
		if err := activate(ctx, c, snap); err != nil {
			logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "plugin.activate_failed").
				Str(xglog.FieldPlugin, name).
				Msg("capability failed to activate")
			return nil, fmt.Errorf("plugin %s: %w", name, err)
		}
		active = append(active, c)
		logger.Debug().
			Str(xglog.FieldEvent, "plugin.activated").
			Str(xglog.FieldPlugin, name).
			Msg("capability activated")
	}
	return active, nil
}

func activate(ctx context.Context, c Capability, snap config.Snapshot) error {
	ctx, span := telemetry.Tracer("deploycfg/plugin").Start(ctx, "plugin.Activate",
		trace.WithAttributes(telemetry.PluginAttributes(c.Name())...))
	defer span.End()

	if err := c.Configure(ctx, snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
