// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"fmt"
	"strings"
	"sync"

	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/secrets"
	"github.com/ManuGH/deploycfg/internal/validate"
	"golang.org/x/sync/errgroup"
)

// resolveConcurrency bounds parallel secret lookups.
const resolveConcurrency = 8

// ResolvedNetwork holds a network's credentials with every reference expanded.
type ResolvedNetwork struct {
	URL      string
	Accounts []string
	ChainID  uint64
}

// Credentials are the expanded secrets of every network. Never log them.
type Credentials struct {
	Networks map[string]ResolvedNetwork
}

// Network returns the resolved credentials of a network.
func (c Credentials) Network(name string) (ResolvedNetwork, bool) {
	n, ok := c.Networks[name]
	return n, ok
}

// Resolve expands the ${NAME} references of every network against src and
// validates the results: URLs must be absolute RPC endpoints and accounts
// 32-byte hex private keys. Problems are reported as a *ConfigurationError
// naming networks.<name>.url or networks.<name>.accounts[i].
func Resolve(ctx context.Context, cfg ProjectConfig, src secrets.Source) (Credentials, error) {
	logger := xglog.WithComponentFromContext(ctx, "config")

	var (
		mu       sync.Mutex
		resolved = make(map[string]ResolvedNetwork, len(cfg.Networks))
		v        = validate.New()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for _, name := range cfg.NetworkNames() {
		n := cfg.Networks[name]
		g.Go(func() error {
			out, issues := resolveNetwork(gctx, name, n, src)
			mu.Lock()
			defer mu.Unlock()
			for _, is := range issues {
				v.AddError(is.Field, is.Message, is.Value)
			}
			resolved[name] = out
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return Credentials{}, fmt.Errorf("resolve credentials: %w", err)
	}

	if !v.IsValid() {
		cerr := NewConfigurationError("secrets", v.Errors()...)
		logger.Error().
			Str(xglog.FieldEvent, "config.resolve_failed").
			Strs("fields", cerr.Fields()).
			Msg("credential resolution failed")
		return Credentials{}, cerr
	}

	logger.Debug().
		Str(xglog.FieldEvent, "config.resolve_success").
		Int("networks", len(resolved)).
		Msg("credentials resolved")
	return Credentials{Networks: resolved}, nil
}

func resolveNetwork(ctx context.Context, name string, n NetworkProfile, src secrets.Source) (ResolvedNetwork, []validate.Error) {
	v := validate.New()
	path := "networks." + name
	out := ResolvedNetwork{ChainID: n.ChainID}

	if n.URL != "" {
		u, err := secrets.Expand(ctx, src, n.URL)
		if err != nil {
			v.AddError(path+".url", err.Error(), MaskURL(n.URL))
		} else {
			vu := validate.New()
			vu.URL(path+".url", u, AllowedURLSchemes)
			for _, e := range vu.Errors() {
				v.AddError(e.Field, strings.ReplaceAll(e.Message, u, MaskURL(u)), MaskURL(u))
			}
			out.URL = u
		}
	}

	if len(n.Accounts) > 0 {
		out.Accounts = make([]string, 0, len(n.Accounts))
	}
	for i, acc := range n.Accounts {
		field := fmt.Sprintf("%s.accounts[%d]", path, i)
		key, err := secrets.Expand(ctx, src, acc)
		if err != nil {
			v.AddError(field, err.Error(), "<redacted>")
			continue
		}
		v.HexKey(field, key, PrivateKeyBytes)
		out.Accounts = append(out.Accounts, key)
	}
	return out, v.Errors()
}
