// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/deploycfg/internal/metrics"
)

// ErrNotFound is returned when no source holds the requested secret.
var ErrNotFound = errors.New("secret not found")

// Source looks up secret values by name.
type Source interface {
	Name() string
	Lookup(ctx context.Context, key string) (string, error)
}

// Chain consults its sources in order; the first hit wins.
type Chain struct {
	sources []Source
}

// NewChain builds a chain over the given sources. Nil sources are skipped.
func NewChain(sources ...Source) *Chain {
	c := &Chain{}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Name implements Source.
func (c *Chain) Name() string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Lookup implements Source. Errors other than ErrNotFound stop the walk.
func (c *Chain) Lookup(ctx context.Context, key string) (string, error) {
	for _, s := range c.sources {
		val, err := s.Lookup(ctx, key)
		switch {
		case err == nil:
			metrics.RecordSecretLookup(s.Name(), "hit")
			return val, nil
		case errors.Is(err, ErrNotFound):
			metrics.RecordSecretLookup(s.Name(), "miss")
			continue
		default:
			metrics.RecordSecretLookup(s.Name(), "error")
			return "", fmt.Errorf("%s: %w", s.Name(), err)
		}
	}
	return "", ErrNotFound
}

// Close closes every source that holds resources.
func (c *Chain) Close() error {
	var errs []error
	for _, s := range c.sources {
		if closer, ok := s.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
