// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvSource resolves secrets from the process environment and, optionally,
// from a dotenv file. Process environment wins over the file.
type EnvSource struct {
	prefix string
	file   map[string]string
	path   string
	lookup func(string) (string, bool)
}

// NewEnvSource returns a source over the process environment. Keys are
// looked up as prefix+name.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix, lookup: os.LookupEnv}
}

// NewDotenvSource reads path with godotenv and layers it under the process
// environment.
func NewDotenvSource(path, prefix string) (*EnvSource, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read dotenv %s: %w", path, err)
	}
	return &EnvSource{prefix: prefix, file: values, path: path, lookup: os.LookupEnv}, nil
}

// Name implements Source.
func (s *EnvSource) Name() string {
	if s.path != "" {
		return "dotenv"
	}
	return "env"
}

// Lookup implements Source. Empty values count as missing.
func (s *EnvSource) Lookup(_ context.Context, key string) (string, error) {
	name := s.prefix + key
	if v, ok := s.lookup(name); ok && v != "" {
		return v, nil
	}
	if v, ok := s.file[name]; ok && v != "" {
		return v, nil
	}
	return "", ErrNotFound
}
