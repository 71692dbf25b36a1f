// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads, validates and persists the project configuration of
// a smart-contract build/deploy toolchain.
//
// A configuration is read once through Loader.Load: defaults, a strict file
// decode (YAML, JSON or HCL), DEPLOYCFG_* environment overrides and finally
// Validate. Any failure is a *ConfigurationError naming every offending
// field; there is no partial or degraded result.
//
// The loaded ProjectConfig is a plain value. Share it through Snapshot when
// consumers must not be able to mutate it. Credentials referenced as ${NAME}
// stay unresolved in the record and are expanded by Resolve against a
// secrets.Source.
package config
