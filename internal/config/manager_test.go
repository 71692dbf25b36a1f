// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_RoundTrip(t *testing.T) {
	configs := map[string]ProjectConfig{
		"example":  exampleConfig(),
		"template": DefaultTemplate(),
	}
	for name, cfg := range configs {
		for _, format := range []Format{FormatYAML, FormatJSON, FormatHCL} {
			t.Run(name+"/"+string(format), func(t *testing.T) {
				data, err := Marshal(cfg, format)
				require.NoError(t, err)

				loader := NewLoader("", "test", WithEnvLookup(envMap(nil)))
				got, err := loader.LoadBytes(context.Background(), data, format)
				require.NoError(t, err, "document:\n%s", data)
				if diff := cmp.Diff(cfg, got); diff != "" {
					t.Errorf("round trip mismatch (-want +got):\n%s\ndocument:\n%s", diff, data)
				}

				again, err := Marshal(got, format)
				require.NoError(t, err)
				assert.Equal(t, string(data), string(again), "marshal is not canonical")
			})
		}
	}
}

func TestMarshal_YAMLShape(t *testing.T) {
	data, err := Marshal(exampleConfig(), FormatYAML)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "compilerVersion: 0.8.6\n")
	assert.Contains(t, out, "  hardhat: {}\n")
	assert.Contains(t, out, "optimizerSettings:\n  enabled: true\n  runs: 1000\n")
	assert.NotContains(t, out, "plugins")
}

func TestMarshal_UnsupportedFormat(t *testing.T) {
	_, err := Marshal(exampleConfig(), Format("toml"))
	assert.Error(t, err)
}

func TestManager_Save(t *testing.T) {
	for _, name := range []string{"deploy.yaml", "deploy.json", "deploy.hcl"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, NewManager(path).Save(DefaultTemplate()))

			cfg, err := NewLoader(path, "test", WithEnvLookup(envMap(nil))).Load(context.Background())
			require.NoError(t, err)
			if diff := cmp.Diff(DefaultTemplate(), cfg); diff != "" {
				t.Errorf("saved config mismatch (-want +got):\n%s", diff)
			}

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			require.Len(t, entries, 1, "pending file left behind")
			assert.Equal(t, name, entries[0].Name())
		})
	}
}

func TestManager_SaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.yaml")
	cfg := exampleConfig()
	cfg.DefaultNetwork = "mainnet"

	err := NewManager(path).Save(cfg)
	cerr := requireConfigError(t, err)
	assert.True(t, cerr.HasField("defaultNetwork"))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml":     FormatYAML,
		"a.YML":      FormatYAML,
		"dir/a.json": FormatJSON,
		"deploy.hcl": FormatHCL,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("hardhat.config.js")
	assert.Error(t, err)

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}
