// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package plugin

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/plugin/contractsizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name  string
	calls *[]string
	err   error
}

func (r recorder) Name() string { return r.name }

func (r recorder) Configure(_ context.Context, _ config.Snapshot) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func snapshotWith(plugins ...string) config.Snapshot {
	cfg := config.DefaultTemplate()
	cfg.Plugins = plugins
	return config.NewSnapshot(cfg, "deploy.yaml")
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	var calls []string
	_, err := NewRegistry(recorder{name: "a", calls: &calls}, recorder{name: "a", calls: &calls})
	assert.Error(t, err)

	_, err = NewRegistry(recorder{name: "", calls: &calls})
	assert.Error(t, err)
}

func TestActivate_InDeclarationOrder(t *testing.T) {
	var calls []string
	reg, err := NewRegistry(
		recorder{name: "a", calls: &calls},
		recorder{name: "b", calls: &calls},
		recorder{name: "c", calls: &calls},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())

	active, err := reg.Activate(context.Background(), snapshotWith("c", "a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, calls)
	require.Len(t, active, 2)
	assert.Equal(t, "c", active[0].Name())
}

func TestActivate_UnknownPluginConfiguresNothing(t *testing.T) {
	var calls []string
	reg, err := NewRegistry(recorder{name: "a", calls: &calls})
	require.NoError(t, err)

	_, err = reg.Activate(context.Background(), snapshotWith("a", "hardhat-gas-reporter"))
	require.ErrorIs(t, err, config.ErrConfiguration)
	require.ErrorIs(t, err, ErrUnknownCapability)

	var cerr *config.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.True(t, cerr.HasField("plugins"))
	assert.Equal(t, []string{"plugins[1]"}, cerr.Fields())
	assert.Empty(t, calls)
}

func TestActivate_CapabilityFailure(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	reg, err := NewRegistry(
		recorder{name: "a", calls: &calls, err: boom},
		recorder{name: "b", calls: &calls},
	)
	require.NoError(t, err)

	_, err = reg.Activate(context.Background(), snapshotWith("a", "b"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "plugin a")
	assert.Equal(t, []string{"a"}, calls)
}

func TestDefaultRegistry_CoversTemplatePlugins(t *testing.T) {
	reg, err := DefaultRegistry(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	c, ok := reg.Lookup(contractsizer.Name)
	require.True(t, ok)
	assert.IsType(t, &contractsizer.Capability{}, c)

	active, err := reg.Activate(context.Background(), config.NewSnapshot(config.DefaultTemplate(), "template"))
	require.NoError(t, err)
	assert.Len(t, active, len(config.DefaultTemplate().Plugins))
}
