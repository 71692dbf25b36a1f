// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package plugin

import (
	"context"

	"github.com/ManuGH/deploycfg/internal/config"
	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/plugin/contractsizer"
)

// ExternalPlugins are capabilities whose behavior lives in the build tool
// itself; deploycfg only acknowledges them.
var ExternalPlugins = []string{
	"hardhat-ethers",
	"hardhat-upgrades",
	"hardhat-waffle",
	"solidity-coverage",
	"hardhat-deploy",
	"hardhat-deploy-ethers",
}

type external struct {
	name string
}

// External returns a capability that accepts any configuration and does
// nothing else.
func External(name string) Capability {
	return external{name: name}
}

func (e external) Name() string { return e.name }

func (e external) Configure(ctx context.Context, snap config.Snapshot) error {
	logger := xglog.WithComponentFromContext(ctx, "plugin")
	logger.Debug().
		Str(xglog.FieldEvent, "plugin.external").
		Str(xglog.FieldPlugin, e.name).
		Str(xglog.FieldCompilerVersion, snap.CompilerVersion()).
		Msg("capability handled by the build tool")
	return ctx.Err()
}

// DefaultRegistry registers the contract sizer reading artifactsDir plus
// every external plugin.
func DefaultRegistry(artifactsDir string) (*Registry, error) {
	caps := make([]Capability, 0, len(ExternalPlugins)+1)
	caps = append(caps, contractsizer.New(artifactsDir))
	for _, name := range ExternalPlugins {
		caps = append(caps, External(name))
	}
	return NewRegistry(caps...)
}
