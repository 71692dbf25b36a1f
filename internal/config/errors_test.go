// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/ManuGH/deploycfg/internal/validate"
	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_Error(t *testing.T) {
	err := NewConfigurationError("deploy.yaml",
		validate.Error{Field: "defaultNetwork", Message: "network \"mainnet\" is not declared"},
		validate.Error{Field: "optimizerSettings.runs", Message: "value must be positive, got 0"},
	)
	assert.Equal(t,
		`configuration error in deploy.yaml: defaultNetwork: network "mainnet" is not declared; optimizerSettings.runs: value must be positive, got 0`,
		err.Error())

	wrapped := &ConfigurationError{Source: "deploy.yaml", Err: fs.ErrNotExist}
	assert.Equal(t, "configuration error in deploy.yaml: file does not exist", wrapped.Error())
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
}

func TestConfigurationError_Is(t *testing.T) {
	err := fmt.Errorf("load: %w", NewConfigurationError("x", validate.Error{Field: "plugins", Message: "bad"}))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrUnknownConfigField)

	c := newIssueCollector()
	c.addUnknown("solidity")
	unknown := c.err("x")
	assert.ErrorIs(t, unknown, ErrConfiguration)
	assert.ErrorIs(t, unknown, ErrUnknownConfigField)

	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestConfigurationError_Fields(t *testing.T) {
	err := NewConfigurationError("x",
		validate.Error{Field: "namedAccounts", Message: "a"},
		validate.Error{Field: "networks.rinkeby.accounts[0]", Message: "b"},
		validate.Error{Field: "namedAccounts", Message: "c"},
		validate.Error{Message: "no field"},
	)
	assert.Equal(t, []string{"namedAccounts", "networks.rinkeby.accounts[0]"}, err.Fields())

	assert.True(t, err.HasField("namedAccounts"))
	assert.True(t, err.HasField("networks"))
	assert.True(t, err.HasField("networks.rinkeby"))
	assert.True(t, err.HasField("networks.rinkeby.accounts"))
	assert.False(t, err.HasField("networks.rink"))
	assert.False(t, err.HasField("plugins"))
}

func TestIssueCollector_NoIssues(t *testing.T) {
	assert.Nil(t, newIssueCollector().err("x"))
}
