// SPDX-License-Identifier: MIT

package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ManuGH/deploycfg/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_AccumulatesErrors(t *testing.T) {
	v := validate.New()
	v.Positive("optimizerSettings.runs", 0)
	v.NotEmpty("defaultNetwork", "  ")

	require.False(t, v.IsValid())
	require.Len(t, v.Errors(), 2)

	err := v.Err()
	require.Error(t, err)

	var verr validate.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "optimizerSettings.runs", verr.Errors()[0].Field)
	assert.Equal(t, "defaultNetwork", verr.Errors()[1].Field)
	assert.Contains(t, err.Error(), "; ")
}

func TestValidator_ErrNilWhenValid(t *testing.T) {
	v := validate.New()
	v.Positive("runs", 1)
	v.NonNegative("index", 0)
	require.True(t, v.IsValid())
	require.NoError(t, v.Err())
}

func TestValidator_URL(t *testing.T) {
	schemes := []string{"http", "https", "ws", "wss"}
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"https endpoint", "https://eth-rinkeby.alchemyapi.io/v2/abc", true},
		{"websocket endpoint", "wss://node.example.org/ws", true},
		{"empty", "", false},
		{"no host", "https://", false},
		{"bad scheme", "ftp://node.example.org", false},
		{"relative", "node.example.org", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validate.New()
			v.URL("networks.x.url", tt.value, schemes)
			assert.Equal(t, tt.valid, v.IsValid(), "errors: %v", v.Errors())
		})
	}
}

func TestValidator_SemVer(t *testing.T) {
	const supported = ">=0.4.11 <0.9.0"
	tests := []struct {
		value string
		valid bool
	}{
		{"0.8.6", true},
		{"0.4.11", true},
		{"0.8.30", true},
		{"0.4.10", false},
		{"0.9.0", false},
		{"0.8", false},
		{"v0.8.6", false},
		{"latest", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := validate.New()
			v.SemVer("compilerVersion", tt.value, supported)
			assert.Equal(t, tt.valid, v.IsValid(), "errors: %v", v.Errors())
		})
	}
}

func TestValidator_HexKeyRedactsValue(t *testing.T) {
	v := validate.New()
	v.HexKey("networks.rinkeby.accounts[0]", "0xdeadbeef", 32)
	require.False(t, v.IsValid())
	assert.Equal(t, "<redacted>", v.Errors()[0].Value)

	v = validate.New()
	v.HexKey("networks.rinkeby.accounts[0]", "0x"+strings.Repeat("ab", 32), 32)
	assert.True(t, v.IsValid())

	v = validate.New()
	v.HexKey("networks.rinkeby.accounts[0]", strings.Repeat("zz", 32), 32)
	assert.False(t, v.IsValid())
}

func TestValidator_UniqueValues(t *testing.T) {
	v := validate.New()
	v.UniqueValues("namedAccounts", map[string]int{"deployer": 0, "dev": 0, "ops": 2})
	require.Len(t, v.Errors(), 1)
	assert.Equal(t, "namedAccounts", v.Errors()[0].Field)
	assert.Contains(t, v.Errors()[0].Message, "deployer, dev")

	v = validate.New()
	v.UniqueValues("namedAccounts", map[string]int{"deployer": 0, "dev": 1})
	assert.True(t, v.IsValid())
}

func TestValidator_UniqueStrings(t *testing.T) {
	v := validate.New()
	v.UniqueStrings("plugins", []string{"hardhat-deploy", "solidity-coverage", "hardhat-deploy"})
	require.Len(t, v.Errors(), 1)
	assert.Equal(t, "hardhat-deploy", v.Errors()[0].Value)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want validate.LogLevel
	}{
		{"warn", validate.LogLevelWarn},
		{"DEBUG", validate.LogLevelDebug},
		{" error ", validate.LogLevelError},
	}
	for _, tt := range tests {
		lvl, err := validate.ParseLogLevel("--log-level", tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, lvl)
	}

	_, err := validate.ParseLogLevel("--log-level", "loud")
	require.ErrorIs(t, err, validate.ErrInvalidLogLevel)
	assert.Contains(t, err.Error(), "--log-level")

	var verr validate.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "--log-level", verr.Errors()[0].Field)
}
