// SPDX-License-Identifier: MIT
package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ManuGH/deploycfg/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromhttpExposure(t *testing.T) {
	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func gather(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterValue(mf *dto.MetricFamily, labels map[string]string) float64 {
	if mf == nil {
		return 0
	}
	for _, m := range mf.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRecordConfigLoad(t *testing.T) {
	before := counterValue(gather(t, "deploycfg_config_loads_total"), map[string]string{"outcome": "invalid"})
	metrics.RecordConfigLoad("invalid")
	after := counterValue(gather(t, "deploycfg_config_loads_total"), map[string]string{"outcome": "invalid"})
	assert.Equal(t, before+1, after)
}

func TestRecordValidationError_UsesTopLevelField(t *testing.T) {
	metrics.RecordValidationError("networks.sepolia.accounts[0]")

	mf := gather(t, "deploycfg_config_validation_errors_total")
	require.NotNil(t, mf)
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			assert.False(t, strings.Contains(lp.GetValue(), "."), "label %q must be top-level", lp.GetValue())
		}
	}
	assert.GreaterOrEqual(t, counterValue(mf, map[string]string{"field": "networks"}), 1.0)
}

func TestTopLevelField(t *testing.T) {
	tests := map[string]string{
		"":                             "unknown",
		"compilerVersion":              "compilerVersion",
		"optimizerSettings.runs":       "optimizerSettings",
		"networks.mainnet.url":         "networks",
		"plugins[2]":                   "plugins",
		"networks.sepolia.accounts[0]": "networks",
	}
	for in, want := range tests {
		assert.Equal(t, want, metrics.TopLevelField(in), in)
	}
}

func TestSetContractSize(t *testing.T) {
	metrics.SetContractSize("Token", 1234)

	mf := gather(t, "deploycfg_contract_size_bytes")
	require.NotNil(t, mf)
	var found bool
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "contract" && lp.GetValue() == "Token" {
				found = true
				assert.Equal(t, 1234.0, m.GetGauge().GetValue())
			}
		}
	}
	assert.True(t, found)
}
