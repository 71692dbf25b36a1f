// SPDX-License-Identifier: MIT
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Configuration loading
	configLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deploycfg_config_loads_total",
		Help: "Configuration load attempts by outcome",
	}, []string{"outcome"}) // outcome=success|invalid|error

	configValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deploycfg_config_validation_errors_total",
		Help: "Configuration validation errors by top-level field",
	}, []string{"field"})

	configLastLoadSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deploycfg_config_last_load_success_timestamp_seconds",
		Help: "Unix time of the last successful configuration load",
	})

	// Credential resolution
	secretLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deploycfg_secret_lookups_total",
		Help: "Secret lookups by source and outcome",
	}, []string{"source", "outcome"}) // outcome=hit|miss|error
)

// RecordConfigLoad counts a load attempt.
func RecordConfigLoad(outcome string) {
	configLoadsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		configLastLoadSuccess.SetToCurrentTime()
	}
}

// RecordValidationError counts a validation issue. The label is cut to the
// top-level key so map entries cannot blow up cardinality.
func RecordValidationError(field string) {
	configValidationErrors.WithLabelValues(TopLevelField(field)).Inc()
}

// RecordSecretLookup counts a secret lookup against one source.
func RecordSecretLookup(source, outcome string) {
	secretLookupsTotal.WithLabelValues(source, outcome).Inc()
}

// TopLevelField returns the first segment of a dotted or indexed field path.
func TopLevelField(field string) string {
	if field == "" {
		return "unknown"
	}
	if i := strings.IndexAny(field, ".["); i > 0 {
		return field[:i]
	}
	return field
}
