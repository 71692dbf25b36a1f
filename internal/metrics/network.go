// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	preflightProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deploycfg_preflight_probes_total",
		Help: "Network preflight probes by outcome",
	}, []string{"outcome"}) // outcome=ok|unreachable|chain_mismatch|skipped

	preflightProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "deploycfg_preflight_probe_duration_seconds",
		Help:    "Latency of eth_chainId preflight probes",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	contractSizeBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deploycfg_contract_size_bytes",
		Help: "Deployed bytecode size per contract (last size check)",
	}, []string{"contract"})
)

// RecordPreflightProbe counts a probe and its latency in seconds.
func RecordPreflightProbe(outcome string, seconds float64) {
	preflightProbesTotal.WithLabelValues(outcome).Inc()
	if seconds > 0 {
		preflightProbeDuration.Observe(seconds)
	}
}

// SetContractSize records the deployed size of a contract.
func SetContractSize(contract string, bytes int) {
	contractSizeBytes.WithLabelValues(contract).Set(float64(bytes))
}
