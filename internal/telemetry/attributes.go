// SPDX-License-Identifier: MIT

// Package telemetry provides OpenTelemetry tracing utilities for deploycfg.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across deploycfg.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Config load attributes
	ConfigPathKey          = "config.path"
	ConfigFormatKey        = "config.format"
	ConfigLoadIDKey        = "config.load_id"
	ConfigLoaderVersionKey = "config.loader_version"
	ConfigIssuesKey        = "config.issues"

	// Network attributes
	NetworkNameKey    = "network.name"
	NetworkChainIDKey = "network.chain_id"

	// Secret resolution attributes
	SecretSourceKey = "secret.source"

	// Plugin attributes
	PluginNameKey = "plugin.name"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ConfigLoadAttributes creates span attributes for a configuration load.
// An empty path (environment-only load) is omitted.
func ConfigLoadAttributes(path, format, loadID, loaderVersion string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if path != "" {
		attrs = append(attrs, attribute.String(ConfigPathKey, path))
	}
	if format != "" {
		attrs = append(attrs, attribute.String(ConfigFormatKey, format))
	}
	attrs = append(attrs,
		attribute.String(ConfigLoadIDKey, loadID),
		attribute.String(ConfigLoaderVersionKey, loaderVersion),
	)
	return attrs
}

// NetworkAttributes creates network-related span attributes. A zero chain ID
// means "not declared" and is omitted.
func NetworkAttributes(name string, chainID uint64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(NetworkNameKey, name)}
	if chainID != 0 {
		attrs = append(attrs, attribute.Int64(NetworkChainIDKey, int64(chainID)))
	}
	return attrs
}

// PluginAttributes creates plugin activation span attributes.
func PluginAttributes(name string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String(PluginNameKey, name)}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
