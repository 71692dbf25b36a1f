// SPDX-License-Identifier: MIT
package telemetry

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/api/v1/networks/{name}", 200)

	if len(attrs) != 3 {
		t.Fatalf("Expected 3 attributes, got %d", len(attrs))
	}

	verifyAttribute(t, attrs, HTTPMethodKey, "GET")
	verifyAttribute(t, attrs, HTTPRouteKey, "/api/v1/networks/{name}")
	verifyIntAttribute(t, attrs, HTTPStatusCodeKey, 200)
}

func TestConfigLoadAttributes(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		format  string
		wantLen int
	}{
		{
			name:    "file load",
			path:    "deploy.yaml",
			format:  "yaml",
			wantLen: 4,
		},
		{
			name:    "environment only",
			path:    "",
			format:  "",
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := ConfigLoadAttributes(tt.path, tt.format, "load-1", "v1.0.0")

			if len(attrs) != tt.wantLen {
				t.Errorf("Expected %d attributes, got %d", tt.wantLen, len(attrs))
			}

			if tt.path != "" {
				verifyAttribute(t, attrs, ConfigPathKey, tt.path)
			}
			if tt.format != "" {
				verifyAttribute(t, attrs, ConfigFormatKey, tt.format)
			}
			verifyAttribute(t, attrs, ConfigLoadIDKey, "load-1")
			verifyAttribute(t, attrs, ConfigLoaderVersionKey, "v1.0.0")
		})
	}
}

func TestNetworkAttributes(t *testing.T) {
	attrs := NetworkAttributes("sepolia", 11155111)
	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, NetworkNameKey, "sepolia")
	verifyIntAttribute(t, attrs, NetworkChainIDKey, 11155111)

	if got := NetworkAttributes("hardhat", 0); len(got) != 1 {
		t.Errorf("Expected chain id to be omitted, got %d attributes", len(got))
	}
}

func TestPluginAttributes(t *testing.T) {
	attrs := PluginAttributes("hardhat-contract-sizer")
	verifyAttribute(t, attrs, PluginNameKey, "hardhat-contract-sizer")
}

func TestErrorAttributes(t *testing.T) {
	err := errors.New("test error")
	attrs := ErrorAttributes(err, "configuration_error")

	if len(attrs) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(attrs))
	}

	verifyBoolAttribute(t, attrs, ErrorKey, true)
	verifyAttribute(t, attrs, ErrorTypeKey, "configuration_error")
}

// Helper functions for attribute verification

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, expectedValue string) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsString() != expectedValue {
				t.Errorf("Expected %s=%s, got %s", key, expectedValue, attr.Value.AsString())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyIntAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue int) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsInt64() != int64(expectedValue) {
				t.Errorf("Expected %s=%d, got %d", key, expectedValue, attr.Value.AsInt64())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyBoolAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue bool) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsBool() != expectedValue {
				t.Errorf("Expected %s=%t, got %t", key, expectedValue, attr.Value.AsBool())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}
