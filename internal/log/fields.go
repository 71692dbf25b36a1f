// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldVersion       = "version"
	FieldLoadID        = "load_id"
	FieldCorrelationID = "correlation_id"
	FieldRequestID     = "request_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Configuration fields
	FieldPath            = "path"
	FieldFormat          = "format"
	FieldField           = "field"
	FieldNetwork         = "network"
	FieldDefaultNetwork  = "default_network"
	FieldCompilerVersion = "compiler_version"
	FieldPlugin          = "plugin"
	FieldSecretSource    = "secret_source"

	// Network fields
	FieldURL     = "url"
	FieldChainID = "chain_id"

	// Build fields
	FieldContract = "contract"
	FieldBytes    = "bytes"
)
