// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package secrets sources network credentials (RPC URLs, signer keys) from
// stores outside version-controlled configuration.
//
// Configuration values reference secrets as ${NAME}. A Source looks a name
// up; Expand substitutes every reference in a string. Sources can be chained
// so a developer .env file, a shared Redis instance and a local badger store
// are consulted in order.
package secrets
