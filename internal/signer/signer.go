// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package signer derives deployer addresses from resolved private keys and
// maps role names to them.
package signer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/validate"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned for keys that are not valid secp256k1 private keys.
var ErrInvalidKey = errors.New("invalid private key")

// Accounts are the signers of one network and the roles bound to them.
type Accounts struct {
	Network string
	Signers []common.Address
	Named   map[string]common.Address
}

// DeriveAddress returns the address controlled by a hex private key, with or
// without 0x prefix. The key itself never appears in the error.
func DeriveAddress(key string) (common.Address, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(key), "0x"), "0X")
	pk, err := crypto.HexToECDSA(raw)
	if err != nil {
		return common.Address{}, ErrInvalidKey
	}
	return crypto.PubkeyToAddress(pk.PublicKey), nil
}

// DeriveAddresses derives the address of every key, in order.
func DeriveAddresses(keys []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(keys))
	for i, k := range keys {
		addr, err := DeriveAddress(k)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// NamedAccounts binds each role to signers[index]. Every out-of-range index
// is reported as an issue on namedAccounts.<role>.
func NamedAccounts(named map[string]int, signers []common.Address) (map[string]common.Address, error) {
	roles := make([]string, 0, len(named))
	for role := range named {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	v := validate.New()
	out := make(map[string]common.Address, len(named))
	for _, role := range roles {
		idx := named[role]
		if idx < 0 || idx >= len(signers) {
			v.AddError("namedAccounts."+role,
				fmt.Sprintf("account index %d out of range (%d signers)", idx, len(signers)),
				idx)
			continue
		}
		out[role] = signers[idx]
	}
	if !v.IsValid() {
		return nil, config.NewConfigurationError("signers", v.Errors()...)
	}
	return out, nil
}

// ForNetwork derives the signers of a resolved network and binds the named
// accounts to them. A network without accounts relies on the node's own
// accounts, so roles stay unbound.
func ForNetwork(creds config.Credentials, network string, named map[string]int) (Accounts, error) {
	n, ok := creds.Network(network)
	if !ok {
		return Accounts{}, config.NewConfigurationError("signers", validate.Error{
			Field:   "networks",
			Message: fmt.Sprintf("network %q is not declared", network),
			Value:   network,
		})
	}

	acc := Accounts{Network: network, Named: map[string]common.Address{}}
	if len(n.Accounts) == 0 {
		return acc, nil
	}

	v := validate.New()
	acc.Signers = make([]common.Address, 0, len(n.Accounts))
	for i, key := range n.Accounts {
		addr, err := DeriveAddress(key)
		if err != nil {
			v.AddError(fmt.Sprintf("networks.%s.accounts[%d]", network, i), err.Error(), "<redacted>")
			continue
		}
		acc.Signers = append(acc.Signers, addr)
	}
	if !v.IsValid() {
		return Accounts{}, config.NewConfigurationError("signers", v.Errors()...)
	}

	bound, err := NamedAccounts(named, acc.Signers)
	if err != nil {
		return Accounts{}, err
	}
	acc.Named = bound
	return acc, nil
}
