// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "secret:"

// BadgerSource is a local encrypted-at-rest friendly key store for
// developer machines. Keys are stored as "secret:<name>".
type BadgerSource struct {
	db *badger.DB
}

// OpenBadgerSource opens (or creates) a badger store at path.
func OpenBadgerSource(path string) (*BadgerSource, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	return openBadger(opts)
}

// OpenInMemoryBadgerSource opens a throwaway store.
func OpenInMemoryBadgerSource() (*BadgerSource, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return openBadger(opts)
}

func openBadger(opts badger.Options) (*BadgerSource, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger secret store: %w", err)
	}
	return &BadgerSource{db: db}, nil
}

// Name implements Source.
func (s *BadgerSource) Name() string { return "badger" }

// Lookup implements Source.
func (s *BadgerSource) Lookup(_ context.Context, key string) (string, error) {
	var out string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("badger get: %w", err)
	}
	if out == "" {
		return "", ErrNotFound
	}
	return out, nil
}

// Put stores a secret.
func (s *BadgerSource) Put(_ context.Context, key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), []byte(value))
	})
}

// Close closes the underlying database.
func (s *BadgerSource) Close() error { return s.db.Close() }
