// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package auth

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/logging"
)

// SessionStoreType defines the type of session storage backend.
type SessionStoreType string

const (
	// SessionStoreMemory uses in-memory storage (default, not persistent).
	SessionStoreMemory SessionStoreType = "memory"

	// SessionStoreBadger uses BadgerDB for persistent session storage.
	SessionStoreBadger SessionStoreType = "badger"
)

// SessionStoreFactory owns the database behind a session store.
type SessionStoreFactory struct {
	db        *badger.DB
	encryptor *TokenEncryptor
}

// NewSessionStoreFactory opens the backend named by cfg.SessionStore. For
// "badger" an empty path opens an in-memory database, which tests use.
func NewSessionStoreFactory(cfg *config.SecurityConfig) (*SessionStoreFactory, error) {
	encryptor, err := NewTokenEncryptor(cfg.SessionEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("session encryption: %w", err)
	}
	factory := &SessionStoreFactory{encryptor: encryptor}

	if SessionStoreType(cfg.SessionStore) == SessionStoreBadger {
		opts := badger.DefaultOptions(cfg.SessionStorePath)
		if cfg.SessionStorePath == "" {
			opts = opts.WithInMemory(true)
		}
		opts.Logger = nil

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for sessions: %w", err)
		}
		factory.db = db

		if !encryptor.IsEnabled() {
			logging.Warn().Msg("SESSION_ENCRYPTION_KEY not set; CRM session IDs are stored unencrypted")
		}
	}

	return factory, nil
}

// CreateStore creates a SessionStore based on the factory's configuration.
func (f *SessionStoreFactory) CreateStore() SessionStore {
	if f.db != nil {
		return NewBadgerSessionStore(f.db, f.encryptor)
	}
	return NewMemorySessionStore()
}

// Close closes the underlying BadgerDB if one was opened.
func (f *SessionStoreFactory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
