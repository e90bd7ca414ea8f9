// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const sessionKeyPrefix = "session:"

// BadgerSessionStore implements SessionStore on BadgerDB so logins survive
// restarts. Entries carry a Badger TTL matching the session expiry, and
// CleanupExpired removes whatever the TTL has not yet reclaimed.
type BadgerSessionStore struct {
	db        *badger.DB
	encryptor *TokenEncryptor
}

// NewBadgerSessionStore wraps an open database. encryptor may be nil.
func NewBadgerSessionStore(db *badger.DB, encryptor *TokenEncryptor) *BadgerSessionStore {
	return &BadgerSessionStore{db: db, encryptor: encryptor}
}

// Create stores a new session.
func (s *BadgerSessionStore) Create(_ context.Context, session *Session) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return s.put(txn, session)
	})
}

func (s *BadgerSessionStore) put(txn *badger.Txn, session *Session) error {
	stored := *session
	encrypted, err := s.encryptor.Encrypt(session.CRMSessionID)
	if err != nil {
		return fmt.Errorf("encrypt crm session: %w", err)
	}
	stored.CRMSessionID = encrypted

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	entry := badger.NewEntry([]byte(sessionKeyPrefix+session.ID), data)
	if ttl := time.Until(session.ExpiresAt); ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	if err := txn.SetEntry(entry); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *BadgerSessionStore) decode(val []byte) (*Session, error) {
	var session Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	plain, err := s.encryptor.Decrypt(session.CRMSessionID)
	if err != nil {
		return nil, fmt.Errorf("decrypt crm session: %w", err)
	}
	session.CRMSessionID = plain
	return &session, nil
}

// read loads a session inside txn, expired or not.
func (s *BadgerSessionStore) read(txn *badger.Txn, id string) (*Session, error) {
	item, err := txn.Get([]byte(sessionKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session *Session
	err = item.Value(func(val []byte) error {
		session, err = s.decode(val)
		return err
	})
	return session, err
}

// Get retrieves a session by ID.
func (s *BadgerSessionStore) Get(_ context.Context, id string) (*Session, error) {
	var session *Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = s.read(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session by ID.
func (s *BadgerSessionStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionKeyPrefix + id))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// Touch updates the session's last accessed time and extends expiry.
func (s *BadgerSessionStore) Touch(_ context.Context, id string, newExpiry time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		session, err := s.read(txn, id)
		if err != nil {
			return err
		}
		session.LastAccessedAt = time.Now()
		session.ExpiresAt = newExpiry
		return s.put(txn, session)
	})
}

// CleanupExpired removes all expired sessions.
func (s *BadgerSessionStore) CleanupExpired(ctx context.Context) (int, error) {
	var expiredIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session Session
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			})
			if err != nil {
				continue
			}
			if session.IsExpired() {
				expiredIDs = append(expiredIDs, session.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	count := 0
	for _, id := range expiredIDs {
		if err := s.Delete(ctx, id); err != nil {
			continue
		}
		count++
	}
	return count, nil
}

// Count returns the total number of sessions in the store.
func (s *BadgerSessionStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
