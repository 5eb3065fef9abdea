// Package localstore keeps the client-side blobs (cart lines, signed-in
// principal) that are reloaded verbatim when the process starts.
package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/nikolayk812/cartsync/internal/port"
)

const (
	CartKey = "cart-storage"
	AuthKey = "auth-storage"
)

type badgerStore struct {
	db     *badger.DB
	prefix string
}

// NewBadger stores blobs in db. Keys are namespaced by prefix so several
// sessions can share one database.
func NewBadger(db *badger.DB, prefix string) port.LocalStore {
	return &badgerStore{db: db, prefix: prefix}
}

// OpenBadger opens a database at dir, or an in-memory one when dir is empty.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger.Open: %w", err)
	}

	return db, nil
}

func (s *badgerStore) key(k string) []byte {
	return []byte(s.prefix + k)
}

func (s *badgerStore) Load(_ context.Context, key string, v any) (bool, error) {
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("txn.Get: %w", err)
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	return found, nil
}

func (s *badgerStore) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(key), data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	return nil
}

func (s *badgerStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(s.key(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}
