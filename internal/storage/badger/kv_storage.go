package badger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// KVStorage is a typed key/value store with per-entry expiry, backed by the
// raw badger database underneath badgerhold. Expired entries disappear on
// read without any sweeper.
type KVStorage struct {
	db *BadgerDB
}

const kvPrefix = "kv:"

func NewKVStorage(db *BadgerDB) *KVStorage {
	return &KVStorage{db: db}
}

// Set stores a value under key. A zero ttl means the entry never expires.
func (s *KVStorage) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	return s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(kvPrefix+key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Get loads the value under key into out. The second return is false when
// the key is absent or expired.
func (s *KVStorage) Get(key string, out interface{}) (bool, error) {
	var data []byte
	err := s.db.Store().Badger().View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(kvPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the entry under key. Deleting a missing key is not an error.
func (s *KVStorage) Delete(key string) error {
	return s.db.Store().Badger().Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(kvPrefix + key))
	})
}
