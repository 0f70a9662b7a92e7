package badger

import (
	"fmt"
	"os"
	"sync"

	"github.com/plumehq/plume/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB wraps a badgerhold store over an embedded badger database.
type BadgerDB struct {
	store *badgerhold.Store
	path  string
	mu    sync.RWMutex
}

// NewBadgerDB opens (creating if needed) the database at the given path.
func NewBadgerDB(path string) (*BadgerDB, error) {
	logger := common.GetLogger()

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Info().Str("path", path).Msg("Storage opened")

	return &BadgerDB{store: store, path: path}, nil
}

// Store returns the underlying badgerhold store.
func (db *BadgerDB) Store() *badgerhold.Store {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store
}

// Close closes the underlying database.
func (db *BadgerDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.store == nil {
		return nil
	}
	err := db.store.Close()
	db.store = nil
	return err
}
