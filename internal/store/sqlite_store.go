// SQLite-backed implementation of Storer.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Value keys. Each holds one whole JSON document.
const (
	keyOrders       = "orders"
	keyInventory    = "inventory"
	keyStoreConfigs = "storeConfig"
	keyLedger       = "stockHistory"
)

// SQLiteStore persists whole values in a single key/value table.
// Reads return the full stored value; writes replace it entirely.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// NewSQLiteStore creates an in-memory store, used by tests.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store backed by the given data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory DSN exists per connection; the pool must not fan out.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// getValue unmarshals the whole value under key into out.
// A missing key leaves out untouched and returns no error.
func (s *SQLiteStore) getValue(key string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// setValue replaces the whole value under key.
func (s *SQLiteStore) setValue(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Orders returns the full persisted order list.
func (s *SQLiteStore) Orders() ([]Order, error) {
	var orders []Order
	if err := s.getValue(keyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetOrders replaces the full persisted order list.
func (s *SQLiteStore) SetOrders(orders []Order) error {
	return s.setValue(keyOrders, orders)
}

// Inventory returns the full persisted inventory. On first run (no value
// stored yet) it returns the default inventory without persisting it.
func (s *SQLiteStore) Inventory() ([]InventoryFamily, error) {
	var inv []InventoryFamily
	if err := s.getValue(keyInventory, &inv); err != nil {
		return nil, err
	}
	if len(inv) == 0 {
		return DefaultInventory(), nil
	}
	// Older stored values may predate keywords/aliases.
	for i := range inv {
		if inv[i].Aliases == nil {
			inv[i].Aliases = map[string]string{}
		}
		if inv[i].Store == "" {
			inv[i].Store = "General"
		}
	}
	return inv, nil
}

// SetInventory replaces the full persisted inventory.
func (s *SQLiteStore) SetInventory(inv []InventoryFamily) error {
	return s.setValue(keyInventory, inv)
}

// StoreConfigs returns the configured storefronts, or the defaults when none
// have been saved.
func (s *SQLiteStore) StoreConfigs() ([]StoreConfig, error) {
	var configs []StoreConfig
	if err := s.getValue(keyStoreConfigs, &configs); err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return DefaultStores(), nil
	}
	return configs, nil
}

// SetStoreConfigs replaces the configured storefronts.
func (s *SQLiteStore) SetStoreConfigs(configs []StoreConfig) error {
	return s.setValue(keyStoreConfigs, configs)
}

// Ledger returns the full stock movement log.
func (s *SQLiteStore) Ledger() ([]LedgerEntry, error) {
	var entries []LedgerEntry
	if err := s.getValue(keyLedger, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetLedger replaces the full stock movement log.
func (s *SQLiteStore) SetLedger(entries []LedgerEntry) error {
	return s.setValue(keyLedger, entries)
}

var _ Storer = (*SQLiteStore)(nil)
