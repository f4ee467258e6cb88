// Package store provides the shared data model and SQLite-backed persistence
// for shipdesk. Orders, inventory, store configs and the stock ledger are
// stored as whole JSON values under fixed keys; there are no partial updates.
package store

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusActive    OrderStatus = "active"
	StatusCancelled OrderStatus = "cancelled"
)

// Highlight marks an order row for attention after a merge.
type Highlight string

const (
	HighlightNone    Highlight = ""
	HighlightUpdated Highlight = "updated"
)

// Item is one line item on an order. Name is free text as extracted from the
// source email; it is resolved against inventory only at commit time.
type Item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Order is one customer purchase derived from one or more source emails.
// ID is the merge key; two orders with the same ID are the same order.
type Order struct {
	ID           string      `json:"id"`
	Date         time.Time   `json:"date"`
	Items        []Item      `json:"items"`
	AddressLines []string    `json:"addressLines"`
	Email        string      `json:"email,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Note         string      `json:"note,omitempty"`
	Sender       string      `json:"sender,omitempty"` // store name the email was matched to
	MessageRef   string      `json:"messageRef,omitempty"`
	OrderLink    string      `json:"orderLink,omitempty"`
	Status       OrderStatus `json:"status,omitempty"`
	Highlight    Highlight   `json:"highlight,omitempty"`
	IsPartial    bool        `json:"isPartial,omitempty"`
	Tracking     string      `json:"tracking,omitempty"`
}

// Cancelled reports whether the order has been soft-cancelled.
func (o *Order) Cancelled() bool { return o.Status == StatusCancelled }

// Variant is a specific stocked unit of a family (size, count, flavor).
// Count is signed; negative means backorder and is never clamped.
type Variant struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// InventoryFamily is a product definition grouping one or more variants.
// Aliases map lowercased free-text item names to a variant name and always
// take priority over keyword scoring. Variants are only ever added, never
// implicitly removed.
type InventoryFamily struct {
	ID       string            `json:"id"`
	Store    string            `json:"store"`
	Name     string            `json:"name"`
	Note     string            `json:"note,omitempty"`
	Variants []Variant         `json:"variants"`
	Keywords []string          `json:"keywords"`
	Aliases  map[string]string `json:"aliases"`
}

// FindVariant returns the variant with the given name, or nil.
func (f *InventoryFamily) FindVariant(name string) *Variant {
	for i := range f.Variants {
		if f.Variants[i].Name == name {
			return &f.Variants[i]
		}
	}
	return nil
}

// LedgerEntry is one immutable signed stock-quantity change.
type LedgerEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	FamilyID string    `json:"familyId"`
	Variant  string    `json:"variant"`
	Delta    int       `json:"delta"`
	Reason   string    `json:"reason"`
}

// StoreConfig describes one storefront: how to recognize its sender address
// and how replies should be signed.
type StoreConfig struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Signature string `json:"signature,omitempty"`
}

// Storer is the persistence port. Each value is read and written whole;
// the last writer wins.
type Storer interface {
	Orders() ([]Order, error)
	SetOrders(orders []Order) error

	Inventory() ([]InventoryFamily, error)
	SetInventory(inv []InventoryFamily) error

	StoreConfigs() ([]StoreConfig, error)
	SetStoreConfigs(configs []StoreConfig) error

	Ledger() ([]LedgerEntry, error)
	SetLedger(entries []LedgerEntry) error

	Close() error
}

// DefaultStores is the seed store configuration used on first run.
func DefaultStores() []StoreConfig {
	return []StoreConfig{
		{Name: "Bio Nootropics", Email: "bionootropics@gmail.com", Signature: "Thank you,\nBio Nootropics Team"},
		{Name: "Peptide Amino", Email: "bmntherapy@gmail.com", Signature: "Best regards,\nPeptide Amino Support"},
	}
}

// DefaultInventory is the seed inventory used on first run.
func DefaultInventory() []InventoryFamily {
	return []InventoryFamily{
		{
			ID:    "A-1",
			Store: "Bio Nootropics",
			Name:  "Superfort (pancreas)",
			Note:  "Sample",
			Variants: []Variant{
				{Name: "20", Count: 10},
				{Name: "60s", Count: 5},
			},
			Keywords: []string{"a-1", "superfort", "pancreas", "sample", "20", "60s"},
			Aliases:  map[string]string{},
		},
	}
}
