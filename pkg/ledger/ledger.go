// Package ledger maintains the append-only stock history and applies the
// commit, cancel-restock, and conversion operations that drive it. Every
// stock mutation goes through here so that a variant's count always equals
// its initial count plus the sum of its recorded deltas.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shipdesk/shipdesk/internal/store"
	"github.com/shipdesk/shipdesk/pkg/inventory"
)

// MaxEntries caps the ledger. Appending past the cap silently drops the
// oldest entries.
const MaxEntries = 1000

// Unresolved names an order item that no inventory family matched. The
// caller surfaces these; their stock is never adjusted implicitly.
type Unresolved struct {
	OrderID string `json:"orderId"`
	Item    string `json:"item"`
	Qty     int    `json:"qty"`
}

// Append adds an entry and enforces the cap.
func Append(entries []store.LedgerEntry, e store.LedgerEntry) []store.LedgerEntry {
	entries = append(entries, e)
	if excess := len(entries) - MaxEntries; excess > 0 {
		entries = entries[excess:]
	}
	return entries
}

func newEntry(now time.Time, familyID, variant string, delta int, reason string) store.LedgerEntry {
	return store.LedgerEntry{
		ID:       uuid.NewString(),
		Date:     now,
		FamilyID: familyID,
		Variant:  variant,
		Delta:    delta,
		Reason:   reason,
	}
}

// matchFunc abstracts the inventory lookup so commit can run against either
// the plain scan or a compiled automaton.
type matchFunc func(name string) *inventory.Match

// Commit resolves every item of every active order against the inventory,
// decrements matched variants by the item quantity, and appends one entry
// per adjustment with the order id as reason. Cancelled orders are skipped.
// Items no family matched come back as Unresolved, untouched.
func Commit(entries []store.LedgerEntry, orders []store.Order, inv []store.InventoryFamily, now time.Time) ([]store.LedgerEntry, []Unresolved) {
	return commit(entries, orders, func(name string) *inventory.Match {
		return inventory.MatchItem(name, inv)
	}, now)
}

// CommitWith is Commit with a pre-compiled matcher, for large inventories.
func CommitWith(entries []store.LedgerEntry, orders []store.Order, m *inventory.Matcher, now time.Time) ([]store.LedgerEntry, []Unresolved) {
	return commit(entries, orders, m.Match, now)
}

func commit(entries []store.LedgerEntry, orders []store.Order, match matchFunc, now time.Time) ([]store.LedgerEntry, []Unresolved) {
	var unresolved []Unresolved
	for _, o := range orders {
		if o.Cancelled() {
			continue
		}
		for _, item := range o.Items {
			m := match(item.Name)
			if m == nil {
				unresolved = append(unresolved, Unresolved{OrderID: o.ID, Item: item.Name, Qty: item.Qty})
				continue
			}
			m.Variant.Count -= item.Qty
			entries = Append(entries, newEntry(now, m.Family.ID, m.Variant.Name, -item.Qty, "Order "+o.ID))
		}
	}
	return entries, unresolved
}

// CancelRestock returns a cancelled order's matched items to stock,
// incrementing each matched variant by the item quantity. Items that do not
// resolve are reported and left alone.
func CancelRestock(entries []store.LedgerEntry, order store.Order, inv []store.InventoryFamily, now time.Time) ([]store.LedgerEntry, []Unresolved) {
	var unresolved []Unresolved
	for _, item := range order.Items {
		m := inventory.MatchItem(item.Name, inv)
		if m == nil {
			unresolved = append(unresolved, Unresolved{OrderID: order.ID, Item: item.Name, Qty: item.Qty})
			continue
		}
		m.Variant.Count += item.Qty
		entries = Append(entries, newEntry(now, m.Family.ID, m.Variant.Name, item.Qty, "Cancelled Order "+order.ID))
	}
	return entries, unresolved
}

// Convert moves stock between two variants of one family: take is removed
// from source, add is credited to target. The amounts are independent, so a
// conversion can change total unit count (one 1kg bag becomes ten 100g
// bags). Rejected outright, with no mutation, when source and target are the
// same variant or either amount is not strictly positive.
func Convert(entries []store.LedgerEntry, family *store.InventoryFamily, source, target string, take, add int, now time.Time) ([]store.LedgerEntry, error) {
	if source == target {
		return entries, fmt.Errorf("ledger: conversion source and target are both %q", source)
	}
	if take <= 0 || add <= 0 {
		return entries, fmt.Errorf("ledger: conversion amounts must be positive, got take=%d add=%d", take, add)
	}
	src := family.FindVariant(source)
	if src == nil {
		return entries, fmt.Errorf("ledger: family %s has no variant %q", family.ID, source)
	}
	dst := family.FindVariant(target)
	if dst == nil {
		return entries, fmt.Errorf("ledger: family %s has no variant %q", family.ID, target)
	}

	src.Count -= take
	dst.Count += add
	entries = Append(entries, newEntry(now, family.ID, source, -take, "Stock Conversion"))
	entries = Append(entries, newEntry(now, family.ID, target, add, "Stock Conversion"))
	return entries, nil
}
