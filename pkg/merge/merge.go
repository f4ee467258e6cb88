// Package merge reconciles newly extracted orders into the persisted order
// set. Orders are keyed by id; an incoming order either appends or refreshes
// the items and address of its existing counterpart. Manual edits on the
// existing record (tracking, note edits, quantities, cancellation) are never
// overwritten.
package merge

import (
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/shipdesk/shipdesk/internal/store"
)

// Merge reconciles incoming into existing and returns the updated set. Each
// incoming order is merged independently: a panic while merging one order is
// contained and does not prevent merging the rest of the batch.
func Merge(existing, incoming []store.Order, now time.Time) []store.Order {
	out := make([]store.Order, len(existing))
	copy(out, existing)

	for _, in := range incoming {
		out = mergeOne(out, in, now)
	}
	return out
}

func mergeOne(orders []store.Order, in store.Order, now time.Time) (result []store.Order) {
	// One bad order must not sink the batch.
	defer func() {
		if recover() != nil {
			result = orders
		}
	}()

	for i := range orders {
		if orders[i].ID != in.ID {
			continue
		}
		refresh(&orders[i], in, now)
		return orders
	}
	return append(orders, in)
}

// refresh replaces the existing order's items and address lines when, and
// only when, they structurally differ from the incoming ones. The comparison
// is literal: reordered address lines count as a change.
func refresh(existing *store.Order, in store.Order, now time.Time) {
	sameItems := cmp.Equal(existing.Items, in.Items)
	sameAddress := cmp.Equal(existing.AddressLines, in.AddressLines)
	if sameItems && sameAddress {
		return
	}

	existing.Items = in.Items
	existing.AddressLines = in.AddressLines
	existing.Highlight = store.HighlightUpdated

	annotation := fmt.Sprintf("[updated %s]", now.Format("2006-01-02"))
	if existing.Note == "" {
		existing.Note = annotation
	} else {
		existing.Note = existing.Note + " " + annotation
	}
}
