// Package pipeline orchestrates the extraction flow end to end: message part
// selection, sanitizing, format detection, extraction, merge, and the stock
// operations at commit time. All persistence goes through the Storer port as
// whole-value reads and writes.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shipdesk/shipdesk/internal/store"
	"github.com/shipdesk/shipdesk/pkg/extract"
	"github.com/shipdesk/shipdesk/pkg/inventory"
	"github.com/shipdesk/shipdesk/pkg/ledger"
	"github.com/shipdesk/shipdesk/pkg/mailpart"
	"github.com/shipdesk/shipdesk/pkg/merge"
	"github.com/shipdesk/shipdesk/pkg/sanitize"
	"github.com/shipdesk/shipdesk/pkg/stores"
)

// Message is one fetched email: its header envelope and its part tree.
type Message struct {
	Envelope mailpart.Envelope
	Root     mailpart.Part
}

// Pipeline wires the stages together over a Storer and a store registry.
type Pipeline struct {
	db  store.Storer
	reg *stores.Registry
	log *zap.Logger

	now func() time.Time
}

// New builds a pipeline. A nil logger falls back to zap.NewNop.
func New(db store.Storer, reg *stores.Registry, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{db: db, reg: reg, log: log, now: time.Now}
}

// IngestBatch runs extraction over a batch of messages and merges the result
// into the persisted order set. A failure in one message is logged and that
// message is dropped; the rest of the batch still lands. Returns the number
// of orders extracted across the batch.
func (p *Pipeline) IngestBatch(msgs []Message) (int, error) {
	existing, err := p.db.Orders()
	if err != nil {
		return 0, fmt.Errorf("pipeline: load orders: %w", err)
	}

	var incoming []store.Order
	for _, msg := range msgs {
		orders := p.extractOne(msg)
		incoming = append(incoming, orders...)
	}

	merged := merge.Merge(existing, incoming, p.now())
	if err := p.db.SetOrders(merged); err != nil {
		return 0, fmt.Errorf("pipeline: save orders: %w", err)
	}
	return len(incoming), nil
}

// extractOne turns one message into zero or more orders. Panics are
// contained here so one malformed message cannot abort the batch.
func (p *Pipeline) extractOne(msg Message) (orders []store.Order) {
	defer func() {
		if r := recover(); r != nil {
			orders = nil
			p.log.Error("message extraction failed",
				zap.String("messageId", msg.Envelope.MessageID),
				zap.String("subject", msg.Envelope.Subject),
				zap.Any("panic", r))
		}
	}()

	text, html := msg.Root.Bodies()
	// An HTML-only message still gets text-rule detection over its flattened
	// rendering.
	if text == "" && html != "" {
		text = extract.FlattenHTML(html)
	}
	text = sanitize.Clean(text)
	storeName := p.reg.MatchSender(msg.Envelope.SenderEmail())

	// A subject that is itself an order id marks a forwarded/manual message:
	// the whole body is the address block and the subject is the key.
	subject := strings.TrimSpace(msg.Envelope.Subject)
	if extract.OrderIDPattern.MatchString(subject) {
		o := extract.ExtractManual(text, subject, msg.Envelope.MessageID, storeName, msg.Envelope.Date)
		return []store.Order{o}
	}

	out := extract.Extract(text, html, msg.Envelope.MessageID, storeName, msg.Envelope.Date)
	extract.BackfillProduct(out, subject)
	p.log.Debug("message extracted",
		zap.String("messageId", msg.Envelope.MessageID),
		zap.Int("orders", len(out)))
	return out
}

// IngestSelection turns operator-pasted free text into an order keyed
// "Manual Entry" and merges it into the order set. The store label comes
// from the registry fallback when one is configured.
func (p *Pipeline) IngestSelection(text string) error {
	existing, err := p.db.Orders()
	if err != nil {
		return fmt.Errorf("pipeline: load orders: %w", err)
	}

	o := extract.ExtractManual(sanitize.Clean(text), "Manual Entry", "", p.reg.MatchSender(""), p.now())
	merged := merge.Merge(existing, []store.Order{o}, p.now())
	if err := p.db.SetOrders(merged); err != nil {
		return fmt.Errorf("pipeline: save orders: %w", err)
	}
	return nil
}

// CommitOrders resolves all active orders against inventory, applies the
// stock decrements, and records the ledger entries. Unresolved items are
// returned for the caller to surface; their stock is untouched.
func (p *Pipeline) CommitOrders() ([]ledger.Unresolved, error) {
	orders, err := p.db.Orders()
	if err != nil {
		return nil, fmt.Errorf("pipeline: load orders: %w", err)
	}
	inv, err := p.db.Inventory()
	if err != nil {
		return nil, fmt.Errorf("pipeline: load inventory: %w", err)
	}
	entries, err := p.db.Ledger()
	if err != nil {
		return nil, fmt.Errorf("pipeline: load ledger: %w", err)
	}

	entries, unresolved := ledger.Commit(entries, orders, inv, p.now())

	if err := p.db.SetInventory(inv); err != nil {
		return nil, fmt.Errorf("pipeline: save inventory: %w", err)
	}
	if err := p.db.SetLedger(entries); err != nil {
		return nil, fmt.Errorf("pipeline: save ledger: %w", err)
	}
	return unresolved, nil
}

// CancelOrder soft-cancels an order. With restock set, its matched items are
// returned to stock with ledger entries.
func (p *Pipeline) CancelOrder(orderID string, restock bool) error {
	orders, err := p.db.Orders()
	if err != nil {
		return fmt.Errorf("pipeline: load orders: %w", err)
	}
	idx := findOrder(orders, orderID)
	if idx < 0 {
		return fmt.Errorf("pipeline: no order %q", orderID)
	}
	orders[idx].Status = store.StatusCancelled

	if restock {
		inv, err := p.db.Inventory()
		if err != nil {
			return fmt.Errorf("pipeline: load inventory: %w", err)
		}
		entries, err := p.db.Ledger()
		if err != nil {
			return fmt.Errorf("pipeline: load ledger: %w", err)
		}
		entries, unresolved := ledger.CancelRestock(entries, orders[idx], inv, p.now())
		for _, u := range unresolved {
			p.log.Warn("cancelled item not restocked",
				zap.String("order", u.OrderID), zap.String("item", u.Item))
		}
		if err := p.db.SetInventory(inv); err != nil {
			return fmt.Errorf("pipeline: save inventory: %w", err)
		}
		if err := p.db.SetLedger(entries); err != nil {
			return fmt.Errorf("pipeline: save ledger: %w", err)
		}
	}
	return p.db.SetOrders(orders)
}

// ConvertStock moves stock between two variants of one family.
func (p *Pipeline) ConvertStock(familyID, source, target string, take, add int) error {
	inv, err := p.db.Inventory()
	if err != nil {
		return fmt.Errorf("pipeline: load inventory: %w", err)
	}
	var family *store.InventoryFamily
	for i := range inv {
		if inv[i].ID == familyID {
			family = &inv[i]
			break
		}
	}
	if family == nil {
		return fmt.Errorf("pipeline: no inventory family %q", familyID)
	}
	entries, err := p.db.Ledger()
	if err != nil {
		return fmt.Errorf("pipeline: load ledger: %w", err)
	}

	entries, err = ledger.Convert(entries, family, source, target, take, add, p.now())
	if err != nil {
		return err
	}

	if err := p.db.SetInventory(inv); err != nil {
		return fmt.Errorf("pipeline: save inventory: %w", err)
	}
	return p.db.SetLedger(entries)
}

// ResolveItem teaches the inventory that an unresolved item name belongs to
// a family variant, then renames the item on every order that carries it so
// later commits hit the alias directly.
func (p *Pipeline) ResolveItem(itemName, familyID, variantName string, createVariant bool) error {
	inv, err := p.db.Inventory()
	if err != nil {
		return fmt.Errorf("pipeline: load inventory: %w", err)
	}
	if err := inventory.LearnAlias(inv, familyID, itemName, variantName, createVariant); err != nil {
		return err
	}

	var family *store.InventoryFamily
	for i := range inv {
		if inv[i].ID == familyID {
			family = &inv[i]
			break
		}
	}
	resolved := family.Name + " " + variantName

	orders, err := p.db.Orders()
	if err != nil {
		return fmt.Errorf("pipeline: load orders: %w", err)
	}
	lower := strings.ToLower(itemName)
	for i := range orders {
		for j := range orders[i].Items {
			if strings.ToLower(orders[i].Items[j].Name) == lower {
				orders[i].Items[j].Name = resolved
			}
		}
	}

	// The learned name must resolve to the renamed form too.
	if err := inventory.LearnAlias(inv, familyID, resolved, variantName, false); err != nil {
		return err
	}

	if err := p.db.SetInventory(inv); err != nil {
		return fmt.Errorf("pipeline: save inventory: %w", err)
	}
	return p.db.SetOrders(orders)
}

// History returns the persisted stock ledger.
func (p *Pipeline) History() ([]store.LedgerEntry, error) {
	return p.db.Ledger()
}

// Orders returns the persisted order set.
func (p *Pipeline) Orders() ([]store.Order, error) {
	return p.db.Orders()
}

// SetTracking records a tracking number on an order. Merge never touches it
// afterwards.
func (p *Pipeline) SetTracking(orderID, tracking string) error {
	return p.mutateOrder(orderID, func(o *store.Order) {
		o.Tracking = strings.TrimSpace(tracking)
	})
}

// SetNote replaces the note on an order.
func (p *Pipeline) SetNote(orderID, note string) error {
	return p.mutateOrder(orderID, func(o *store.Order) {
		o.Note = note
	})
}

// SetPartial flags or unflags an order as a partial shipment. Merge never
// touches the flag.
func (p *Pipeline) SetPartial(orderID string, partial bool) error {
	return p.mutateOrder(orderID, func(o *store.Order) {
		o.IsPartial = partial
	})
}

// SetItemQty updates one item's quantity, clamped to at least 1.
func (p *Pipeline) SetItemQty(orderID string, itemIndex, qty int) error {
	if qty < 1 {
		qty = 1
	}
	var indexErr error
	err := p.mutateOrder(orderID, func(o *store.Order) {
		if itemIndex < 0 || itemIndex >= len(o.Items) {
			indexErr = fmt.Errorf("pipeline: order %s has no item %d", orderID, itemIndex)
			return
		}
		o.Items[itemIndex].Qty = qty
	})
	if err != nil {
		return err
	}
	return indexErr
}

// AddItem appends an item to an order.
func (p *Pipeline) AddItem(orderID, name string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	return p.mutateOrder(orderID, func(o *store.Order) {
		o.Items = append(o.Items, store.Item{Name: name, Qty: qty})
	})
}

// RemoveItem removes one item from an order by index.
func (p *Pipeline) RemoveItem(orderID string, itemIndex int) error {
	var indexErr error
	err := p.mutateOrder(orderID, func(o *store.Order) {
		if itemIndex < 0 || itemIndex >= len(o.Items) {
			indexErr = fmt.Errorf("pipeline: order %s has no item %d", orderID, itemIndex)
			return
		}
		o.Items = append(o.Items[:itemIndex], o.Items[itemIndex+1:]...)
	})
	if err != nil {
		return err
	}
	return indexErr
}

// DeleteOrder removes an order outright.
func (p *Pipeline) DeleteOrder(orderID string) error {
	orders, err := p.db.Orders()
	if err != nil {
		return fmt.Errorf("pipeline: load orders: %w", err)
	}
	idx := findOrder(orders, orderID)
	if idx < 0 {
		return fmt.Errorf("pipeline: no order %q", orderID)
	}
	orders = append(orders[:idx], orders[idx+1:]...)
	return p.db.SetOrders(orders)
}

func (p *Pipeline) mutateOrder(orderID string, fn func(*store.Order)) error {
	orders, err := p.db.Orders()
	if err != nil {
		return fmt.Errorf("pipeline: load orders: %w", err)
	}
	idx := findOrder(orders, orderID)
	if idx < 0 {
		return fmt.Errorf("pipeline: no order %q", orderID)
	}
	fn(&orders[idx])
	return p.db.SetOrders(orders)
}

func findOrder(orders []store.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}
