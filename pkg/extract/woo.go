package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shipdesk/shipdesk/internal/store"
)

var (
	wooOrderID     = regexp.MustCompile(`(?i)(?:New Order:|Order)\s*#?(\d+)`)
	wooItemsHeader = regexp.MustCompile(`(?i)Product\s+Quantity\s+Price`)
	wooItemsEnd    = regexp.MustCompile(`(?i)^(Subtotal:|Shipping:|Payment method:)`)
	wooItemRow     = regexp.MustCompile(`^(.*?)\s+(\d+)\s+[$€£]`)
	wooAddress     = regexp.MustCompile(`(?is)Shipping address\s*(.*?)(?:Congratulations|Billing address|Note:|Payment method:)`)
	wooNote        = regexp.MustCompile(`(?is)Note:\s*(.*?)(?:\n\s*\n|Congratulations|Billing address|Payment method:|$)`)
	wooOrderLink   = regexp.MustCompile(`https?://[^\s"'<>]+/wp-admin/post\.php\?post=\d+&action=edit[^\s"'<>]*`)
	emailAddr      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// North-American phone shape, optionally with a country prefix.
	naPhone = regexp.MustCompile(`(?:\+?1[ .\-]?)?\(?\d{3}\)?[ .\-]?\d{3}[ .\-]?\d{4}`)
)

// extractWoo parses a WooCommerce new-order notification. The raw HTML is
// flattened to text first; plain-text bodies are used as-is.
func extractWoo(text, html, messageRef, storeName string, emailDate time.Time) []store.Order {
	body := text
	if html != "" {
		body = FlattenHTML(html)
	}

	order := newOrder(Unknown, messageRef, storeName, emailDate)
	if t := bodyDateWoo(body, html); !t.IsZero() {
		order.Date = t
	}

	if m := wooOrderID.FindStringSubmatch(body); m != nil {
		order.ID = m[1]
	}

	order.Items = wooItems(body)
	if len(order.Items) == 0 {
		order.Items = []store.Item{{Name: Unknown, Qty: 1}}
	}

	if m := wooAddress.FindStringSubmatch(body); m != nil {
		block := m[1]
		if email := emailAddr.FindString(block); email != "" {
			order.Email = email
			block = strings.Replace(block, email, "", 1)
		}
		if phone := naPhone.FindString(block); phone != "" {
			order.Phone = strings.TrimSpace(phone)
			block = strings.Replace(block, phone, "", 1)
		}
		lines := dedupeLines(nonEmptyLines(block))
		order.AddressLines = CleanAddressLines(lines)
	}

	if m := wooNote.FindStringSubmatch(body); m != nil {
		order.Note = strings.TrimSpace(m[1])
	}

	if html != "" {
		if link := wooOrderLink.FindString(html); link != "" {
			order.OrderLink = link
		}
	}

	return []store.Order{order}
}

// wooItems parses the block between the "Product / Quantity / Price" header
// row and the first terminator row. A row matching the trailing
// "<name> <qty> <currency><price>" shape contributes its quantity; any other
// row becomes a single-quantity item verbatim.
func wooItems(body string) []store.Item {
	loc := wooItemsHeader.FindStringIndex(body)
	if loc == nil {
		return nil
	}

	var items []store.Item
	for _, line := range nonEmptyLines(body[loc[1]:]) {
		if wooItemsEnd.MatchString(line) {
			break
		}
		if m := wooItemRow.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			qty := atoiOr(m[2], 1)
			if qty > 1 {
				name = name + " (x" + m[2] + ")"
			}
			items = append(items, store.Item{Name: name, Qty: qty})
		} else {
			items = append(items, store.Item{Name: line, Qty: 1})
		}
	}
	return items
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		return fallback
	}
	return n
}
