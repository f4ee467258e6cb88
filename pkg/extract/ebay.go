package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shipdesk/shipdesk/internal/store"
)

var (
	ebayOrderID = regexp.MustCompile(`(?s)Order:.*?([\d-]{10,})`)
	ebaySaleFor = regexp.MustCompile(`(?i)sale for\s+(.+)`)
	// Structured variant-labeled field: label line followed by its value on
	// the next non-blank line.
	ebayLabeledField = regexp.MustCompile(`(?i)(?:Capsule Count|Size|Variations?)\s*\n\s*(.+)`)
	ebayAddress      = regexp.MustCompile(`(?is)shipping details:\s*(.*?)\s*Ship by:`)
	ebayVATMarker    = regexp.MustCompile(`(?i)VAT Paid|IOS\s*ID`)
	ebayOrderLink    = regexp.MustCompile(`https?://www\.ebay\.com/[^\s"'<>]*(?:ord|order)[^\s"'<>]*`)
	markupTag        = regexp.MustCompile(`<[^>]*>`)
)

// extractEBay parses an eBay sale-confirmation body. Always yields exactly
// one order; unmatched fields carry the Unknown sentinel.
func extractEBay(text, html, messageRef, storeName string, emailDate time.Time) []store.Order {
	order := newOrder(Unknown, messageRef, storeName, emailDate)
	if t := bodyDateEBay(text); !t.IsZero() {
		order.Date = t
	}

	if m := ebayOrderID.FindStringSubmatch(text); m != nil {
		order.ID = strings.TrimSpace(m[1])
	}

	product := Unknown
	if m := ebaySaleFor.FindStringSubmatch(text); m != nil {
		captured := cleanProduct(m[1])
		// A capture with a colon is a heading, not a product name.
		if strings.Contains(captured, ":") {
			captured = ""
		}
		if captured != "" {
			product = captured
		}
	}
	if product == Unknown {
		if m := ebayLabeledField.FindStringSubmatch(text); m != nil {
			if v := cleanProduct(m[1]); v != "" && len(v) < 50 {
				product = v
			}
		}
	} else if v := DetectVariant(product); v == "" {
		// Product line without a size: append the labeled variant if one is
		// declared elsewhere in the body.
		if m := ebayLabeledField.FindStringSubmatch(text); m != nil {
			if lv := cleanProduct(m[1]); lv != "" && len(lv) < 50 {
				product = product + " " + lv
			}
		}
	}
	order.Items = []store.Item{{Name: product, Qty: 1}}

	if m := ebayAddress.FindStringSubmatch(text); m != nil {
		block := markupTag.ReplaceAllString(m[1], " ")
		order.AddressLines = CleanAddressLines(nonEmptyLines(block))
	}

	if ebayVATMarker.MatchString(text) {
		order.Note = "VAT Paid"
	}

	if html != "" {
		if link := ebayOrderLink.FindString(html); link != "" {
			order.OrderLink = link
		}
	}

	return []store.Order{order}
}
