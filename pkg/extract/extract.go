// Package extract turns sanitized email bodies into structured orders.
// Each known storefront template has its own extractor; all of them share
// the address cleaner and the "Unknown" sentinel convention: a pattern that
// fails to match fills a sentinel and extraction continues with the
// remaining fields.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shipdesk/shipdesk/internal/store"
	"github.com/shipdesk/shipdesk/pkg/detect"
)

// Unknown is the sentinel for any field whose pattern did not match.
const Unknown = "Unknown"

// OrderIDPattern is the digest/manual order key shape: two digits, hyphen,
// five digits, hyphen, five digits.
var OrderIDPattern = regexp.MustCompile(`^\d{2}-\d{5}-\d{5}$`)

// Extract dispatches on the detected format and returns zero, one, or many
// orders. storeName is the sender-matched store label; emailDate backfills
// the order date when the body itself carries none.
func Extract(text, html, messageRef, storeName string, emailDate time.Time) []store.Order {
	switch detect.Detect(text, html) {
	case detect.FormatHTMLDigest:
		return extractHTMLDigest(html, messageRef, storeName, emailDate)
	case detect.FormatTextDigest:
		return extractTextDigest(text, messageRef, storeName, emailDate)
	case detect.FormatEBay:
		return extractEBay(text, html, messageRef, storeName, emailDate)
	case detect.FormatWoo:
		return extractWoo(text, html, messageRef, storeName, emailDate)
	default:
		return nil
	}
}

// newOrder builds the common envelope all extractors share.
func newOrder(id, messageRef, storeName string, date time.Time) store.Order {
	return store.Order{
		ID:         id,
		Date:       date,
		Sender:     storeName,
		MessageRef: messageRef,
		Status:     store.StatusActive,
	}
}

var (
	trailingJunk  = regexp.MustCompile(`[|\-]\s*$`)
	replyPrefix   = regexp.MustCompile(`(?i)^(?:Fwd|Re):\s*`)
	variantSuffix = regexp.MustCompile(`(?i)((?:\d+\s*[xX]\s*)?\d+\s*(?:g|mg|kg|mcg|ml|oz|lb|caps?|tablets?|softgels?|pills?))\b`)
)

// cleanProduct trims reply prefixes and dangling separators from a captured
// product phrase.
func cleanProduct(name string) string {
	name = strings.TrimSpace(name)
	name = replyPrefix.ReplaceAllString(name, "")
	name = strings.TrimSpace(trailingJunk.ReplaceAllString(name, ""))
	return name
}

// DetectVariant returns a size/count phrase found in free text, e.g. "60
// caps" or "2x100g", or "" when none is present. Used to suggest variant
// names when resolving an item to a new inventory entry.
func DetectVariant(name string) string {
	if m := variantSuffix.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
