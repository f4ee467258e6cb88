package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shipdesk/shipdesk/internal/store"
)

// Country and region names that end an address block in free text.
var countryCue = regexp.MustCompile(`(?i)United States|Canada|UK|Australia|Puerto Rico`)

// ExtractManual parses arbitrary unlabelled text pasted or selected by the
// operator. Lines are scanned in reverse for an address-terminator cue (a
// phone-shaped line or a country name); everything at or before the cue is
// address, everything after is the product description. Without a cue the
// final line is the product. key becomes the order id, typically "Manual
// Entry" or a subject that matched the digest order-id shape.
func ExtractManual(text, key, messageRef, storeName string, date time.Time) store.Order {
	order := newOrder(key, messageRef, storeName, date)

	lines := nonEmptyLines(text)
	splitIdx := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if phoneLine.MatchString(lines[i]) || countryCue.MatchString(lines[i]) {
			splitIdx = i
			break
		}
	}

	product := Unknown
	var addr []string
	switch {
	case splitIdx != -1 && splitIdx < len(lines)-1:
		addr = lines[:splitIdx+1]
		product = strings.Join(lines[splitIdx+1:], " + ")
	case len(lines) > 0:
		product = lines[len(lines)-1]
		addr = lines[:len(lines)-1]
	}

	order.Items = []store.Item{{Name: product, Qty: 1}}
	order.AddressLines = CleanAddressLines(addr)
	return order
}
