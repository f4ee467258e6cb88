package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shipdesk/shipdesk/internal/store"
)

var (
	// eBay bodies carry a labeled 12-hour timestamp.
	ebayDateLine = regexp.MustCompile(`Date:\s*(.*?(?:AM|PM))`)
	// WooCommerce HTML wraps the order date in a time tag; the text rendering
	// keeps a parenthesized day-month-year instead.
	wooTimeTag  = regexp.MustCompile(`(?i)<time[^>]*datetime="([^"]+)"`)
	wooTextDate = regexp.MustCompile(`\((\d{1,2}\s+[A-Za-z]+\s+\d{4})\)`)
)

// Layouts the storefront templates have been observed to emit.
var looseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006, 3:04 PM",
	"January 2, 2006 3:04 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 3:04 PM",
	"2 January 2006",
}

// parseLooseDate tries the known storefront date shapes. Zero time means no
// layout matched; callers fall back to the email header date.
func parseLooseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// bodyDateEBay extracts the in-body order timestamp from an eBay
// confirmation, or zero time when absent or unparseable.
func bodyDateEBay(text string) time.Time {
	if m := ebayDateLine.FindStringSubmatch(text); m != nil {
		return parseLooseDate(m[1])
	}
	return time.Time{}
}

// bodyDateWoo prefers the HTML time tag, then the parenthesized text date.
func bodyDateWoo(body, html string) time.Time {
	if html != "" {
		if m := wooTimeTag.FindStringSubmatch(html); m != nil {
			if t := parseLooseDate(m[1]); !t.IsZero() {
				return t
			}
		}
	}
	if m := wooTextDate.FindStringSubmatch(body); m != nil {
		return parseLooseDate(m[1])
	}
	return time.Time{}
}

var subjectProduct = regexp.MustCompile(`(?i)(?:sale for|order|item)\s+(.*)`)

// BackfillProduct fills Unknown item names from the email subject. A subject
// that is itself an order id carries no product and is skipped. A subject
// without a recognizable lead-in phrase is used whole.
func BackfillProduct(orders []store.Order, subject string) {
	subject = strings.TrimSpace(subject)
	if subject == "" || OrderIDPattern.MatchString(subject) {
		return
	}
	name := subject
	if m := subjectProduct.FindStringSubmatch(subject); m != nil {
		if v := cleanProduct(m[1]); v != "" {
			name = v
		}
	}
	for i := range orders {
		for j := range orders[i].Items {
			if n := orders[i].Items[j].Name; n == Unknown || n == "" {
				orders[i].Items[j].Name = name
			}
		}
	}
}
