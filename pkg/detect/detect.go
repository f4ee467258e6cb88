// Package detect classifies sanitized email content into one of the known
// storefront formats. Checks are ordered and short-circuit: digest emails may
// embed a forwarded original whose markers would otherwise misclassify them.
package detect

import (
	"regexp"
	"strings"
)

// Format identifies the source template an email body was produced by.
type Format int

const (
	FormatNone Format = iota
	FormatHTMLDigest
	FormatTextDigest
	FormatEBay
	FormatWoo
)

func (f Format) String() string {
	switch f {
	case FormatHTMLDigest:
		return "html-digest"
	case FormatTextDigest:
		return "text-digest"
	case FormatEBay:
		return "ebay"
	case FormatWoo:
		return "woo"
	default:
		return "none"
	}
}

var (
	htmlTable  = regexp.MustCompile(`(?i)<table\b`)
	ebayMarker = regexp.MustCompile(`(?i)made the sale for|\beBay\b`)
	wooMarker  = regexp.MustCompile(`(?i)New Order:? #\d+|\[Order #\d+\]|bionootropics\.com`)
)

// Detect classifies (sanitized text, raw HTML). FormatNone means the message
// is not one of the known templates and yields no orders.
func Detect(text, html string) Format {
	if html != "" && htmlTable.MatchString(html) && strings.Contains(html, "Order #") {
		return FormatHTMLDigest
	}
	if strings.Contains(text, "Order #") && strings.Contains(text, "Shipping Address") {
		return FormatTextDigest
	}
	if ebayMarker.MatchString(text) {
		return FormatEBay
	}
	if wooMarker.MatchString(text) {
		return FormatWoo
	}
	return FormatNone
}
