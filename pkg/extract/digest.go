package extract

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/shipdesk/shipdesk/internal/store"
)

// Digest emails enumerate many orders in one message, either as an HTML
// table or as a plain-text run of order blocks. Both variants default the
// sender label to "eBay" when sender-based store detection found no match.

const digestDefaultSender = "eBay"

var (
	digestOrderToken = regexp.MustCompile(`\d{2}-\d{5}-\d{5}`)
	dateStampToken   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	trackingMarker   = regexp.MustCompile(`(?i)^(tracking|1Z[0-9A-Z]+)`)
	// A size/count continuation under the product line means the product
	// spills onto the next line.
	multiLineVariant = regexp.MustCompile(`(?i)^(?:\d+\s*[xX]\s*)?\d+\s*(?:g|mg|kg|mcg|ml|oz|lb|caps?|tablets?|softgels?|pills?)\b`)
)

// extractHTMLDigest walks table rows of the digest markup. A row qualifies
// only with at least three cells whose first cell is an order-id token;
// columns 0/1/2 map to order id, product, and address.
func extractHTMLDigest(markup, messageRef, storeName string, emailDate time.Time) []store.Order {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	if storeName == "" {
		storeName = digestDefaultSender
	}

	var orders []store.Order
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := rowCells(n)
			if o, ok := digestRowOrder(cells, messageRef, storeName, emailDate); ok {
				orders = append(orders, o)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return orders
}

// rowCells collects the flattened text of each td/th under a row.
func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, cellText(c))
		}
	}
	return cells
}

// cellText renders a cell to text, turning <br> into newlines so multi-line
// addresses survive.
func cellText(cell *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "br" || n.Data == "p" || n.Data == "div") {
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(cell)
	return strings.TrimSpace(b.String())
}

func digestRowOrder(cells []string, messageRef, storeName string, emailDate time.Time) (store.Order, bool) {
	if len(cells) < 3 {
		return store.Order{}, false
	}
	id := strings.TrimSpace(cells[0])
	if !OrderIDPattern.MatchString(id) {
		return store.Order{}, false
	}
	order := newOrder(id, messageRef, storeName, emailDate)
	product := strings.TrimSpace(cells[1])
	if product == "" {
		product = Unknown
	}
	order.Items = []store.Item{{Name: product, Qty: 1}}
	order.AddressLines = CleanAddressLines(nonEmptyLines(cells[2]))
	return order, true
}

// extractTextDigest splits the body at every position where an order-id
// token begins (lookahead split, the token stays with its block) and parses
// each block independently.
func extractTextDigest(text, messageRef, storeName string, emailDate time.Time) []store.Order {
	if storeName == "" {
		storeName = digestDefaultSender
	}

	starts := digestOrderToken.FindAllStringIndex(text, -1)
	var orders []store.Order
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if o, ok := textDigestBlock(text[loc[0]:end], messageRef, storeName, emailDate); ok {
			orders = append(orders, o)
		}
	}
	return orders
}

func textDigestBlock(block, messageRef, storeName string, emailDate time.Time) (store.Order, bool) {
	lines := nonEmptyLines(block)
	if len(lines) == 0 {
		return store.Order{}, false
	}
	id := digestOrderToken.FindString(lines[0])
	if id == "" {
		return store.Order{}, false
	}
	order := newOrder(id, messageRef, storeName, emailDate)

	product := Unknown
	productEnd := 1
	if len(lines) > 1 {
		product = lines[1]
		productEnd = 2
		if len(lines) > 2 && multiLineVariant.MatchString(lines[2]) {
			product = lines[2]
			productEnd = 3
		}
	}
	order.Items = []store.Item{{Name: product, Qty: 1}}

	var addr []string
	for _, line := range lines[productEnd:] {
		if dateStampToken.MatchString(line) || trackingMarker.MatchString(line) {
			break
		}
		addr = append(addr, line)
	}
	order.AddressLines = CleanAddressLines(addr)
	return order, true
}
