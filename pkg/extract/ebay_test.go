package extract

import (
	"testing"
	"time"
)

var fixtureDate = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

const ebayFixture = `You made the sale for Superfort (pancreas) 60 caps
Order: placed on eBay
26-14177-87835
Your buyer's shipping details:
John Doe
123 Main St
Anytown, CA
United States
Ship by: Feb 5
VAT Paid GB 123 4567 89
`

func TestEBayScenario(t *testing.T) {
	orders := extractEBay(ebayFixture, "", "msg-1", "Bio Nootropics", fixtureDate)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]

	if o.ID != "26-14177-87835" {
		t.Errorf("expected order id 26-14177-87835, got %q", o.ID)
	}
	want := []string{"John Doe", "123 Main St", "Anytown, CA"}
	if len(o.AddressLines) != len(want) {
		t.Fatalf("expected address %v, got %v", want, o.AddressLines)
	}
	for i := range want {
		if o.AddressLines[i] != want[i] {
			t.Errorf("address[%d] = %q, want %q", i, o.AddressLines[i], want[i])
		}
	}
	if len(o.Items) != 1 || o.Items[0].Name != "Superfort (pancreas) 60 caps" {
		t.Errorf("unexpected items: %+v", o.Items)
	}
	if o.Note != "VAT Paid" {
		t.Errorf("expected VAT note, got %q", o.Note)
	}
	if o.Sender != "Bio Nootropics" {
		t.Errorf("expected sender store name, got %q", o.Sender)
	}
}

func TestEBayHeadingCaptureFallsBackToLabeledField(t *testing.T) {
	body := `You made the sale for Order details: see below
Order: 11-22222-33333
Capsule Count
60 caps
Your buyer's shipping details:
Jane Roe
9 Oak Ave
Ship by: soon
`
	orders := extractEBay(body, "", "msg-2", "", fixtureDate)
	o := orders[0]
	// The "sale for" capture contains a colon, so it is a heading and the
	// labeled field value wins.
	if o.Items[0].Name != "60 caps" {
		t.Errorf("expected labeled field product, got %q", o.Items[0].Name)
	}
}

func TestEBayMissingPatternsFillSentinels(t *testing.T) {
	orders := extractEBay("just some eBay text", "", "msg-3", "", fixtureDate)
	o := orders[0]
	if o.ID != Unknown {
		t.Errorf("expected Unknown id, got %q", o.ID)
	}
	if o.Items[0].Name != Unknown {
		t.Errorf("expected Unknown product, got %q", o.Items[0].Name)
	}
	if len(o.AddressLines) != 0 {
		t.Errorf("expected no address lines, got %v", o.AddressLines)
	}
}

func TestEBayOrderLinkFromHTML(t *testing.T) {
	html := `<a href="https://www.ebay.com/mesh/ord/details?orderid=26-14177-87835">view</a>`
	orders := extractEBay(ebayFixture, html, "msg-4", "", fixtureDate)
	if orders[0].OrderLink == "" {
		t.Error("expected order link extracted from HTML")
	}
}
