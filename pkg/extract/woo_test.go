package extract

import (
	"testing"
)

const wooFixture = `New Order: #40123
You have received an order from John Doe.

Product Quantity Price
Widget A  2  $9.99
Widget B  1  $19.99
Mystery Bundle Deal
Subtotal: $39.97
Payment method: Credit card

Shipping address
John Doe
123 Main St
123 Main St
Anytown, CA
United States
john@example.com
(555) 123-4567

Note: please ship discreetly

Congratulations on the sale.
`

func TestWooScenario(t *testing.T) {
	orders := extractWoo(wooFixture, "", "msg-10", "Bio Nootropics", fixtureDate)
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]

	if o.ID != "40123" {
		t.Errorf("expected order id 40123, got %q", o.ID)
	}

	if len(o.Items) != 3 {
		t.Fatalf("expected 3 items, got %+v", o.Items)
	}
	if o.Items[0].Name != "Widget A (x2)" || o.Items[0].Qty != 2 {
		t.Errorf("expected Widget A (x2) qty 2, got %+v", o.Items[0])
	}
	if o.Items[1].Name != "Widget B" || o.Items[1].Qty != 1 {
		t.Errorf("expected Widget B qty 1, got %+v", o.Items[1])
	}
	// Row without the qty/price shape becomes a single-quantity item.
	if o.Items[2].Name != "Mystery Bundle Deal" || o.Items[2].Qty != 1 {
		t.Errorf("expected verbatim row item, got %+v", o.Items[2])
	}

	if o.Email != "john@example.com" {
		t.Errorf("expected email extracted, got %q", o.Email)
	}
	if o.Phone != "(555) 123-4567" {
		t.Errorf("expected phone extracted, got %q", o.Phone)
	}

	// Exact duplicates removed, first kept, order preserved; country and
	// contact lines dropped.
	want := []string{"John Doe", "123 Main St", "Anytown, CA"}
	if len(o.AddressLines) != len(want) {
		t.Fatalf("expected address %v, got %v", want, o.AddressLines)
	}
	for i := range want {
		if o.AddressLines[i] != want[i] {
			t.Errorf("address[%d] = %q, want %q", i, o.AddressLines[i], want[i])
		}
	}

	if o.Note != "please ship discreetly" {
		t.Errorf("expected note, got %q", o.Note)
	}
}

func TestWooHTMLNormalization(t *testing.T) {
	html := `<html><body>
<p>New Order: #40500</p>
<table>
<tr><td>Product</td><td>Quantity</td><td>Price</td></tr>
<tr><td>Widget C</td><td>3</td><td>&#36;5.00</td></tr>
<tr><td>Subtotal:</td><td></td><td>&#36;15.00</td></tr>
</table>
<p>Shipping address</p>
<p>Jane Roe<br>9 Oak Ave<br>Springfield, IL</p>
<p>Payment method: PayPal</p>
<a href="https://shop.example.com/wp-admin/post.php?post=40500&action=edit">edit</a>
</body></html>`

	orders := extractWoo("", html, "msg-11", "", fixtureDate)
	o := orders[0]

	if o.ID != "40500" {
		t.Errorf("expected order id 40500, got %q", o.ID)
	}
	if len(o.Items) != 1 || o.Items[0].Name != "Widget C (x3)" || o.Items[0].Qty != 3 {
		t.Errorf("unexpected items: %+v", o.Items)
	}
	if len(o.AddressLines) != 3 || o.AddressLines[0] != "Jane Roe" {
		t.Errorf("unexpected address: %v", o.AddressLines)
	}
	if o.OrderLink == "" {
		t.Error("expected admin edit link extracted")
	}
}

func TestWooMissingItemsFillSentinel(t *testing.T) {
	orders := extractWoo("New Order: #7 but no table here", "", "msg-12", "", fixtureDate)
	o := orders[0]
	if o.ID != "7" {
		t.Errorf("expected id 7, got %q", o.ID)
	}
	if len(o.Items) != 1 || o.Items[0].Name != Unknown {
		t.Errorf("expected Unknown sentinel item, got %+v", o.Items)
	}
}
