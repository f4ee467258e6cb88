package extract

import (
	"testing"
)

func TestManualPhoneCueSplit(t *testing.T) {
	text := `John Doe
123 Main St
Anytown, CA
+1 555 123 4567
Superfort (pancreas)
60 caps`

	o := ExtractManual(text, "26-14177-87835", "msg-30", "Manual Entry", fixtureDate)
	if o.ID != "26-14177-87835" {
		t.Errorf("unexpected id %q", o.ID)
	}
	// Product lines after the cue join with " + ".
	if o.Items[0].Name != "Superfort (pancreas) + 60 caps" {
		t.Errorf("unexpected product %q", o.Items[0].Name)
	}
	if len(o.AddressLines) != 3 || o.AddressLines[0] != "John Doe" {
		t.Errorf("unexpected address %v", o.AddressLines)
	}
}

func TestManualCountryCueSplit(t *testing.T) {
	text := `Jane Roe
9 Oak Ave
Toronto, ON Canada
Thymus 20`

	o := ExtractManual(text, "Manual Entry", "", "", fixtureDate)
	if o.Items[0].Name != "Thymus 20" {
		t.Errorf("unexpected product %q", o.Items[0].Name)
	}
	if len(o.AddressLines) != 3 || o.AddressLines[2] != "Toronto, ON Canada" {
		t.Errorf("unexpected address %v", o.AddressLines)
	}
}

func TestManualNoCueUsesLastLine(t *testing.T) {
	text := `Jane Roe
9 Oak Ave
Thymus 20`

	o := ExtractManual(text, "Manual Entry", "", "", fixtureDate)
	if o.Items[0].Name != "Thymus 20" {
		t.Errorf("unexpected product %q", o.Items[0].Name)
	}
	if len(o.AddressLines) != 2 {
		t.Errorf("unexpected address %v", o.AddressLines)
	}
}

func TestManualEmptyText(t *testing.T) {
	o := ExtractManual("", "Manual Entry", "", "", fixtureDate)
	if o.Items[0].Name != Unknown {
		t.Errorf("expected Unknown product, got %q", o.Items[0].Name)
	}
}

func TestCleanAddressLines(t *testing.T) {
	in := []string{
		"John Doe",
		"x", // too short
		"United States",
		"+1 555 123 4567",
		"john@example.com",
		"https://tools.usps.com/go/TrackConfirmAction?tLabels=940011",
		"Shipping address",
		"shipping details:",
		"Ship by:",
		"123 Main St",
	}
	got := CleanAddressLines(in)
	want := []string{"John Doe", "123 Main St"}
	if len(got) != len(want) {
		t.Fatalf("CleanAddressLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectVariant(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Superfort (pancreas) 60 caps", "60 caps"},
		{"Epitalon 2x100mg", "2x100mg"},
		{"Thymus extract", ""},
	}
	for _, tt := range tests {
		if got := DetectVariant(tt.in); got != tt.want {
			t.Errorf("DetectVariant(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
