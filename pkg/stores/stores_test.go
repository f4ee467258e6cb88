package stores

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shipdesk/shipdesk/internal/store"
)

func testRegistry() *Registry {
	return NewRegistry([]store.StoreConfig{
		{Name: "Bio Nootropics", Email: "bionootropics@gmail.com", Signature: "Thank you,\nBio Nootropics Team"},
		{Name: "Peptide Amino", Email: "bmntherapy@gmail.com"},
	})
}

func TestMatchSender(t *testing.T) {
	r := testRegistry()
	cases := []struct {
		email string
		want  string
	}{
		{"bionootropics@gmail.com", "Bio Nootropics"},
		{"BIONOOTROPICS@GMAIL.COM", "Bio Nootropics"},
		{"fwd+bmntherapy@gmail.com", "Peptide Amino"},
		{"nobody@example.com", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := r.MatchSender(tc.email); got != tc.want {
			t.Errorf("MatchSender(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestMatchSenderFallback(t *testing.T) {
	r := testRegistry()
	r.SetFallback("Bio Nootropics")

	if got := r.MatchSender("nobody@example.com"); got != "Bio Nootropics" {
		t.Errorf("miss with fallback = %q, want Bio Nootropics", got)
	}
	if got := r.MatchSender(""); got != "Bio Nootropics" {
		t.Errorf("empty sender with fallback = %q, want Bio Nootropics", got)
	}
	// Configured senders still win over the fallback.
	if got := r.MatchSender("bmntherapy@gmail.com"); got != "Peptide Amino" {
		t.Errorf("matched sender = %q, want Peptide Amino", got)
	}
}

func TestSignatureFallsBackToDefault(t *testing.T) {
	r := testRegistry()
	if got := r.Signature("Bio Nootropics"); got != "Thank you,\nBio Nootropics Team" {
		t.Errorf("got %q", got)
	}
	if got := r.Signature("Peptide Amino"); got != DefaultSignature {
		t.Errorf("store without signature must use default, got %q", got)
	}
	if got := r.Signature("No Such Store"); got != DefaultSignature {
		t.Errorf("unknown store must use default, got %q", got)
	}
}

func TestLoadSeedAcceptsCommentsAndTrailingCommas(t *testing.T) {
	seed := `[
	// primary storefront
	{
		"name": "Bio Nootropics",
		"email": "bionootropics@gmail.com",
		"signature": "Thank you,\nBio Nootropics Team",
	},
	{"name": "", "email": "ignored@example.com"},
]`
	path := filepath.Join(t.TempDir(), "stores.hujson")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	cfgs, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(cfgs) != 1 {
		t.Fatalf("got %d configs, want 1 (nameless entry dropped)", len(cfgs))
	}
	if cfgs[0].Name != "Bio Nootropics" || cfgs[0].Email != "bionootropics@gmail.com" {
		t.Errorf("cfg = %+v", cfgs[0])
	}
}

func TestLoadSeedMissingFile(t *testing.T) {
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "absent.hujson")); err == nil {
		t.Error("expected error for missing seed file")
	}
}

func TestCarrierFor(t *testing.T) {
	cases := []struct {
		number  string
		carrier string
	}{
		{"1Z999AA10123456784", "UPS"},
		{"1z999aa10123456784", "UPS"},
		{"1234567890", "DHL"},
		{"123456789012", "FedEx"},
		{"12345678901234", "FedEx"},
		{"9400 1000 0000 0000 0000 00", "USPS"},
		{"RB123456789CN", "USPS"},
	}
	for _, tc := range cases {
		got := CarrierFor(tc.number)
		if got.Name != tc.carrier {
			t.Errorf("CarrierFor(%q) = %s, want %s", tc.number, got.Name, tc.carrier)
		}
		if got.URL == "" {
			t.Errorf("CarrierFor(%q) returned empty URL", tc.number)
		}
	}
}
