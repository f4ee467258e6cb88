package inventory

import (
	"strings"
	"testing"

	"github.com/shipdesk/shipdesk/internal/store"
)

func TestLearnAliasMovesOwnership(t *testing.T) {
	inv := testInventory()
	inv[0].Aliases["mystery item"] = "20"

	if err := LearnAlias(inv, "B-2", "Mystery Item", "20", false); err != nil {
		t.Fatalf("LearnAlias failed: %v", err)
	}

	if _, ok := inv[0].Aliases["mystery item"]; ok {
		t.Error("alias must be removed from the previous owner")
	}
	if inv[1].Aliases["mystery item"] != "20" {
		t.Errorf("alias not set on target, got %v", inv[1].Aliases)
	}
	if !containsString(inv[1].Keywords, "mystery item") {
		t.Error("learned name must join the family keywords")
	}

	m := MatchItem("Mystery Item", inv)
	if m == nil || m.Family.ID != "B-2" {
		t.Errorf("learned alias must resolve to B-2, got %+v", m)
	}
}

func TestLearnAliasCreatesVariant(t *testing.T) {
	inv := testInventory()

	if err := LearnAlias(inv, "A-1", "Superfort mega pack", "120s", true); err != nil {
		t.Fatalf("LearnAlias failed: %v", err)
	}

	v := inv[0].FindVariant("120s")
	if v == nil {
		t.Fatal("expected variant 120s to be created")
	}
	if v.Count != 0 {
		t.Errorf("new variant must start at zero stock, got %d", v.Count)
	}
}

func TestLearnAliasRejectsMissingVariantWithoutCreate(t *testing.T) {
	inv := testInventory()
	if err := LearnAlias(inv, "A-1", "x", "nope", false); err == nil {
		t.Error("expected error for missing variant without create")
	}
}

func TestLearnAliasUnknownFamily(t *testing.T) {
	inv := testInventory()
	if err := LearnAlias(inv, "Z-9", "x", "20", false); err == nil {
		t.Error("expected error for unknown family")
	}
}

func TestNewFamily(t *testing.T) {
	f := NewFamily("Epitalon 100mg spray", "", "Epitalon", "100mg")

	if !strings.HasPrefix(f.ID, "GEN-") {
		t.Errorf("expected generated id, got %q", f.ID)
	}
	if f.Store != "General" {
		t.Errorf("empty store must default to General, got %q", f.Store)
	}
	if f.Aliases["epitalon 100mg spray"] != "100mg" {
		t.Errorf("expected alias for originating name, got %v", f.Aliases)
	}
	if len(f.Variants) != 1 || f.Variants[0].Count != 0 {
		t.Errorf("expected one zero-stock variant, got %v", f.Variants)
	}
}

func TestGenerateKeywords(t *testing.T) {
	f := &store.InventoryFamily{
		ID:       "A-1",
		Name:     "Superfort (pancreas) for the gut",
		Note:     "GI sample",
		Variants: []store.Variant{{Name: "60s"}},
		Keywords: []string{"legacy"},
	}

	got := GenerateKeywords(f)

	// "gut" survives: three characters and not a stop word.
	for _, want := range []string{"a-1", "superfort", "pancreas", "gut", "sample", "60s", "legacy"} {
		if !containsString(got, want) {
			t.Errorf("expected keyword %q in %v", want, got)
		}
	}
	// Stop words and words of two characters or fewer never become keywords.
	for _, reject := range []string{"for", "the", "gi"} {
		if containsString(got, reject) {
			t.Errorf("keyword %q should have been filtered", reject)
		}
	}
}
