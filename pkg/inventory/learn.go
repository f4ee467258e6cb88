package inventory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/orsinium-labs/stopwords"

	"github.com/shipdesk/shipdesk/internal/store"
)

var (
	keywordSplit = regexp.MustCompile(`[\s\-()]+`)
	english      = stopwords.MustGet("en")
)

// ErrUnknownFamily is returned when learning targets a family id that does
// not exist in the inventory.
var ErrUnknownFamily = fmt.Errorf("inventory: unknown family")

// LearnAlias records that itemName resolves to variantName on the given
// family. The alias key is owned exclusively: it is removed from every other
// family first. With createVariant set, a missing variant is added at zero
// stock. The lowercased name also joins the family's keywords so scored
// search finds it later.
func LearnAlias(inv []store.InventoryFamily, familyID, itemName, variantName string, createVariant bool) error {
	lower := strings.ToLower(itemName)

	var target *store.InventoryFamily
	for i := range inv {
		if inv[i].ID == familyID {
			target = &inv[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, familyID)
	}

	// An item name maps to exactly one target at a time.
	for i := range inv {
		delete(inv[i].Aliases, lower)
	}

	if target.FindVariant(variantName) == nil {
		if !createVariant {
			return fmt.Errorf("inventory: family %s has no variant %q", familyID, variantName)
		}
		target.Variants = append(target.Variants, store.Variant{Name: variantName, Count: 0})
	}

	if target.Aliases == nil {
		target.Aliases = map[string]string{}
	}
	target.Aliases[lower] = variantName

	if !containsString(target.Keywords, lower) {
		target.Keywords = append(target.Keywords, lower)
	}
	return nil
}

// NewFamily creates an inventory family from the resolver's "create new"
// path, seeded with one zero-stock variant and an alias for the item name
// that triggered it.
func NewFamily(itemName, storeName, name, variantName string) store.InventoryFamily {
	if storeName == "" {
		storeName = "General"
	}
	f := store.InventoryFamily{
		ID:       "GEN-" + strings.ToUpper(uuid.NewString()[:8]),
		Store:    storeName,
		Name:     name,
		Note:     "Created via resolver",
		Variants: []store.Variant{{Name: variantName, Count: 0}},
		Keywords: []string{strings.ToLower(name)},
		Aliases:  map[string]string{strings.ToLower(itemName): variantName},
	}
	return f
}

// GenerateKeywords derives search keywords for a family: its lowercased id,
// the significant words of its name and note, and every variant name.
// English stop words and words shorter than three characters are skipped.
// Existing keywords are preserved; the result is deduplicated in order.
func GenerateKeywords(f *store.InventoryFamily) []string {
	var out []string
	seen := map[string]bool{}
	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		out = append(out, kw)
	}

	add(f.ID)
	for _, word := range keywordSplit.Split(strings.ToLower(f.Name+" "+f.Note), -1) {
		if len(word) > 2 && !english.Contains(word) {
			add(word)
		}
	}
	for _, v := range f.Variants {
		add(v.Name)
	}
	for _, kw := range f.Keywords {
		add(kw)
	}
	return out
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
