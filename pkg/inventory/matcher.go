// Package inventory resolves free-text item names to inventory families and
// variants, and learns aliases from manual resolutions. An exact alias hit
// always wins; keyword scoring is the fallback.
package inventory

import (
	"strings"

	"github.com/shipdesk/shipdesk/internal/store"
)

// Scoring weights. A family qualifies only with a positive family score.
const (
	scoreFamilyID = 10
	scoreKeyword  = 5
	scoreVariant  = 5
)

// Match is a resolved (family, variant) pair. Both pointers address the
// caller's inventory slice, so stock mutations through them stick.
type Match struct {
	Family  *store.InventoryFamily
	Variant *store.Variant
}

// MatchItem resolves an item name against the inventory. Returns nil when no
// family qualifies; callers must treat that as an explicit unresolved state.
func MatchItem(name string, inv []store.InventoryFamily) *Match {
	if name == "" {
		return nil
	}
	lower := strings.ToLower(name)

	if m := aliasLookup(lower, inv); m != nil {
		return m
	}
	return scoredLookup(lower, inv)
}

// aliasLookup scans families for an exact alias entry. The mapped variant
// must still exist on that family; a stale alias is skipped.
func aliasLookup(lower string, inv []store.InventoryFamily) *Match {
	for i := range inv {
		f := &inv[i]
		target, ok := f.Aliases[lower]
		if !ok {
			continue
		}
		if v := f.FindVariant(target); v != nil {
			return &Match{Family: f, Variant: v}
		}
	}
	return nil
}

// scoredLookup is the keyword fallback: family id containment scores 10,
// each contained keyword 5, a contained variant name another 5. The single
// strictly-highest (family, variant) pair wins; ties keep the first
// encountered. A qualifying family whose variants never took the lead while
// no candidate exists yet falls back to its first variant at family score.
func scoredLookup(lower string, inv []store.InventoryFamily) *Match {
	var best *Match
	maxScore := 0

	for i := range inv {
		f := &inv[i]
		familyScore := 0
		if strings.Contains(lower, strings.ToLower(f.ID)) {
			familyScore += scoreFamilyID
		}
		for _, kw := range f.Keywords {
			if kw != "" && strings.Contains(lower, kw) {
				familyScore += scoreKeyword
			}
		}
		if familyScore == 0 {
			continue
		}

		for j := range f.Variants {
			v := &f.Variants[j]
			score := familyScore
			if strings.Contains(lower, strings.ToLower(v.Name)) {
				score += scoreVariant
			}
			if score > maxScore {
				maxScore = score
				best = &Match{Family: f, Variant: v}
			}
		}
		if best == nil && len(f.Variants) > 0 {
			maxScore = familyScore
			best = &Match{Family: f, Variant: &f.Variants[0]}
		}
	}
	return best
}
