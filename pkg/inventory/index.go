package inventory

import (
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/shipdesk/shipdesk/internal/store"
)

// patternKind says what a compiled pattern represents for scoring.
type patternKind int

const (
	kindFamilyID patternKind = iota
	kindKeyword
	kindVariant
)

type patternOwner struct {
	family  int // index into families
	variant int // index into family variants, kindVariant only
	kind    patternKind
}

// Matcher is a compiled inventory index. It resolves names with the exact
// MatchItem semantics but finds contained ids/keywords/variant names with a
// single Aho-Corasick scan instead of per-family substring checks, which
// matters once the inventory grows past a handful of families.
type Matcher struct {
	families []store.InventoryFamily

	ac           *ahocorasick.Automaton
	patternIndex map[string]int
	owners       [][]patternOwner
	patterns     []string
}

// NewMatcher compiles an index over the given inventory. The slice is
// retained; recompile after structural inventory changes.
func NewMatcher(inv []store.InventoryFamily) (*Matcher, error) {
	m := &Matcher{
		families:     inv,
		patternIndex: make(map[string]int),
	}

	add := func(surface string, owner patternOwner) {
		key := strings.ToLower(strings.TrimSpace(surface))
		if key == "" {
			return
		}
		idx, ok := m.patternIndex[key]
		if !ok {
			idx = len(m.patterns)
			m.patterns = append(m.patterns, key)
			m.patternIndex[key] = idx
			m.owners = append(m.owners, nil)
		}
		m.owners[idx] = append(m.owners[idx], owner)
	}

	for i := range inv {
		f := &inv[i]
		add(f.ID, patternOwner{family: i, kind: kindFamilyID})
		for _, kw := range f.Keywords {
			add(kw, patternOwner{family: i, kind: kindKeyword})
		}
		for j := range f.Variants {
			add(f.Variants[j].Name, patternOwner{family: i, variant: j, kind: kindVariant})
		}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(m.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	m.ac = ac
	return m, nil
}

// Match resolves name with alias priority, then Aho-Corasick keyword
// scoring. Same contract as MatchItem.
func (m *Matcher) Match(name string) *Match {
	if name == "" || m.ac == nil {
		return nil
	}
	lower := strings.ToLower(name)

	if hit := aliasLookup(lower, m.families); hit != nil {
		return hit
	}

	// One scan finds every contained pattern; FindAllOverlapping reports
	// shorter patterns hidden inside longer ones too.
	found := make(map[int]bool)
	for _, hit := range m.ac.FindAllOverlapping([]byte(lower)) {
		found[hit.PatternID] = true
	}
	if len(found) == 0 {
		return nil
	}

	// Per family: which scoring contributions were seen. A pattern counts
	// once no matter how often it occurs, matching the containment check.
	type familyHits struct {
		id       bool
		keywords map[string]bool
		variants map[int]bool
	}
	hits := make(map[int]*familyHits)
	for idx := range found {
		for _, owner := range m.owners[idx] {
			h := hits[owner.family]
			if h == nil {
				h = &familyHits{keywords: map[string]bool{}, variants: map[int]bool{}}
				hits[owner.family] = h
			}
			switch owner.kind {
			case kindFamilyID:
				h.id = true
			case kindKeyword:
				h.keywords[m.patterns[idx]] = true
			case kindVariant:
				h.variants[owner.variant] = true
			}
		}
	}

	// Encounter order over families, strictly-greater wins: identical
	// tie-break behavior to the plain scan.
	var best *Match
	maxScore := 0
	for i := range m.families {
		h := hits[i]
		if h == nil {
			continue
		}
		f := &m.families[i]
		familyScore := 0
		if h.id {
			familyScore += scoreFamilyID
		}
		familyScore += len(h.keywords) * scoreKeyword
		if familyScore == 0 {
			continue
		}

		for j := range f.Variants {
			score := familyScore
			if h.variants[j] {
				score += scoreVariant
			}
			if score > maxScore {
				maxScore = score
				best = &Match{Family: f, Variant: &f.Variants[j]}
			}
		}
		if best == nil && len(f.Variants) > 0 {
			maxScore = familyScore
			best = &Match{Family: f, Variant: &f.Variants[0]}
		}
	}
	return best
}
