package extract

import (
	"regexp"
	"strings"
)

// DefaultCountry is dropped from addresses; domestic labels never need it.
const DefaultCountry = "United States"

var (
	phoneLine = regexp.MustCompile(`^(\+|00)?[1-9][0-9 \-().]{6,}$`)
	// Residual query fragments from tracking links that survive HTML-to-text
	// conversion.
	trackingFragment = regexp.MustCompile(`(?i)tLabels=|tracknum=|trknbr=|%2F|%3D`)
	bareURL          = regexp.MustCompile(`(?i)^https?://`)
	headerPhrase     = regexp.MustCompile(`(?i)^(shipping address|your buyer's shipping details:?|shipping details:?|ship by:)$`)
)

// CleanAddressLines applies the shared address filter to raw extracted lines:
// noise, headers, contact details and the default country are dropped, order
// is preserved.
func CleanAddressLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case len(line) < 2:
		case strings.EqualFold(line, DefaultCountry):
		case phoneLine.MatchString(line):
		case strings.Contains(line, "@"):
		case trackingFragment.MatchString(line):
		case bareURL.MatchString(line):
		case headerPhrase.MatchString(line):
		default:
			out = append(out, line)
		}
	}
	return out
}

// dedupeLines removes exact duplicates, keeping the first occurrence.
func dedupeLines(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}

// nonEmptyLines splits text into trimmed lines, dropping blanks.
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
