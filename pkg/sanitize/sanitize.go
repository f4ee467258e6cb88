// Package sanitize normalizes raw email bodies before format detection.
// Every step is idempotent on already-clean input.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	qpEscape    = regexp.MustCompile(`=([0-9A-Fa-f]{2})`)
	qpSoftBreak = regexp.MustCompile(`=\r?\n`)
	quoteMarker = regexp.MustCompile(`(?m)^>+[ \t]*`)
	// Bracket-wrapped autolinks and inline-image placeholders left behind by
	// text renderings of HTML mail.
	bracketURL   = regexp.MustCompile(`\[(?:https?://[^\]\s]+|image:[^\]]*|cid:[^\]]*)\]`)
	crlf         = regexp.MustCompile(`\r\n?`)
)

// Clean normalizes a raw body (text or HTML fragment) for parsing.
func Clean(raw string) string {
	body := raw
	if hasQuotedPrintable(body) {
		body = decodeQuotedPrintable(body)
	}
	body = quoteMarker.ReplaceAllString(body, "")
	body = bracketURL.ReplaceAllString(body, "")
	body = crlf.ReplaceAllString(body, "\n")
	body = strings.ReplaceAll(body, "\t", " ")
	return body
}

// hasQuotedPrintable reports whether the body carries quoted-printable
// markers. "=3D" and "=20" are the escapes that appear in practice; a soft
// line break is also decisive.
func hasQuotedPrintable(body string) bool {
	return strings.Contains(body, "=3D") ||
		strings.Contains(body, "=20") ||
		qpSoftBreak.MatchString(body)
}

// decodeQuotedPrintable replaces =XX escapes with the corresponding byte and
// removes soft line breaks. Lenient by design: anything that does not look
// like an escape passes through unchanged.
func decodeQuotedPrintable(body string) string {
	body = qpSoftBreak.ReplaceAllString(body, "")
	return qpEscape.ReplaceAllStringFunc(body, func(m string) string {
		n, err := strconv.ParseUint(m[1:], 16, 8)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
}
