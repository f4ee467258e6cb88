// Package mailpart models the part tree of a fetched message and picks the
// bodies worth extracting from. Fetching itself lives with the caller; this
// package only cares about structure.
package mailpart

import (
	"net/mail"
	"strings"
	"time"
)

// Part is one node of a MIME-style part tree. A leaf carries a body and a
// content type; a branch carries children. multipart/alternative and
// multipart/mixed both collapse into the same shape here.
type Part struct {
	ContentType string `json:"contentType"`
	Body        string `json:"body,omitempty"`
	Parts       []Part `json:"parts,omitempty"`
}

// Bodies walks the tree depth-first and returns the first text/plain leaf
// body and the first text/html leaf body. Either may be empty; extraction
// prefers the plain text and keeps the HTML for format-specific rules.
func (p *Part) Bodies() (text, html string) {
	p.walk(&text, &html)
	return text, html
}

func (p *Part) walk(text, html *string) {
	if len(p.Parts) == 0 {
		ct := strings.ToLower(p.ContentType)
		switch {
		case *text == "" && strings.HasPrefix(ct, "text/plain"):
			*text = p.Body
		case *html == "" && strings.HasPrefix(ct, "text/html"):
			*html = p.Body
		}
		return
	}
	for i := range p.Parts {
		if *text != "" && *html != "" {
			return
		}
		p.Parts[i].walk(text, html)
	}
}

// Envelope is the header summary of a message.
type Envelope struct {
	Subject   string    `json:"subject"`
	Author    string    `json:"author"`
	Date      time.Time `json:"date"`
	MessageID string    `json:"messageId"`
}

// SenderEmail extracts the bare address from the author header, which
// usually reads `Display Name <user@host>`. A header that does not parse is
// returned lowercased as-is so registry matching can still try substring
// rules against it.
func (e Envelope) SenderEmail() string {
	addr, err := mail.ParseAddress(e.Author)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(e.Author))
	}
	return strings.ToLower(addr.Address)
}
