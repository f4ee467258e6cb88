package mailpart

import "testing"

func TestBodiesPrefersFirstOfEachType(t *testing.T) {
	root := Part{
		ContentType: "multipart/mixed",
		Parts: []Part{
			{ContentType: "multipart/alternative", Parts: []Part{
				{ContentType: "text/plain; charset=utf-8", Body: "plain one"},
				{ContentType: "text/html; charset=utf-8", Body: "<p>html one</p>"},
			}},
			{ContentType: "text/plain", Body: "plain two"},
			{ContentType: "text/html", Body: "<p>html two</p>"},
		},
	}

	text, html := root.Bodies()
	if text != "plain one" {
		t.Errorf("text = %q, want first plain leaf", text)
	}
	if html != "<p>html one</p>" {
		t.Errorf("html = %q, want first html leaf", html)
	}
}

func TestBodiesSingleLeaf(t *testing.T) {
	leaf := Part{ContentType: "text/html", Body: "<b>only</b>"}
	text, html := leaf.Bodies()
	if text != "" || html != "<b>only</b>" {
		t.Errorf("got (%q, %q)", text, html)
	}
}

func TestBodiesIgnoresAttachments(t *testing.T) {
	root := Part{
		ContentType: "multipart/mixed",
		Parts: []Part{
			{ContentType: "application/pdf", Body: "%PDF-..."},
			{ContentType: "text/plain", Body: "the body"},
		},
	}
	text, _ := root.Bodies()
	if text != "the body" {
		t.Errorf("text = %q", text)
	}
}

func TestSenderEmail(t *testing.T) {
	cases := []struct {
		author string
		want   string
	}{
		{"eBay <ebay@ebay.com>", "ebay@ebay.com"},
		{`"Bio Nootropics" <orders@bionootropics.com>`, "orders@bionootropics.com"},
		{"plain@example.com", "plain@example.com"},
		{"not an address at all", "not an address at all"},
		{"  MIXED@Example.COM  ", "mixed@example.com"},
	}
	for _, tc := range cases {
		if got := (Envelope{Author: tc.author}).SenderEmail(); got != tc.want {
			t.Errorf("SenderEmail(%q) = %q, want %q", tc.author, got, tc.want)
		}
	}
}
