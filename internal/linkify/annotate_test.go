package linkify

import (
	"testing"
)

func newTestAnnotator(t *testing.T) *Annotator {
	t.Helper()
	return NewAnnotator(newTestClassifier(t))
}

func requireText(t *testing.T, tok Token, want string) {
	t.Helper()
	if tok.Kind != TokenText || tok.Text != want {
		t.Fatalf("expected text %q, got %#v", want, tok)
	}
}

func requireLink(t *testing.T, tok Token, dest DestinationKind, label string) ClassifiedLink {
	t.Helper()
	if tok.Kind != TokenLink || tok.Link == nil {
		t.Fatalf("expected link token, got %#v", tok)
	}
	if tok.Link.Destination != dest || tok.Link.DisplayLabel != label {
		t.Fatalf("expected %s link %q, got %s %q", dest, label, tok.Link.Destination, tok.Link.DisplayLabel)
	}
	if len(tok.Children) != 1 || tok.Children[0].Text != label {
		t.Fatalf("expected link children to carry the label, got %#v", tok.Children)
	}
	return *tok.Link
}

func TestAnnotateAliasAndEmail(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("Visit /corporate or email incompany@furtherenglish.com")
	if len(got) != 4 {
		t.Fatalf("expected 4 tokens, got %#v", got)
	}
	requireText(t, got[0], "Visit ")
	internal := requireLink(t, got[1], DestinationInternal, "/corporate-services")
	if internal.CanonicalPath != "/corporate-services" {
		t.Fatalf("unexpected canonical path %q", internal.CanonicalPath)
	}
	requireText(t, got[2], " or email ")
	contact := requireLink(t, got[3], DestinationContact, "Email")
	if contact.RawValue != "mailto:incompany@furtherenglish.com" {
		t.Fatalf("unexpected raw value %q", contact.RawValue)
	}
}

func TestAnnotateWhatsAppNumber(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("whatsapp: 54 9 11 3582 1240")
	if len(got) != 2 {
		t.Fatalf("expected 2 tokens, got %#v", got)
	}
	requireText(t, got[0], "whatsapp: ")
	link := requireLink(t, got[1], DestinationExternal, "WhatsApp")
	if link.RawValue != "https://wa.me/5491135821240" {
		t.Fatalf("unexpected raw value %q", link.RawValue)
	}
}

func TestAnnotateEmphasisAndMarkdown(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("**Important:** see [FAQ](/faq) now")
	if len(got) != 4 {
		t.Fatalf("expected 4 tokens, got %#v", got)
	}
	if got[0].Kind != TokenEmphasis || len(got[0].Children) != 1 {
		t.Fatalf("expected emphasis with one child, got %#v", got[0])
	}
	requireText(t, got[0].Children[0], "Important:")
	requireText(t, got[1], " see ")
	link := requireLink(t, got[2], DestinationInternal, "FAQ")
	if link.CanonicalPath != "/faq" {
		t.Fatalf("unexpected canonical path %q", link.CanonicalPath)
	}
	requireText(t, got[3], " now")
}

func TestAnnotateMarkdownRoundTrip(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("[Label](https://example.com/x)")
	if len(got) != 1 {
		t.Fatalf("expected exactly one token, got %#v", got)
	}
	link := requireLink(t, got[0], DestinationExternal, "Label")
	if link.RawValue != "https://example.com/x" {
		t.Fatalf("unexpected raw value %q", link.RawValue)
	}
}

func TestAnnotatePlainText(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	for _, in := range []string{"", "Hello there, how can I help?", "contact/info is not a link"} {
		got := a.Annotate(in)
		if len(got) != 1 {
			t.Fatalf("input=%q expected single token, got %#v", in, got)
		}
		requireText(t, got[0], in)
	}
}

func TestAnnotateLinkInsideEmphasis(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("**Book at https://calendly.com/fe**!")
	if len(got) != 2 || got[0].Kind != TokenEmphasis {
		t.Fatalf("unexpected tokens %#v", got)
	}
	inner := got[0].Children
	if len(inner) != 2 {
		t.Fatalf("unexpected emphasis children %#v", inner)
	}
	requireText(t, inner[0], "Book at ")
	requireLink(t, inner[1], DestinationExternal, "Calendly")
	requireText(t, got[1], "!")
}

func TestAnnotateBoldInsideLinkLabelIsLiteral(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("[**FAQ**](/faq)")
	if len(got) != 1 {
		t.Fatalf("expected single link token, got %#v", got)
	}
	requireLink(t, got[0], DestinationInternal, "**FAQ**")
}

func TestAnnotateUnterminatedBold(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("**Note: see /faq")
	if len(got) != 2 {
		t.Fatalf("unexpected tokens %#v", got)
	}
	requireText(t, got[0], "**Note: see ")
	requireLink(t, got[1], DestinationInternal, "/faq")
}

func TestAnnotateEmptyBoldPairIsLiteral(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("a **** b")
	if len(got) != 1 {
		t.Fatalf("unexpected tokens %#v", got)
	}
	requireText(t, got[0], "a **** b")
}

func TestAnnotateMultipleBoldSpans(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("**one** and **two**")
	if len(got) != 3 {
		t.Fatalf("unexpected tokens %#v", got)
	}
	if got[0].Kind != TokenEmphasis || got[2].Kind != TokenEmphasis {
		t.Fatalf("expected emphasis at both ends, got %#v", got)
	}
	requireText(t, got[1], " and ")
}

func TestAnnotateUnresolvableRendersAsText(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.Annotate("call mailto:nobody today")
	if len(got) != 1 {
		t.Fatalf("expected plain text, got %#v", got)
	}
	requireText(t, got[0], "call mailto:nobody today")
}

func TestAnnotatePreservesText(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	in := "Hola! Mirá /cursos, escribinos a hola@furtherenglish.com o https://instagram.com/fe."
	got := a.Annotate(in)
	if len(got) < 5 {
		t.Fatalf("expected several tokens, got %#v", got)
	}
	// Link labels replace their source, so compare only the text around them.
	if got[0].Text != "Hola! Mirá " || got[len(got)-1].Text != "." {
		t.Fatalf("unexpected surrounding text: %#v", got)
	}
}

func TestAnnotateLinksKeepsBoldMarkers(t *testing.T) {
	t.Parallel()

	a := newTestAnnotator(t)
	got := a.AnnotateLinks("**x** /faq")
	if len(got) != 2 {
		t.Fatalf("unexpected tokens %#v", got)
	}
	requireText(t, got[0], "**x** ")
}
