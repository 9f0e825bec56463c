package linkify

import "testing"

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier("https://furtherenglish.com", DefaultTables())
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	return c
}

func TestClassifyContact(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)
	cases := []struct {
		match     Match
		wantDest  DestinationKind
		wantLabel string
	}{
		{match: Match{Kind: KindMailOrTel, RawValue: "mailto:hi@example.com"}, wantDest: DestinationContact, wantLabel: "Email"},
		{match: Match{Kind: KindMailOrTel, RawValue: "tel:+54 11 1234"}, wantDest: DestinationContact, wantLabel: "Phone"},
		{match: Match{Kind: KindMarkdown, RawValue: "mailto:hi@example.com", ExplicitLabel: "Write us"}, wantDest: DestinationContact, wantLabel: "Write us"},
		{match: Match{Kind: KindMailOrTel, RawValue: "mailto:nobody", Source: "mailto:nobody"}, wantDest: DestinationUnresolvable, wantLabel: "mailto:nobody"},
		{match: Match{Kind: KindMailOrTel, RawValue: "tel:x", Source: "tel:x"}, wantDest: DestinationUnresolvable, wantLabel: "tel:x"},
		{match: Match{Kind: KindMailOrTel, RawValue: "mailto:foo", Source: "mailto:foo"}, wantDest: DestinationUnresolvable, wantLabel: "mailto:foo"},
		{match: Match{Kind: KindMailOrTel, RawValue: "mailto:@example.com", Source: "mailto:@example.com"}, wantDest: DestinationUnresolvable, wantLabel: "mailto:@example.com"},
		{match: Match{Kind: KindMailOrTel, RawValue: "tel:12", Source: "tel:12"}, wantDest: DestinationUnresolvable, wantLabel: "tel:12"},
		{match: Match{Kind: KindMailOrTel, RawValue: "tel:123", Source: "tel:123"}, wantDest: DestinationContact, wantLabel: "Phone"},
	}
	for _, tc := range cases {
		got := c.Classify(tc.match)
		if got.Destination != tc.wantDest || got.DisplayLabel != tc.wantLabel {
			t.Fatalf("raw=%q got dest=%q label=%q", tc.match.RawValue, got.Destination, got.DisplayLabel)
		}
		if got.CanonicalPath != "" {
			t.Fatalf("raw=%q canonical path must be empty for non-internal links", tc.match.RawValue)
		}
	}
}

func TestClassifyAbsoluteSameOriginIsInternal(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)
	got := c.Classify(Match{Kind: KindAbsoluteURL, RawValue: "https://furtherenglish.com//corporate/?a=1#top"})
	if got.Destination != DestinationInternal {
		t.Fatalf("expected internal, got %q", got.Destination)
	}
	if got.CanonicalPath != "/corporate-services?a=1#top" {
		t.Fatalf("unexpected canonical path %q", got.CanonicalPath)
	}
	if got.DisplayLabel != "/corporate-services?a=1#top" {
		t.Fatalf("unexpected label %q", got.DisplayLabel)
	}
}

func TestClassifyAbsoluteAllowListedHostIsInternal(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)
	got := c.Classify(Match{Kind: KindAbsoluteURL, RawValue: "http://www.furtherenglish.com.ar"})
	if got.Destination != DestinationInternal || got.CanonicalPath != "/" {
		t.Fatalf("unexpected classification: %#v", got)
	}
}

func TestClassifyAbsoluteExternalLabels(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)
	cases := []struct {
		raw   string
		label string
	}{
		{raw: "https://wa.me/5491135821240", label: "WhatsApp"},
		{raw: "https://www.instagram.com/furtherenglish", label: "Instagram"},
		{raw: "https://www.example.org/page", label: "example.org"},
		{raw: "http://furtherenglish.com/faq", label: "furtherenglish.com"},
	}
	for _, tc := range cases {
		got := c.Classify(Match{Kind: KindAbsoluteURL, RawValue: tc.raw})
		if tc.raw == "http://furtherenglish.com/faq" {
			// Allow-listed host wins even when the scheme differs from the origin.
			if got.Destination != DestinationInternal {
				t.Fatalf("raw=%q expected internal, got %q", tc.raw, got.Destination)
			}
			continue
		}
		if got.Destination != DestinationExternal || got.DisplayLabel != tc.label {
			t.Fatalf("raw=%q got dest=%q label=%q", tc.raw, got.Destination, got.DisplayLabel)
		}
	}
}

func TestClassifyWhatsAppLabelIgnoresTable(t *testing.T) {
	t.Parallel()

	tables, err := NewTables(TablesFile{HostLabels: map[string]string{"wa.me": "Chat"}})
	if err != nil {
		t.Fatalf("new tables: %v", err)
	}
	c, err := NewClassifier("https://furtherenglish.com", tables)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	got := c.Classify(Match{Kind: KindAbsoluteURL, RawValue: "https://wa.me/123456"})
	if got.DisplayLabel != "WhatsApp" {
		t.Fatalf("unexpected label %q", got.DisplayLabel)
	}
}

func TestClassifyRelativePath(t *testing.T) {
	t.Parallel()

	tables, err := NewTables(TablesFile{
		Aliases:    map[string]string{"/cursos": "/courses"},
		PathLabels: map[string]string{"/courses": "Courses"},
	})
	if err != nil {
		t.Fatalf("new tables: %v", err)
	}
	c, err := NewClassifier("https://furtherenglish.com", tables)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	got := c.Classify(Match{Kind: KindRelativePath, RawValue: "/cursos/"})
	if got.Destination != DestinationInternal || got.CanonicalPath != "/courses" || got.DisplayLabel != "Courses" {
		t.Fatalf("unexpected classification: %#v", got)
	}
}

func TestClassifyUnresolvable(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t)
	cases := []Match{
		{Kind: KindAbsoluteURL, RawValue: "https://exa mple.com", Source: "https://exa mple.com"},
		{Kind: KindAbsoluteURL, RawValue: "https://:80", Source: "https://:80"},
		{Kind: KindMarkdown, RawValue: "ftp://example.com", Source: "[x](ftp://example.com)"},
	}
	for _, m := range cases {
		got := c.Classify(m)
		if got.Destination != DestinationUnresolvable {
			t.Fatalf("raw=%q expected unresolvable, got %q", m.RawValue, got.Destination)
		}
		if got.CanonicalPath != "" {
			t.Fatalf("raw=%q unexpected canonical path", m.RawValue)
		}
	}
}

func TestNewClassifierValidatesOrigin(t *testing.T) {
	t.Parallel()

	if _, err := NewClassifier("furtherenglish.com", DefaultTables()); err == nil {
		t.Fatal("expected error for origin without scheme")
	}
	if _, err := NewClassifier("", DefaultTables()); err != nil {
		t.Fatalf("empty origin should be accepted, got %v", err)
	}
}
