package linkify

import (
	"html"
	"strings"

	"github.com/furtherenglish/assistant/internal/locale"
)

// Navigator turns a canonical internal path and a locale into an href.
type Navigator interface {
	Href(canonicalPath, locale string) string
}

// LocalePrefixNavigator serves the default locale unprefixed and every
// other locale under "/<lang>".
type LocalePrefixNavigator struct {
	DefaultLocale string
}

// Href implements Navigator.
func (n LocalePrefixNavigator) Href(canonicalPath, loc string) string {
	base := locale.Base(loc)
	if base == "" || base == locale.Base(n.DefaultLocale) {
		return canonicalPath
	}
	path, suffix := splitPathSuffix(canonicalPath)
	if path == "/" {
		return "/" + base + suffix
	}
	return "/" + base + path + suffix
}

// RenderOptions controls HTML rendering.
type RenderOptions struct {
	Locale    string
	Navigator Navigator
}

// RenderHTML renders tokens as escaped HTML. Internal links are routed
// through the navigator and tagged data-nav="internal"; external and contact
// links always open in a new context without referrer or opener.
func RenderHTML(tokens []Token, opts RenderOptions) string {
	if opts.Navigator == nil {
		opts.Navigator = LocalePrefixNavigator{DefaultLocale: opts.Locale}
	}
	var b strings.Builder
	renderHTML(&b, tokens, opts)
	return b.String()
}

func renderHTML(b *strings.Builder, tokens []Token, opts RenderOptions) {
	for _, t := range tokens {
		switch t.Kind {
		case TokenText:
			b.WriteString(html.EscapeString(t.Text))
		case TokenEmphasis:
			b.WriteString("<strong>")
			renderHTML(b, t.Children, opts)
			b.WriteString("</strong>")
		case TokenLink:
			renderLink(b, t, opts)
		}
	}
}

func renderLink(b *strings.Builder, t Token, opts RenderOptions) {
	if t.Link == nil {
		renderHTML(b, t.Children, opts)
		return
	}
	switch t.Link.Destination {
	case DestinationInternal:
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(opts.Navigator.Href(t.Link.CanonicalPath, opts.Locale)))
		b.WriteString(`" data-nav="internal">`)
	case DestinationExternal, DestinationContact:
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(t.Link.RawValue))
		b.WriteString(`" target="_blank" rel="noopener noreferrer">`)
	default:
		b.WriteString(html.EscapeString(t.Link.Source))
		return
	}
	renderHTML(b, t.Children, opts)
	b.WriteString("</a>")
}

// RenderText renders tokens for a terminal: emphasis keeps its markers and
// links are shown as "label <href>".
func RenderText(tokens []Token, opts RenderOptions) string {
	if opts.Navigator == nil {
		opts.Navigator = LocalePrefixNavigator{DefaultLocale: opts.Locale}
	}
	var b strings.Builder
	var walk func([]Token)
	walk = func(items []Token) {
		for _, t := range items {
			switch t.Kind {
			case TokenText:
				b.WriteString(t.Text)
			case TokenEmphasis:
				b.WriteString(boldMarker)
				walk(t.Children)
				b.WriteString(boldMarker)
			case TokenLink:
				walk(t.Children)
				if t.Link == nil {
					continue
				}
				href := t.Link.RawValue
				if t.Link.Destination == DestinationInternal {
					href = opts.Navigator.Href(t.Link.CanonicalPath, opts.Locale)
				}
				if href != PlainString(t.Children) {
					b.WriteString(" <" + href + ">")
				}
			}
		}
	}
	walk(tokens)
	return b.String()
}
