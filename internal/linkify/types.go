// Package linkify turns assistant reply text into render tokens: links are
// detected, classified as internal or external, canonicalised against the
// site's route aliases and composed with bold emphasis spans.
package linkify

// MatchKind identifies the detector that produced a Match.
type MatchKind string

// Match kinds, in detector order.
const (
	KindMarkdown     MatchKind = "markdown"
	KindAbsoluteURL  MatchKind = "absolute_url"
	KindRelativePath MatchKind = "relative_path"
	KindMailOrTel    MatchKind = "mail_or_tel"
)

// DestinationKind is the outcome of classifying a match.
type DestinationKind string

// Destination kinds.
const (
	DestinationInternal     DestinationKind = "internal"
	DestinationExternal     DestinationKind = "external"
	DestinationContact      DestinationKind = "contact"
	DestinationUnresolvable DestinationKind = "unresolvable"
)

// Match is a candidate span recognised by one detector. End is exclusive and
// offsets are byte offsets into the scanned text.
type Match struct {
	Start         int       `json:"start"`
	End           int       `json:"end"`
	Kind          MatchKind `json:"kind"`
	RawValue      string    `json:"raw_value"`
	ExplicitLabel string    `json:"explicit_label,omitempty"`
	// Source is the matched text exactly as it appeared in the input.
	Source string `json:"-"`
}

// HasLabel reports whether the match carried its own label ([label](dest)).
func (m Match) HasLabel() bool {
	return m.ExplicitLabel != ""
}

// ClassifiedLink is a Match with its resolved destination.
// CanonicalPath is set if and only if Destination is DestinationInternal.
type ClassifiedLink struct {
	Match
	Destination   DestinationKind `json:"destination"`
	CanonicalPath string          `json:"canonical_path,omitempty"`
	DisplayLabel  string          `json:"label"`
}

// Href returns the destination to link to for external and contact links.
// Internal links are routed by a Navigator instead.
func (l ClassifiedLink) Href() string {
	switch l.Destination {
	case DestinationInternal:
		return l.CanonicalPath
	case DestinationExternal, DestinationContact:
		return l.RawValue
	default:
		return ""
	}
}

// TokenKind names the variants of Token.
type TokenKind string

// Token kinds.
const (
	TokenText     TokenKind = "text"
	TokenEmphasis TokenKind = "emphasis"
	TokenLink     TokenKind = "link"
)

// Token is a node of the render tree. Text tokens carry Text; emphasis tokens
// carry Children; link tokens carry Link and their label as Children.
type Token struct {
	Kind     TokenKind       `json:"kind"`
	Text     string          `json:"text,omitempty"`
	Link     *ClassifiedLink `json:"link,omitempty"`
	Children []Token         `json:"children,omitempty"`
}

// Text builds a plain text token.
func Text(s string) Token {
	return Token{Kind: TokenText, Text: s}
}

// Emphasis builds an emphasis token around children.
func Emphasis(children ...Token) Token {
	return Token{Kind: TokenEmphasis, Children: children}
}

// LinkToken builds a link token whose label content is the display label.
func LinkToken(link ClassifiedLink) Token {
	l := link
	return Token{Kind: TokenLink, Link: &l, Children: []Token{Text(link.DisplayLabel)}}
}

// PlainString flattens tokens back to the text a reader would see.
func PlainString(tokens []Token) string {
	var out []byte
	var walk func([]Token)
	walk = func(items []Token) {
		for _, t := range items {
			if t.Kind == TokenText {
				out = append(out, t.Text...)
				continue
			}
			walk(t.Children)
		}
	}
	walk(tokens)
	return string(out)
}
