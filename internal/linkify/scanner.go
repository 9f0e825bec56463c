package linkify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	schemeHTTP   = "http://"
	schemeHTTPS  = "https://"
	schemeMailto = "mailto:"
	schemeTel    = "tel:"
)

// Scan runs the four detectors over text and returns every candidate they
// produce, in detector order. Candidates may overlap; Resolve picks the
// surviving set.
func Scan(text string) []Match {
	if text == "" {
		return nil
	}
	var out []Match
	out = append(out, scanMarkdown(text)...)
	out = append(out, scanAbsolute(text)...)
	out = append(out, scanRelative(text)...)
	out = append(out, scanContact(text)...)
	return out
}

// scanMarkdown finds [label](destination) where the destination is an
// absolute URL, a rooted path or a mailto:/tel: URI.
func scanMarkdown(text string) []Match {
	var out []Match
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			continue
		}
		m, ok := parseMarkdownAt(text, i)
		if !ok {
			continue
		}
		out = append(out, m)
		i = m.End - 1
	}
	return out
}

func parseMarkdownAt(text string, start int) (Match, bool) {
	closeLabel := -1
	for j := start + 1; j < len(text); j++ {
		c := text[j]
		if c == '\n' || c == '[' {
			return Match{}, false
		}
		if c == ']' {
			closeLabel = j
			break
		}
	}
	if closeLabel < 0 || closeLabel+1 >= len(text) || text[closeLabel+1] != '(' {
		return Match{}, false
	}
	label := strings.TrimSpace(text[start+1 : closeLabel])
	if label == "" {
		return Match{}, false
	}
	destStart := closeLabel + 2
	destEnd := -1
	depth := 0
	for k := destStart; k < len(text) && destEnd < 0; k++ {
		switch text[k] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				destEnd = k
			} else {
				depth--
			}
		case ' ', '\t', '\n', '\r':
			return Match{}, false
		}
	}
	if destEnd <= destStart {
		return Match{}, false
	}
	dest := text[destStart:destEnd]
	if !isAbsoluteURL(dest) && !strings.HasPrefix(dest, "/") && !hasContactScheme(dest) {
		return Match{}, false
	}
	return Match{
		Start:         start,
		End:           destEnd + 1,
		Kind:          KindMarkdown,
		RawValue:      dest,
		ExplicitLabel: label,
		Source:        text[start : destEnd+1],
	}, true
}

// scanAbsolute finds bare http(s) URLs anywhere in the text.
func scanAbsolute(text string) []Match {
	var out []Match
	for i := 0; i < len(text); i++ {
		if text[i] != 'h' && text[i] != 'H' {
			continue
		}
		scheme := ""
		switch {
		case hasPrefixFold(text[i:], schemeHTTPS):
			scheme = schemeHTTPS
		case hasPrefixFold(text[i:], schemeHTTP):
			scheme = schemeHTTP
		default:
			continue
		}
		end := scanURLEnd(text, i+len(scheme))
		value := trimTrailingPunct(text[i:end])
		if len(value) <= len(scheme) {
			continue
		}
		out = append(out, newMatch(text, i, i+len(value), KindAbsoluteURL, value))
		i += len(value) - 1
	}
	return out
}

// scanRelative finds rooted paths such as "/faq". A path only starts at the
// beginning of the text or after whitespace, so "contact/info" and the path
// part of a URL never match on their own.
func scanRelative(text string) []Match {
	var out []Match
	for i := 0; i < len(text); i++ {
		if text[i] != '/' {
			continue
		}
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			if !unicode.IsSpace(prev) {
				continue
			}
		}
		if i+1 >= len(text) || !isPathStart(text[i+1]) {
			continue
		}
		end := scanURLEnd(text, i+1)
		value := trimTrailingPunct(text[i:end])
		if len(value) <= 1 {
			continue
		}
		out = append(out, newMatch(text, i, i+len(value), KindRelativePath, value))
		i += len(value) - 1
	}
	return out
}

// scanContact finds mailto:/tel: URIs and bare e-mail addresses. Bare
// addresses are reported with a mailto: prefix.
func scanContact(text string) []Match {
	var out []Match
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != 'm' && c != 'M' && c != 't' && c != 'T' {
			continue
		}
		if i > 0 && isAlnum(text[i-1]) {
			continue
		}
		scheme := ""
		switch {
		case hasPrefixFold(text[i:], schemeMailto):
			scheme = schemeMailto
		case hasPrefixFold(text[i:], schemeTel):
			scheme = schemeTel
		default:
			continue
		}
		end := scanURLEnd(text, i+len(scheme))
		value := trimTrailingPunct(text[i:end])
		if len(value) <= len(scheme) {
			continue
		}
		out = append(out, newMatch(text, i, i+len(value), KindMailOrTel, value))
		i += len(value) - 1
	}
	return append(out, scanEmails(text)...)
}

func scanEmails(text string) []Match {
	var out []Match
	for at := strings.IndexByte(text, '@'); at >= 0; {
		start := at
		for start > 0 && isEmailLocal(text[start-1]) {
			start--
		}
		end := at + 1
		for end < len(text) && isEmailDomain(text[end]) {
			end++
		}
		for end > at+1 && (text[end-1] == '.' || text[end-1] == '-') {
			end--
		}
		local := text[start:at]
		domain := text[at+1 : end]
		next := at + 1
		if local != "" && !strings.HasPrefix(local, ".") && validEmailDomain(domain) {
			out = append(out, newMatch(text, start, end, KindMailOrTel, schemeMailto+text[start:end]))
			next = end
		}
		rel := strings.IndexByte(text[next:], '@')
		if rel < 0 {
			break
		}
		at = next + rel
	}
	return out
}

func validEmailDomain(domain string) bool {
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || strings.HasPrefix(domain, ".") || strings.Contains(domain, "..") {
		return false
	}
	tld := domain[dot+1:]
	if len(tld) < 2 {
		return false
	}
	for i := 0; i < len(tld); i++ {
		if !isLetter(tld[i]) {
			return false
		}
	}
	return true
}

func newMatch(text string, start, end int, kind MatchKind, raw string) Match {
	return Match{Start: start, End: end, Kind: kind, RawValue: raw, Source: text[start:end]}
}

// scanURLEnd returns the offset of the first rune at or after from that
// cannot be part of a URL. Parentheses are kept while balanced, so
// ".../Go_(language)" stays whole but "(see https://x.y)" ends before ')'.
func scanURLEnd(text string, from int) int {
	i := from
	depth := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth == 0 {
				return i
			}
			depth--
		case r < utf8.RuneSelf:
			if isURLStop(byte(r)) {
				return i
			}
		case unicode.IsSpace(r) || r == utf8.RuneError:
			return i
		}
		i += size
	}
	return i
}

func isURLStop(c byte) bool {
	if c <= ' ' || c == 0x7f {
		return true
	}
	switch c {
	case '<', '>', '"', '\'', '`', '[', ']', '{', '}', '|', '\\':
		return true
	}
	return false
}

// trimTrailingPunct drops sentence punctuation that ends up glued to a URL.
func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?*")
}

func isAbsoluteURL(s string) bool {
	return hasPrefixFold(s, schemeHTTPS) || hasPrefixFold(s, schemeHTTP)
}

func hasContactScheme(s string) bool {
	return hasPrefixFold(s, schemeMailto) || hasPrefixFold(s, schemeTel)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isPathStart(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '#'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9')
}

func isEmailLocal(c byte) bool {
	return isAlnum(c) || strings.IndexByte("._%+-", c) >= 0
}

func isEmailDomain(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-'
}
