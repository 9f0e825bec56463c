// Package locale resolves client locale hints to one of the site's locales.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Default site locales.
const (
	Spanish = "es"
	English = "en"
)

// Matcher maps arbitrary tags ("es-AR", "en-GB,en;q=0.8") to a supported
// base language code.
type Matcher struct {
	def     string
	codes   []string
	matcher language.Matcher
}

// NewMatcher creates a matcher. The default locale is always supported and
// is preferred when nothing matches.
func NewMatcher(defaultLocale string, supported []string) (*Matcher, error) {
	def := Base(defaultLocale)
	if def == "" {
		return nil, fmt.Errorf("invalid default locale %q", defaultLocale)
	}
	codes := []string{def}
	tags := []language.Tag{language.Make(def)}
	for _, raw := range supported {
		code := Base(raw)
		if code == "" {
			return nil, fmt.Errorf("invalid locale %q", raw)
		}
		if contains(codes, code) {
			continue
		}
		codes = append(codes, code)
		tags = append(tags, language.Make(code))
	}
	return &Matcher{def: def, codes: codes, matcher: language.NewMatcher(tags)}, nil
}

// Default returns the default locale code.
func (m *Matcher) Default() string {
	return m.def
}

// Supported returns the supported locale codes, default first.
func (m *Matcher) Supported() []string {
	out := make([]string, len(m.codes))
	copy(out, m.codes)
	return out
}

// Match resolves the first non-empty hint. Hints may be single tags or
// Accept-Language header values.
func (m *Matcher) Match(hints ...string) string {
	for _, hint := range hints {
		hint = strings.TrimSpace(hint)
		if hint == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(hint)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := m.matcher.Match(tags...)
		if conf == language.No {
			continue
		}
		return m.codes[idx]
	}
	return m.def
}

// Base returns the lower-case base language of a tag, or "" if it does not parse.
func Base(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, _ := t.Base()
	return base.String()
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
