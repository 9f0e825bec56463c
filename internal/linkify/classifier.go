package linkify

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	labelEmail    = "Email"
	labelPhone    = "Phone"
	labelWhatsApp = "WhatsApp"
	whatsAppHost  = "wa.me"
)

// Classifier decides where an accepted match points to.
type Classifier struct {
	scheme string
	host   string
	tables Tables
}

// NewClassifier builds a classifier for the site served at origin
// (e.g. "https://furtherenglish.com"). An empty origin relies on the
// internal-host allow-list alone.
func NewClassifier(origin string, tables Tables) (*Classifier, error) {
	c := &Classifier{tables: tables}
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return c, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse site origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("site origin %q must include scheme and host", origin)
	}
	c.scheme = strings.ToLower(u.Scheme)
	c.host = strings.ToLower(u.Host)
	return c, nil
}

// Tables returns the routing tables the classifier was built with.
func (c *Classifier) Tables() Tables {
	return c.tables
}

// Classify resolves the destination and display label of a match.
func (c *Classifier) Classify(m Match) ClassifiedLink {
	link := ClassifiedLink{Match: m}
	raw := strings.TrimSpace(m.RawValue)
	switch {
	case m.Kind == KindMailOrTel || hasContactScheme(raw):
		return c.classifyContact(link, raw)
	case isAbsoluteURL(raw):
		return c.classifyAbsolute(link, raw)
	case strings.HasPrefix(raw, "/"):
		return c.classifyInternal(link, raw)
	default:
		return unresolvable(link)
	}
}

func (c *Classifier) classifyContact(link ClassifiedLink, raw string) ClassifiedLink {
	label := labelEmail
	switch {
	case hasPrefixFold(raw, schemeMailto):
		body := raw[len(schemeMailto):]
		if !strings.Contains(body, "@") || strings.HasPrefix(body, "@") {
			return unresolvable(link)
		}
	case hasPrefixFold(raw, schemeTel):
		if len(onlyDigits(raw[len(schemeTel):])) < 3 {
			return unresolvable(link)
		}
		label = labelPhone
	default:
		return unresolvable(link)
	}
	link.Destination = DestinationContact
	link.DisplayLabel = explicitOr(link.Match, label)
	return link
}

func (c *Classifier) classifyAbsolute(link ClassifiedLink, raw string) ClassifiedLink {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return unresolvable(link)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return unresolvable(link)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return unresolvable(link)
	}
	if c.isSameOrigin(scheme, u.Host) || c.tables.IsInternalHost(host) {
		return c.classifyInternal(link, requestURI(u))
	}
	link.Destination = DestinationExternal
	link.DisplayLabel = explicitOr(link.Match, c.hostLabel(host))
	return link
}

func (c *Classifier) classifyInternal(link ClassifiedLink, p string) ClassifiedLink {
	canonical := c.tables.Canonicalize(p)
	link.Destination = DestinationInternal
	link.CanonicalPath = canonical
	label := canonical
	if named, ok := c.tables.PathLabel(pathOnly(canonical)); ok {
		label = named
	}
	link.DisplayLabel = explicitOr(link.Match, label)
	return link
}

func (c *Classifier) isSameOrigin(scheme, host string) bool {
	return c.host != "" && c.scheme == scheme && c.host == strings.ToLower(host)
}

func (c *Classifier) hostLabel(host string) string {
	if host == whatsAppHost {
		return labelWhatsApp
	}
	if label, ok := c.tables.HostLabel(host); ok {
		return label
	}
	return strings.TrimPrefix(host, "www.")
}

func unresolvable(link ClassifiedLink) ClassifiedLink {
	link.Destination = DestinationUnresolvable
	link.CanonicalPath = ""
	link.DisplayLabel = link.Source
	if link.DisplayLabel == "" {
		link.DisplayLabel = link.RawValue
	}
	return link
}

func explicitOr(m Match, fallback string) string {
	if m.HasLabel() {
		return m.ExplicitLabel
	}
	return fallback
}

// requestURI returns path, query and fragment of u, with "/" for an empty path.
func requestURI(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" || u.ForceQuery {
		p += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		p += "#" + u.EscapedFragment()
	}
	return p
}

func pathOnly(p string) string {
	path, _ := splitPathSuffix(p)
	return path
}
