package linkify

import "strings"

// NormalizePath collapses runs of '/' and strips a single trailing slash.
// The root path and the empty path both normalise to "/". Other bytes,
// whitespace included, are kept as they are.
func NormalizePath(p string) string {
	var b strings.Builder
	b.Grow(len(p) + 1)
	if !strings.HasPrefix(p, "/") {
		b.WriteByte('/')
	}
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}

// Canonicalize normalises an internal path and maps it through the alias
// table. Query strings and fragments are kept verbatim and do not take part
// in the alias lookup. Unmapped paths pass through unchanged.
func (t Tables) Canonicalize(p string) string {
	path, suffix := splitPathSuffix(p)
	path = NormalizePath(path)
	if target, ok := t.Alias(path); ok {
		path = target
	}
	return path + suffix
}

// splitPathSuffix separates "/a/b?x=1#y" into "/a/b" and "?x=1#y".
func splitPathSuffix(p string) (string, string) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		return p[:i], p[i:]
	}
	return p, ""
}
