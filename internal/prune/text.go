// Package prune bounds the text that is sent to the completion backend.
package prune

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultMarker   = "\n[...]\n"
	DefaultMaxBytes = 4 * 1024
)

// Config bounds a single text. HeadShare is the fraction of the budget kept
// from the start of the text; the rest comes from its end.
type Config struct {
	MaxBytes  int
	HeadShare float64
	Marker    string
}

func Exceeds(s string, maxBytes int) bool {
	return maxBytes > 0 && len(s) > maxBytes
}

// Text returns s unchanged when it fits in cfg.MaxBytes, otherwise its head
// and tail joined by the marker. The result never exceeds MaxBytes and never
// splits a UTF-8 sequence.
func Text(s string, cfg Config) string {
	cfg = normalizeConfig(cfg)
	if !Exceeds(s, cfg.MaxBytes) {
		return s
	}
	budget := cfg.MaxBytes - len(cfg.Marker)
	if budget <= 0 {
		return safeUTF8Prefix(s, cfg.MaxBytes)
	}
	headBytes := int(float64(budget) * cfg.HeadShare)
	head := safeUTF8Prefix(s, headBytes)
	tail := safeUTF8Suffix(s, budget-len(head))
	return strings.TrimRight(head, " \n") + cfg.Marker + strings.TrimLeft(tail, " \n")
}

// Tail returns the last n items of a slice as a new slice. n <= 0 keeps
// everything.
func Tail[T any](items []T, n int) []T {
	start := 0
	if n > 0 && len(items) > n {
		start = len(items) - n
	}
	out := make([]T, len(items)-start)
	copy(out, items[start:])
	return out
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.HeadShare <= 0 || cfg.HeadShare >= 1 {
		cfg.HeadShare = 2.0 / 3.0
	}
	if cfg.Marker == "" {
		cfg.Marker = DefaultMarker
	}
	return cfg
}

func safeUTF8Prefix(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) == 0 {
		return ""
	}
	if maxBytes >= len(s) {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func safeUTF8Suffix(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) == 0 {
		return ""
	}
	if maxBytes >= len(s) {
		return s
	}
	start := len(s) - maxBytes
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
