package linkify

import (
	"regexp"
	"strings"
)

// whatsappPhonePattern finds a phone number written after the word
// "whatsapp", e.g. "WhatsApp: +54 9 11 3582-1240" or "WhatsApp al 11 3582
// 1240". One short connector word may sit between the two. The number may
// contain spaces, dots, dashes and parentheses between digits.
var whatsappPhonePattern = regexp.MustCompile(`(?i)\b(whatsapp)([\s:\-]*(?:\b(?:al|a|to|at|on|en|por)\b[\s:\-]*)?)(\+?\d[\d\s().\-]*\d)`)

// minWhatsAppDigits is the shortest digit run treated as a phone number.
const minWhatsAppDigits = 6

// RewriteWhatsApp replaces phone numbers introduced by "whatsapp" with an
// explicit https://wa.me/<digits> URL so the scanner picks them up as
// absolute URLs. Runs with fewer than six digits are left untouched.
func RewriteWhatsApp(text string) string {
	if !strings.Contains(strings.ToLower(text), "whatsapp") {
		return text
	}
	return whatsappPhonePattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := whatsappPhonePattern.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		digits := onlyDigits(parts[3])
		if len(digits) < minWhatsAppDigits {
			return match
		}
		return parts[1] + parts[2] + "https://wa.me/" + digits
	})
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
