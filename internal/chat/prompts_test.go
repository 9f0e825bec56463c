package chat

import (
	"strings"
	"testing"
	"time"
)

func TestSystemPromptLocale(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	es := SystemPrompt(PromptParams{Date: date, Locale: "es-AR"})
	if !strings.Contains(es, "language: Spanish") || !strings.Contains(es, "date: 09/03/2026") {
		t.Fatalf("unexpected spanish prompt:\n%s", es)
	}
	en := SystemPrompt(PromptParams{Date: date, Locale: "en"})
	if !strings.Contains(en, "language: English") || !strings.Contains(en, "date: 2026-03-09") {
		t.Fatalf("unexpected english prompt:\n%s", en)
	}
	if !strings.Contains(en, "Further English") {
		t.Fatal("expected default site name")
	}
}

func TestFallbackReplyIsLocalized(t *testing.T) {
	t.Parallel()

	es := FallbackReply("es")
	en := FallbackReply("en-GB")
	if es == en {
		t.Fatal("expected different fallback per locale")
	}
	if !strings.HasPrefix(es, "Perdón") || !strings.HasPrefix(en, "Sorry") {
		t.Fatalf("unexpected fallbacks %q %q", es, en)
	}
	if FallbackReply("fr") != en {
		t.Fatal("unknown locales should fall back to english")
	}
}
