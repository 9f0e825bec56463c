package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/furtherenglish/assistant/internal/locale"
)

// PromptParams contains parameters for generating the instruction prefix.
type PromptParams struct {
	Date     time.Time
	Locale   string
	SiteName string
}

// SystemPrompt generates the locale-specific instruction sent ahead of the
// conversation history.
func SystemPrompt(params PromptParams) string {
	if params.SiteName == "" {
		params.SiteName = "Further English"
	}
	if params.Date.IsZero() {
		params.Date = time.Now()
	}
	lang := "English"
	if locale.Base(params.Locale) == locale.Spanish {
		lang = "Spanish (Rioplatense, using \"vos\")"
	}

	return fmt.Sprintf(`---
%s
language: %s
---
You are the assistant on the %s website, a company that teaches English to adults and runs in-company programs.

Your abilities:
- Explain the courses, levels, schedules and the in-company offer.
- Point visitors to the right page of the site.
- Share the contact channels when someone wants to enroll or get a quote.

**Response Guidelines**
- Always respond in the language specified above.
- Be helpful, concise, and friendly. Two or three short paragraphs at most.
- Link to site pages with site-relative paths such as /courses, /corporate-services, /faq or /contact, or with markdown links like [FAQ](/faq).
- Use **bold** only for the single most important phrase.
- Never invent prices, dates or phone numbers; send the visitor to /contact instead.`,
		FormatTime(params.Date, params.Locale),
		lang,
		params.SiteName,
	)
}

// FallbackReply is the canned assistant message used when the completion
// backend fails or answers with nothing.
func FallbackReply(loc string) string {
	if locale.Base(loc) == locale.Spanish {
		return "Perdón, no pude responder en este momento. Probá de nuevo en unos segundos o escribinos desde /contact."
	}
	return "Sorry, I couldn't answer right now. Please try again in a few seconds or reach us through /contact."
}

// FormatTime formats the date and time according to locale
func FormatTime(date time.Time, loc string) string {
	dateStr := date.Format("2006-01-02")
	if locale.Base(loc) == locale.Spanish {
		dateStr = date.Format("02/01/2006")
	}
	timeStr := date.Format("15:04")
	return strings.Join([]string{"date: " + dateStr, "time: " + timeStr}, "\n")
}
