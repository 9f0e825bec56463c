package completionchecker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/furtherenglish/assistant/internal/chat"
	"github.com/furtherenglish/assistant/internal/healthcheck"
)

const checkTypeCompletion = "completion.provider"

// Checker reports whether the completion backend is usable. It inspects the
// configuration only and never calls the backend.
type Checker struct {
	logger *slog.Logger
	cfg    chat.Config
}

// NewChecker creates a completion health checker.
func NewChecker(log *slog.Logger, cfg chat.Config) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger: log.With(slog.String("checker", "healthcheck_completion")),
		cfg:    cfg,
	}
}

// ListChecks evaluates the completion configuration.
func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	if err := ctx.Err(); err != nil {
		return []healthcheck.CheckResult{}
	}
	provider := strings.ToLower(strings.TrimSpace(c.cfg.Provider))
	if provider == "" {
		provider = "openai"
	}
	item := healthcheck.CheckResult{
		ID:   checkTypeCompletion + "." + provider,
		Type: checkTypeCompletion,
		Metadata: map[string]any{
			"provider": provider,
			"model":    c.cfg.Model,
		},
	}
	switch {
	case provider == "none":
		item.Status = healthcheck.StatusWarn
		item.Summary = "Completion is disabled; every reply is the fallback message."
	case strings.TrimSpace(c.cfg.APIKey) == "":
		c.logger.Warn("completion provider has no api key", slog.String("provider", provider))
		item.Status = healthcheck.StatusError
		item.Summary = "Completion provider has no API key."
		item.Detail = chat.ErrMissingAPIKey.Error()
	default:
		item.Status = healthcheck.StatusOK
		item.Summary = "Completion provider is configured."
	}
	return []healthcheck.CheckResult{item}
}
