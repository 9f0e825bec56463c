package sessionchecker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/furtherenglish/assistant/internal/healthcheck"
)

const (
	checkTypeSessions = "assistant.sessions"
	warnRatio         = 0.9
)

// Counter reports live and maximum session counts.
type Counter interface {
	Len() int
	Cap() int
}

// Checker warns when the session registry is close to its capacity, at
// which point older visitors start losing their conversations.
type Checker struct {
	logger  *slog.Logger
	counter Counter
}

// NewChecker creates a session registry health checker.
func NewChecker(log *slog.Logger, counter Counter) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger:  log.With(slog.String("checker", "healthcheck_sessions")),
		counter: counter,
	}
}

// ListChecks evaluates registry usage.
func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	if err := ctx.Err(); err != nil {
		return []healthcheck.CheckResult{}
	}
	if c.counter == nil {
		return []healthcheck.CheckResult{{
			ID:      checkTypeSessions,
			Type:    checkTypeSessions,
			Status:  healthcheck.StatusWarn,
			Summary: "Session registry is not available.",
		}}
	}
	live, capacity := c.counter.Len(), c.counter.Cap()
	item := healthcheck.CheckResult{
		ID:       checkTypeSessions,
		Type:     checkTypeSessions,
		Status:   healthcheck.StatusOK,
		Summary:  fmt.Sprintf("%d of %d sessions in use", live, capacity),
		Metadata: map[string]any{"live": live, "capacity": capacity},
	}
	if capacity > 0 && float64(live) >= warnRatio*float64(capacity) {
		c.logger.Warn("session registry near capacity", slog.Int("live", live), slog.Int("capacity", capacity))
		item.Status = healthcheck.StatusWarn
	}
	return []healthcheck.CheckResult{item}
}
