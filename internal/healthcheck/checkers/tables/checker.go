package tableschecker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/furtherenglish/assistant/internal/healthcheck"
	"github.com/furtherenglish/assistant/internal/linkify"
)

const checkTypeTables = "linkify.tables"

// Checker reports the routing tables the annotator was built with.
type Checker struct {
	logger *slog.Logger
	tables linkify.Tables
	source string
}

// NewChecker creates a tables health checker. source is the file the tables
// were loaded from, empty for the built-in defaults.
func NewChecker(log *slog.Logger, tables linkify.Tables, source string) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger: log.With(slog.String("checker", "healthcheck_tables")),
		tables: tables,
		source: source,
	}
}

// ListChecks reports table sizes; empty alias or host tables are a warning.
func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	if err := ctx.Err(); err != nil {
		return []healthcheck.CheckResult{}
	}
	aliases, labels, hosts := c.tables.Len()
	source := c.source
	if source == "" {
		source = "builtin"
	}
	item := healthcheck.CheckResult{
		ID:      checkTypeTables,
		Type:    checkTypeTables,
		Status:  healthcheck.StatusOK,
		Summary: fmt.Sprintf("%d aliases, %d labels, %d internal hosts", aliases, labels, hosts),
		Metadata: map[string]any{
			"source":         source,
			"aliases":        aliases,
			"labels":         labels,
			"internal_hosts": hosts,
		},
	}
	if aliases == 0 || hosts == 0 {
		c.logger.Warn("routing tables look incomplete", slog.Int("aliases", aliases), slog.Int("internal_hosts", hosts))
		item.Status = healthcheck.StatusWarn
		item.Detail = "alias table or internal host allow-list is empty"
	}
	return []healthcheck.CheckResult{item}
}
