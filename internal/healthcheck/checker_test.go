package healthcheck

import (
	"context"
	"testing"
)

type testChecker struct {
	items []CheckResult
}

func (c *testChecker) ListChecks(ctx context.Context) []CheckResult {
	return c.items
}

func TestRunFoldsWorstStatus(t *testing.T) {
	t.Parallel()

	report := Run(context.Background(),
		&testChecker{items: []CheckResult{{ID: "b", Status: StatusOK}}},
		nil,
		&testChecker{items: []CheckResult{{ID: "a", Status: StatusWarn}, {ID: "c"}}},
	)
	if report.Status != StatusWarn {
		t.Fatalf("expected warn, got %s", report.Status)
	}
	if len(report.Checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(report.Checks))
	}
	if report.Checks[0].ID != "a" || report.Checks[2].ID != "c" {
		t.Fatalf("checks must be sorted by id: %#v", report.Checks)
	}
	if report.Checks[2].Status != StatusUnknown {
		t.Fatalf("empty status must become unknown, got %q", report.Checks[2].Status)
	}
}

func TestRunErrorWins(t *testing.T) {
	t.Parallel()

	report := Run(context.Background(),
		&testChecker{items: []CheckResult{{ID: "a", Status: StatusError}}},
		&testChecker{items: []CheckResult{{ID: "b", Status: StatusWarn}}},
	)
	if report.Status != StatusError {
		t.Fatalf("expected error, got %s", report.Status)
	}
}

func TestRunNoCheckers(t *testing.T) {
	t.Parallel()

	report := Run(context.Background())
	if report.Status != StatusOK || report.Checks == nil || len(report.Checks) != 0 {
		t.Fatalf("unexpected empty report %#v", report)
	}
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := Run(ctx, &testChecker{items: []CheckResult{{ID: "a", Status: StatusOK}}})
	if report.Status != StatusUnknown || len(report.Checks) != 0 {
		t.Fatalf("unexpected report %#v", report)
	}
}
