package prune

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTextUnderBudgetIsUnchanged(t *testing.T) {
	t.Parallel()

	in := "short message"
	if got := Text(in, Config{MaxBytes: 100}); got != in {
		t.Fatalf("expected unchanged, got %q", got)
	}
}

func TestTextKeepsHeadAndTail(t *testing.T) {
	t.Parallel()

	in := "BEGIN " + strings.Repeat("x", 500) + " END"
	got := Text(in, Config{MaxBytes: 100, Marker: " ... "})
	if len(got) > 100 {
		t.Fatalf("expected at most 100 bytes, got %d", len(got))
	}
	if !strings.HasPrefix(got, "BEGIN ") || !strings.HasSuffix(got, " END") {
		t.Fatalf("expected head and tail kept, got %q", got)
	}
	if !strings.Contains(got, " ... ") {
		t.Fatalf("expected marker, got %q", got)
	}
}

func TestTextNeverSplitsRunes(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("ñá€", 200)
	for _, max := range []int{1, 2, 7, 10, 33, 64, 101} {
		got := Text(in, Config{MaxBytes: max})
		if len(got) > max {
			t.Fatalf("max=%d got %d bytes", max, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("max=%d produced invalid utf-8 %q", max, got)
		}
	}
}

func TestTextDefaults(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("a", DefaultMaxBytes+10)
	got := Text(in, Config{})
	if len(got) > DefaultMaxBytes || !strings.Contains(got, DefaultMarker) {
		t.Fatalf("unexpected default pruning, len=%d", len(got))
	}
}

func TestTail(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	got := Tail(items, 2)
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("unexpected tail %v", got)
	}
	got[0] = 99
	if items[3] != 4 {
		t.Fatal("tail must not alias the input")
	}
	if all := Tail(items, 0); len(all) != 5 {
		t.Fatalf("expected all items, got %v", all)
	}
	if all := Tail(items, 10); len(all) != 5 {
		t.Fatalf("expected all items, got %v", all)
	}
	if empty := Tail([]int(nil), 3); len(empty) != 0 {
		t.Fatalf("expected empty, got %v", empty)
	}
}
