package linkify

import (
	"math/rand"
	"testing"
)

func TestResolvePrefersEarliestThenLongest(t *testing.T) {
	t.Parallel()

	candidates := []Match{
		{Start: 5, End: 30, Kind: KindAbsoluteURL},
		{Start: 0, End: 40, Kind: KindMarkdown},
		{Start: 41, End: 45, Kind: KindRelativePath},
		{Start: 41, End: 50, Kind: KindAbsoluteURL},
		{Start: 49, End: 55, Kind: KindMailOrTel},
	}
	got := Resolve(candidates)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %#v", got)
	}
	if got[0].Kind != KindMarkdown || got[1].Kind != KindAbsoluteURL || got[1].End != 50 {
		t.Fatalf("unexpected resolution: %#v", got)
	}
}

func TestResolveAdjacentMatchesBothSurvive(t *testing.T) {
	t.Parallel()

	got := Resolve([]Match{{Start: 4, End: 8}, {Start: 0, End: 4}})
	if len(got) != 2 || got[0].Start != 0 || got[1].Start != 4 {
		t.Fatalf("unexpected resolution: %#v", got)
	}
}

func TestResolveEmpty(t *testing.T) {
	t.Parallel()

	if got := Resolve(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %#v", got)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []Match{{Start: 9, End: 10}, {Start: 1, End: 2}}
	_ = Resolve(in)
	if in[0].Start != 9 || in[1].Start != 1 {
		t.Fatalf("input reordered: %#v", in)
	}
}

func TestResolveInvariantsRandomised(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 500; round++ {
		n := rng.Intn(12)
		candidates := make([]Match, 0, n)
		for i := 0; i < n; i++ {
			start := rng.Intn(40)
			candidates = append(candidates, Match{Start: start, End: start + 1 + rng.Intn(10)})
		}
		got := Resolve(candidates)
		for i := 1; i < len(got); i++ {
			if got[i].Start < got[i-1].End {
				t.Fatalf("round %d: overlap between %#v and %#v", round, got[i-1], got[i])
			}
			if got[i].Start < got[i-1].Start {
				t.Fatalf("round %d: not sorted: %#v", round, got)
			}
		}
		// For equal starts the retained candidate is the longest one.
		longest := map[int]int{}
		for _, c := range candidates {
			if c.End > longest[c.Start] {
				longest[c.Start] = c.End
			}
		}
		for _, m := range got {
			if m.End != longest[m.Start] {
				t.Fatalf("round %d: start %d kept end %d, longest is %d", round, m.Start, m.End, longest[m.Start])
			}
		}
	}
}

func TestResolveScannerOutput(t *testing.T) {
	t.Parallel()

	text := "[Label](https://example.com/x)"
	got := Resolve(Scan(text))
	if len(got) != 1 || got[0].Kind != KindMarkdown {
		t.Fatalf("expected markdown match to shadow inner url, got %#v", got)
	}
}
