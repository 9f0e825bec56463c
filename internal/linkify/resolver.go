package linkify

import "sort"

// Resolve reduces overlapping candidates to a non-overlapping sequence
// ordered by Start. Candidates are taken earliest first and, for equal
// starts, longest first; anything overlapping an accepted match is dropped.
func Resolve(candidates []Match) []Match {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]Match, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})
	out := make([]Match, 0, len(sorted))
	lastEnd := -1
	for _, m := range sorted {
		if m.Start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.End
	}
	return out
}
