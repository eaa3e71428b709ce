package reduction

import "time"

// dayLayout keys a point to its UTC calendar day.
const dayLayout = "2006-01-02"

// LastPerDay collapses a chronological series to at most one entry per
// UTC calendar day, keeping the last entry observed for that day. The
// output preserves the order in which days were first seen, so a
// chronological input stays chronological. Collapsing an already
// collapsed series is a no-op.
func LastPerDay[T any](points []T, at func(T) time.Time) []T {
	if len(points) == 0 {
		return nil
	}

	index := make(map[string]int, len(points))
	out := make([]T, 0, len(points))

	for _, p := range points {
		key := at(p).UTC().Format(dayLayout)
		if i, ok := index[key]; ok {
			out[i] = p
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}

	return out
}
