package normalization

import (
	"sort"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// SortEvents orders events ascending by time. The sort is stable: events
// with equal timestamps keep their relative input order, which is the
// only tiebreak the domain provides.
func SortEvents(events []domain.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
}

// MergeChronological merges one or more event streams into a single
// time-ascending sequence. Sources arrive pre-grouped by type, not
// globally sorted; the running-balance reducer depends on the merged
// order being causal. Ties between and within streams keep stream
// submission order.
func MergeChronological(streams ...[]domain.Event) []domain.Event {
	var total int
	for _, s := range streams {
		total += len(s)
	}

	merged := make([]domain.Event, 0, total)
	for _, s := range streams {
		merged = append(merged, s...)
	}

	SortEvents(merged)
	return merged
}
