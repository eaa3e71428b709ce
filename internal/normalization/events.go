// Package normalization converts heterogeneous raw governance records
// into the canonical Event shape and orders them chronologically.
package normalization

import (
	"sort"
	"time"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// NormalizeDelegations maps raw delegation lock records to Events.
// Sender is the delegating address, Delegate the delegate contract, and
// Amount the signed lock amount as given by upstream.
func NormalizeDelegations(records []domain.DelegationRecord) []domain.Event {
	events := make([]domain.Event, len(records))
	for i, r := range records {
		events[i] = domain.Event{
			Time:     r.BlockTimestamp,
			Sender:   r.FromAddress,
			Amount:   r.LockAmount,
			Delegate: r.ImmediateCaller,
		}
	}
	return events
}

// StakeResult is the outcome of normalizing stake records. Records whose
// block number is absent from the timestamp lookup are skipped, not
// fatal: stake history is best-effort across data-integrity gaps.
type StakeResult struct {
	Events        []domain.Event
	SkippedBlocks []uint64
}

// NormalizeStakeRecords resolves block numbers to timestamps and maps
// chief lock/free records to Events. Records are ordered by block number
// first so that equal-timestamp events keep blockchain order.
func NormalizeStakeRecords(records []domain.StakeRecord, blockTimes map[uint64]time.Time) StakeResult {
	sorted := make([]domain.StakeRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BlockNumber < sorted[j].BlockNumber
	})

	var res StakeResult
	for _, r := range sorted {
		ts, ok := blockTimes[r.BlockNumber]
		if !ok {
			res.SkippedBlocks = append(res.SkippedBlocks, r.BlockNumber)
			continue
		}
		res.Events = append(res.Events, domain.Event{
			Time:   ts,
			Sender: r.Sender,
			Amount: r.Amount,
		})
	}
	return res
}
