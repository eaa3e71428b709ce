// Package delegates derives per-delegate totals, the delegate ranking
// and the classified balance breakdown.
package delegates

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DelegateStream couples one delegate identity with the raw delegation
// records of its own event stream.
type DelegateStream struct {
	VoteDelegate string
	Records      []domain.DelegationRecord
}

// BuildRanking computes each delegate's lock total and delegator count
// from its own stream, overlays external metadata by address match, and
// returns the ranking sorted descending by lock total. The sort is
// stable, so equal totals keep relative input order.
//
// Lock total is the last cumulative total of the stream (zero for an
// empty stream), not a recomputed sum: upstream already accumulates it.
func BuildRanking(streams []DelegateStream, metadata []domain.DelegateMetadata) []domain.DelegateBalance {
	byAddress := make(map[string]domain.DelegateMetadata, len(metadata))
	for _, m := range metadata {
		byAddress[m.VoteDelegateAddress] = m
	}

	ranking := make([]domain.DelegateBalance, 0, len(streams))
	for _, s := range streams {
		b := domain.DelegateBalance{
			VoteDelegate:   s.VoteDelegate,
			LockTotal:      decimal.Zero,
			DelegatorCount: CountActiveDelegators(s.Records),
		}
		if n := len(s.Records); n > 0 {
			b.LockTotal = s.Records[n-1].LockTotal
		}

		if m, ok := byAddress[s.VoteDelegate]; ok {
			b.Name = m.Name
			if m.Name == domain.ShadowNamePlaceholder {
				b.Name = ""
			}
			b.Status = m.Status
			b.Expired = m.Expired
			b.IsAboutToExpire = m.IsAboutToExpire
		}

		ranking = append(ranking, b)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].LockTotal.GreaterThan(ranking[j].LockTotal)
	})

	return ranking
}

// CountActiveDelegators counts distinct delegator addresses whose net
// contribution across the given records is strictly positive. A
// delegator who has fully withdrawn does not count.
func CountActiveDelegators(records []domain.DelegationRecord) int {
	net := make(map[string]decimal.Decimal)
	for _, r := range records {
		net[r.FromAddress] = net[r.FromAddress].Add(r.LockAmount)
	}

	count := 0
	for _, total := range net {
		if total.IsPositive() {
			count++
		}
	}
	return count
}
