package delegates

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DefaultMinBalance is the materiality floor below which balances are
// dropped from the classification. Policy, not a hard rule: callers may
// pass their own floor.
var DefaultMinBalance = decimal.NewFromFloat(0.01)

// GroupBalances partitions the most recent balance snapshot into
// recognized-delegate, shadow-delegate and plain-user buckets using the
// delegate roster. Balances below minBalance or belonging to an expired
// delegate are dropped entirely, not re-bucketed. Each bucket comes out
// sorted descending by amount.
func GroupBalances(roster []domain.DelegateBalance, latest domain.Snapshot, minBalance decimal.Decimal) domain.GroupedBalances {
	recognized := make(map[string]string) // address -> display name
	shadow := make(map[string]struct{})
	expired := make(map[string]struct{})

	for _, d := range roster {
		switch d.Status {
		case domain.StatusRecognized:
			recognized[d.VoteDelegate] = d.Name
		case domain.StatusShadow:
			shadow[d.VoteDelegate] = struct{}{}
		}
		if d.Expired {
			expired[d.VoteDelegate] = struct{}{}
		}
	}

	filtered := make([]domain.BalanceEntry, 0, len(latest.Balances))
	for _, b := range latest.Balances {
		if b.Amount.LessThan(minBalance) {
			continue
		}
		if _, ok := expired[b.Address]; ok {
			continue
		}
		filtered = append(filtered, b)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Amount.GreaterThan(filtered[j].Amount)
	})

	grouped := domain.GroupedBalances{
		RecognizedDelegates: []domain.NamedBalance{},
		ShadowDelegates:     []domain.AddressBalance{},
		Users:               []domain.AddressBalance{},
	}

	for _, b := range filtered {
		if name, ok := recognized[b.Address]; ok {
			grouped.RecognizedDelegates = append(grouped.RecognizedDelegates, domain.NamedBalance{
				Address: b.Address,
				Name:    name,
				Amount:  b.Amount,
			})
			continue
		}
		if _, ok := shadow[b.Address]; ok {
			grouped.ShadowDelegates = append(grouped.ShadowDelegates, domain.AddressBalance{
				Address: b.Address,
				Amount:  b.Amount,
			})
			continue
		}
		grouped.Users = append(grouped.Users, domain.AddressBalance{
			Address: b.Address,
			Amount:  b.Amount,
		})
	}

	return grouped
}
