package delegates

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// ErrUnknownDelegate reports a delegation event whose delegate is not in
// the roster. It makes the per-delegate history view unavailable; other
// views are unaffected.
var ErrUnknownDelegate = errors.New("delegation references unknown delegate")

// BalanceHistory walks chronological delegation events against the
// ranked roster, accumulating each delegate's locked total, and emits
// the whole table after every event. Accumulators keep full precision;
// emitted amounts are rounded to 2 decimal places.
func BalanceHistory(events []domain.Event, roster []domain.DelegateBalance) ([]domain.DelegateSnapshot, error) {
	index := make(map[string]int, len(roster))
	names := make([]string, len(roster))
	addresses := make([]string, len(roster))
	totals := make([]decimal.Decimal, len(roster))

	for i, d := range roster {
		index[d.VoteDelegate] = i
		names[i] = d.Name
		addresses[i] = d.VoteDelegate
	}

	history := make([]domain.DelegateSnapshot, 0, len(events))

	for _, e := range events {
		i, ok := index[e.Delegate]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDelegate, e.Delegate)
		}
		totals[i] = totals[i].Add(e.Amount)

		balances := make([]domain.DelegatePoint, len(roster))
		for j := range roster {
			balances[j] = domain.DelegatePoint{
				Name:    names[j],
				Address: addresses[j],
				Amount:  totals[j].Round(2),
			}
		}
		history = append(history, domain.DelegateSnapshot{Time: e.Time, Balances: balances})
	}

	return history, nil
}
