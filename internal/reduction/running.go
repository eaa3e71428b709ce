// Package reduction implements the pure temporal reductions: running
// balances over chronological events and daily series collapse.
package reduction

import (
	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// ReduceBalances walks a chronological event sequence maintaining an
// address -> balance-entry table and emits one snapshot of all known
// balances after each event. Entries are created lazily at zero on first
// sight of an address and keep first-seen order.
//
// Accumulators hold full precision; only the emitted snapshot values are
// rounded to 2 decimal places. Rounded values are never fed back into
// the accumulator, so two runs over the same input are identical no
// matter where the series is later truncated.
func ReduceBalances(events []domain.Event) []domain.Snapshot {
	type account struct {
		amount    decimal.Decimal
		delegated decimal.Decimal
	}

	index := make(map[string]int, len(events))
	var order []string
	var accounts []account

	snapshots := make([]domain.Snapshot, 0, len(events))

	for _, e := range events {
		i, ok := index[e.Sender]
		if !ok {
			i = len(accounts)
			index[e.Sender] = i
			order = append(order, e.Sender)
			accounts = append(accounts, account{})
		}

		if e.Delegate != "" {
			accounts[i].delegated = accounts[i].delegated.Add(e.Amount)
		} else {
			accounts[i].amount = accounts[i].amount.Add(e.Amount)
		}

		balances := make([]domain.BalanceEntry, len(accounts))
		for j, acc := range accounts {
			balances[j] = domain.BalanceEntry{
				Address:   order[j],
				Amount:    acc.amount.Round(2),
				Delegated: acc.delegated.Round(2),
			}
		}
		snapshots = append(snapshots, domain.Snapshot{Time: e.Time, Balances: balances})
	}

	return snapshots
}

// ReduceRunningTotal is the single-stream variant: a scalar cumulative
// sum over event amounts, one point per event, rounded at emission only.
func ReduceRunningTotal(events []domain.Event) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(events))

	running := decimal.Zero
	for _, e := range events {
		running = running.Add(e.Amount)
		points = append(points, domain.SeriesPoint{Time: e.Time, Amount: running.Round(2)})
	}

	return points
}
