// Package flowgraph builds the sankey-ready weighted graph of
// delegator→delegate relationships.
package flowgraph

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DefaultLargeDelegatorMin is the total above which a delegator keeps an
// individual node instead of being folded into "others".
var DefaultLargeDelegatorMin = decimal.NewFromInt(500)

// ExcludedDelegates returns the set of delegate addresses whose inflows
// are left out of the graph: shadow and expired delegates.
func ExcludedDelegates(metadata []domain.DelegateMetadata) map[string]struct{} {
	excluded := make(map[string]struct{})
	for _, m := range metadata {
		if m.Status == domain.StatusShadow || m.Expired {
			excluded[m.VoteDelegateAddress] = struct{}{}
		}
	}
	return excluded
}

// AggregateDelegators folds delegation events into per-delegator totals
// with a per-delegate breakdown. Events targeting an excluded delegate
// are dropped. Delegators and their breakdown entries keep first-seen
// order; there is at most one share per (delegator, delegate) pair.
func AggregateDelegators(events []domain.Event, excluded map[string]struct{}) []domain.DelegatorTotal {
	index := make(map[string]int)
	var totals []domain.DelegatorTotal

	for _, e := range events {
		if _, ok := excluded[e.Delegate]; ok {
			continue
		}

		i, ok := index[e.Sender]
		if !ok {
			i = len(totals)
			index[e.Sender] = i
			totals = append(totals, domain.DelegatorTotal{Delegator: e.Sender})
		}

		d := &totals[i]
		d.TotalDelegated = d.TotalDelegated.Add(e.Amount)

		found := false
		for j := range d.Delegations {
			if d.Delegations[j].Delegate == e.Delegate {
				d.Delegations[j].Amount = d.Delegations[j].Amount.Add(e.Amount)
				found = true
				break
			}
		}
		if !found {
			d.Delegations = append(d.Delegations, domain.DelegateShare{
				Delegate: e.Delegate,
				Amount:   e.Amount,
			})
		}
	}

	return totals
}

// Build constructs the flow graph from per-delegator totals. Delegators
// with a non-positive total are excluded; so are non-positive shares.
// Delegators below largeMin are merged into a single "others" node whose
// shares are the elementwise sum of the merged breakdowns. Each
// delegator's edges come out sorted descending by value.
func Build(delegators []domain.DelegatorTotal, largeMin decimal.Decimal) domain.FlowGraph {
	kept := make([]domain.DelegatorTotal, 0, len(delegators))
	for _, d := range delegators {
		if !d.TotalDelegated.IsPositive() {
			continue
		}
		shares := make([]domain.DelegateShare, 0, len(d.Delegations))
		for _, s := range d.Delegations {
			if s.Amount.IsPositive() {
				shares = append(shares, s)
			}
		}
		kept = append(kept, domain.DelegatorTotal{
			Delegator:      d.Delegator,
			TotalDelegated: d.TotalDelegated,
			Delegations:    shares,
		})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].TotalDelegated.GreaterThan(kept[j].TotalDelegated)
	})

	var large []domain.DelegatorTotal
	others := domain.DelegatorTotal{Delegator: domain.OthersNode}
	for _, d := range kept {
		if d.TotalDelegated.GreaterThanOrEqual(largeMin) {
			large = append(large, d)
			continue
		}
		others.TotalDelegated = others.TotalDelegated.Add(d.TotalDelegated)
		for _, s := range d.Delegations {
			merged := false
			for j := range others.Delegations {
				if others.Delegations[j].Delegate == s.Delegate {
					others.Delegations[j].Amount = others.Delegations[j].Amount.Add(s.Amount)
					merged = true
					break
				}
			}
			if !merged {
				others.Delegations = append(others.Delegations, s)
			}
		}
	}

	all := large
	if len(others.Delegations) > 0 {
		all = append(all, others)
	}

	var graph domain.FlowGraph
	seen := make(map[string]struct{})

	for _, d := range all {
		if _, ok := seen[d.Delegator]; !ok {
			seen[d.Delegator] = struct{}{}
			graph.Nodes = append(graph.Nodes, domain.FlowNode{ID: d.Delegator})
		}
	}
	for _, d := range all {
		for _, s := range d.Delegations {
			if _, ok := seen[s.Delegate]; !ok {
				seen[s.Delegate] = struct{}{}
				graph.Nodes = append(graph.Nodes, domain.FlowNode{ID: s.Delegate})
			}
		}
	}

	for _, d := range all {
		shares := make([]domain.DelegateShare, len(d.Delegations))
		copy(shares, d.Delegations)
		sort.SliceStable(shares, func(i, j int) bool {
			return shares[i].Amount.GreaterThan(shares[j].Amount)
		})
		for _, s := range shares {
			graph.Links = append(graph.Links, domain.FlowLink{
				Source: d.Delegator,
				Target: s.Delegate,
				Value:  s.Amount,
			})
		}
	}

	return graph
}
