package domain

import "github.com/shopspring/decimal"

// OthersNode is the synthetic delegator identity that aggregates all
// small delegators in the flow graph.
const OthersNode = "others"

// DelegateShare is one (delegate, amount) component of a delegator's
// breakdown.
type DelegateShare struct {
	Delegate string          `json:"delegate"`
	Amount   decimal.Decimal `json:"amount"`
}

// DelegatorTotal is one delegator's aggregated position: its total
// delegated amount and the per-delegate breakdown it is composed of.
type DelegatorTotal struct {
	Delegator      string          `json:"delegator"`
	TotalDelegated decimal.Decimal `json:"totalDelegated"`
	Delegations    []DelegateShare `json:"delegations"`
}

// FlowNode is one node of the delegator→delegate flow graph.
type FlowNode struct {
	ID string `json:"id"`
}

// FlowLink is one weighted edge of the flow graph. At most one edge
// exists per (source, target) pair; amounts are pre-summed.
type FlowLink struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Value  decimal.Decimal `json:"value"`
}

// FlowGraph is a sankey-ready weighted bipartite graph. Every link
// endpoint appears in Nodes.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}
