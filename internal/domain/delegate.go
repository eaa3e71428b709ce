package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delegate status values as reported by the metadata endpoint.
const (
	StatusRecognized = "recognized"
	StatusShadow     = "shadow"
)

// ShadowNamePlaceholder is the literal the metadata endpoint uses for
// delegates without a real display name. It is normalized to "".
const ShadowNamePlaceholder = "Shadow Delegate"

// DelegateBalance is one delegate's derived totals enriched with
// external metadata. LockTotal and DelegatorCount are derived from the
// delegate's own event stream, never independently mutated.
type DelegateBalance struct {
	VoteDelegate    string          `json:"voteDelegate"`
	LockTotal       decimal.Decimal `json:"lockTotal"`
	DelegatorCount  int             `json:"delegatorCount"`
	Name            string          `json:"name"`
	Status          string          `json:"status"`
	Expired         bool            `json:"expired"`
	IsAboutToExpire bool            `json:"isAboutToExpire"`
}

// DelegateMetadata is the raw metadata record for one delegate identity.
type DelegateMetadata struct {
	VoteDelegateAddress string `json:"voteDelegateAddress"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	Expired             bool   `json:"expired"`
	IsAboutToExpire     bool   `json:"isAboutToExpire"`
}

// DelegateSummary is one entry of the delegate roster.
type DelegateSummary struct {
	VoteDelegate   string
	BlockTimestamp time.Time
}

// DelegatePoint is one delegate's cumulative locked amount within a
// DelegateSnapshot.
type DelegatePoint struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// DelegateSnapshot is the per-delegate balance table immediately after
// one delegation event.
type DelegateSnapshot struct {
	Time     time.Time       `json:"time"`
	Balances []DelegatePoint `json:"balances"`
}
