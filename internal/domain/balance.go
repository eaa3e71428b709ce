package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceEntry holds one account's non-delegated ("staked") balance and
// its delegated-out balance, accumulated independently.
type BalanceEntry struct {
	Address   string          `json:"sender"`
	Amount    decimal.Decimal `json:"amount"`
	Delegated decimal.Decimal `json:"delegated"`
}

// Snapshot is the full set of known account balances immediately after
// processing one event. Entries keep first-seen account order.
type Snapshot struct {
	Time     time.Time      `json:"time"`
	Balances []BalanceEntry `json:"balances"`
}

// SeriesPoint is one point of a scalar running-total series, used for
// the delegated-MKR and staked-MKR charts.
type SeriesPoint struct {
	Time   time.Time       `json:"time"`
	Amount decimal.Decimal `json:"amount"`
}

// NamedBalance is a classified balance with delegate display name.
type NamedBalance struct {
	Address string          `json:"address"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
}

// AddressBalance is a classified balance without a display name.
type AddressBalance struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// GroupedBalances partitions the latest balance snapshot into
// recognized-delegate, shadow-delegate and plain-user buckets. The
// partition is disjoint and exhaustive over addresses that pass the
// materiality and expiry filters.
type GroupedBalances struct {
	RecognizedDelegates []NamedBalance   `json:"recognizedDelegates"`
	ShadowDelegates     []AddressBalance `json:"shadowDelegates"`
	Users               []AddressBalance `json:"users"`
}
