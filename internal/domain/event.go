package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the canonical balance-affecting action every raw record is
// normalized into. Amount is signed: positive for lock/delegate inflow,
// negative for free/undelegate outflow. Delegate is empty for plain
// stake events.
type Event struct {
	Time     time.Time
	Sender   string
	Amount   decimal.Decimal
	Delegate string // empty when the event does not target a delegate
}

// DelegationRecord is a raw delegation lock event as returned by the
// polling database, attributed to one delegate stream.
type DelegationRecord struct {
	FromAddress     string
	BlockTimestamp  time.Time
	LockAmount      decimal.Decimal
	LockTotal       decimal.Decimal // cumulative total after this record
	ImmediateCaller string          // the delegate contract address
}

// StakeRecord is a raw chief lock/free event. Amount is already signed:
// positive for lock, negative for free. The block number still needs to
// be resolved to a timestamp before the record becomes an Event.
type StakeRecord struct {
	BlockNumber uint64
	Sender      string
	Amount      decimal.Decimal
}
