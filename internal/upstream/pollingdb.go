package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DefaultPollingAPIURL is the production polling database endpoint.
const DefaultPollingAPIURL = "https://pollingdb2-mainnet-prod.makerdux.com/api/v1"

// PollingClient fetches delegate and poll records from the polling
// database GraphQL API.
type PollingClient struct {
	gql graphqlClient
}

// NewPollingClient creates a polling database client. A nil httpClient
// falls back to a default client with DefaultTimeout.
func NewPollingClient(endpoint string, httpClient *http.Client) *PollingClient {
	if endpoint == "" {
		endpoint = DefaultPollingAPIURL
	}
	return &PollingClient{gql: newGraphqlClient(endpoint, httpClient)}
}

const allDelegatesQuery = `query allDelegates {
  allDelegates {
    nodes {
      blockTimestamp
      voteDelegate
    }
  }
}`

// Delegates returns the full delegate roster.
func (c *PollingClient) Delegates(ctx context.Context) ([]domain.DelegateSummary, error) {
	var data struct {
		AllDelegates struct {
			Nodes []struct {
				BlockTimestamp time.Time `json:"blockTimestamp"`
				VoteDelegate   string    `json:"voteDelegate"`
			} `json:"nodes"`
		} `json:"allDelegates"`
	}

	req := graphqlRequest{Query: allDelegatesQuery, OperationName: "allDelegates"}
	if err := c.gql.query(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("fetching delegates: %w", err)
	}

	roster := make([]domain.DelegateSummary, len(data.AllDelegates.Nodes))
	for i, n := range data.AllDelegates.Nodes {
		roster[i] = domain.DelegateSummary{
			VoteDelegate:   n.VoteDelegate,
			BlockTimestamp: n.BlockTimestamp,
		}
	}
	return roster, nil
}

const delegationsQuery = `query mkrLockedDelegateArrayTotalsV2 {
  mkrLockedDelegateArrayTotalsV2 {
    nodes {
      fromAddress
      blockTimestamp
      lockAmount
      lockTotal
      immediateCaller
    }
  }
}`

// Delegations returns the delegation event stream of one delegate. The
// API reports the delegating address in immediateCaller, so the client
// swaps it into fromAddress and attributes every record to the queried
// delegate.
func (c *PollingClient) Delegations(ctx context.Context, delegate string) ([]domain.DelegationRecord, error) {
	var data struct {
		Totals struct {
			Nodes []struct {
				FromAddress     string          `json:"fromAddress"`
				BlockTimestamp  time.Time       `json:"blockTimestamp"`
				LockAmount      decimal.Decimal `json:"lockAmount"`
				LockTotal       decimal.Decimal `json:"lockTotal"`
				ImmediateCaller string          `json:"immediateCaller"`
			} `json:"nodes"`
		} `json:"mkrLockedDelegateArrayTotalsV2"`
	}

	req := graphqlRequest{
		Query:         delegationsQuery,
		OperationName: "mkrLockedDelegateArrayTotalsV2",
		Variables: map[string]any{
			"argAddress":       delegate,
			"argUnixTimeStart": 0,
			"argUnixTimeEnd":   time.Now().Unix(),
		},
	}
	if err := c.gql.query(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("fetching delegations for %s: %w", delegate, err)
	}

	records := make([]domain.DelegationRecord, len(data.Totals.Nodes))
	for i, n := range data.Totals.Nodes {
		records[i] = domain.DelegationRecord{
			FromAddress:     n.ImmediateCaller,
			BlockTimestamp:  n.BlockTimestamp,
			LockAmount:      n.LockAmount,
			LockTotal:       n.LockTotal,
			ImmediateCaller: delegate,
		}
	}
	return records, nil
}

const activePollsQuery = `query activePolls {
  activePolls {
    nodes {
      pollId
      startDate
    }
  }
}`

// ActivePolls returns the poll roster.
func (c *PollingClient) ActivePolls(ctx context.Context) ([]domain.Poll, error) {
	var data struct {
		ActivePolls struct {
			Nodes []struct {
				PollID    int   `json:"pollId"`
				StartDate int64 `json:"startDate"`
			} `json:"nodes"`
		} `json:"activePolls"`
	}

	req := graphqlRequest{Query: activePollsQuery, OperationName: "activePolls"}
	if err := c.gql.query(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("fetching polls: %w", err)
	}

	polls := make([]domain.Poll, len(data.ActivePolls.Nodes))
	for i, n := range data.ActivePolls.Nodes {
		polls[i] = domain.Poll{
			PollID:    n.PollID,
			StartDate: time.Unix(n.StartDate, 0).UTC(),
		}
	}
	return polls, nil
}

const uniqueVotersQuery = `query uniqueVoters {
  uniqueVoters {
    nodes
  }
}`

// UniqueVoters returns the distinct voter count of one poll.
func (c *PollingClient) UniqueVoters(ctx context.Context, pollID int) (int, error) {
	var data struct {
		UniqueVoters struct {
			Nodes []decimal.Decimal `json:"nodes"`
		} `json:"uniqueVoters"`
	}

	req := graphqlRequest{
		Query:         uniqueVotersQuery,
		OperationName: "uniqueVoters",
		Variables:     map[string]any{"argPollId": pollID},
	}
	if err := c.gql.query(ctx, req, &data); err != nil {
		return 0, fmt.Errorf("fetching voters for poll %d: %w", pollID, err)
	}

	if len(data.UniqueVoters.Nodes) == 0 {
		return 0, fmt.Errorf("%w: poll %d has no voter count", ErrUpstream, pollID)
	}
	return int(data.UniqueVoters.Nodes[0].IntPart()), nil
}
