package upstream

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DefaultChiefAddress is the mainnet chief (voting) contract.
const DefaultChiefAddress = "0x0a3f6849f78076aefaDf113F5BED87720274dDC0"

// ChiefDeployBlock is the block the chief contract was deployed at;
// log filters start here.
const ChiefDeployBlock = 0x487813

// LogNote selectors for the chief's lock and free calls. Sender and
// amount travel in the indexed topics, not the data payload.
var (
	lockTopic = common.HexToHash("0xdd46706400000000000000000000000000000000000000000000000000000000")
	freeTopic = common.HexToHash("0xd8ccd0f300000000000000000000000000000000000000000000000000000000")
)

// LogFilterer is the slice of the Ethereum client the chief fetcher
// needs. *ethclient.Client satisfies it.
type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// ChiefClient fetches chief lock/free stake events from an Ethereum node.
type ChiefClient struct {
	eth       LogFilterer
	chief     common.Address
	fromBlock *big.Int
}

// NewChiefClient wraps an existing log filterer.
func NewChiefClient(eth LogFilterer, chiefAddress string) *ChiefClient {
	if chiefAddress == "" {
		chiefAddress = DefaultChiefAddress
	}
	return &ChiefClient{
		eth:       eth,
		chief:     common.HexToAddress(chiefAddress),
		fromBlock: big.NewInt(ChiefDeployBlock),
	}
}

// DialChiefClient connects to an Ethereum RPC endpoint and returns a
// chief client on top of it.
func DialChiefClient(ctx context.Context, rpcURL, chiefAddress string) (*ChiefClient, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrUpstream, rpcURL, err)
	}
	return NewChiefClient(eth, chiefAddress), nil
}

// StakeEvents returns all lock and free events since deployment as
// signed stake records: positive amounts for locks, negative for frees.
// Ordering is left to the normalizer.
func (c *ChiefClient) StakeEvents(ctx context.Context) ([]domain.StakeRecord, error) {
	locks, err := c.filter(ctx, lockTopic)
	if err != nil {
		return nil, fmt.Errorf("fetching lock events: %w", err)
	}
	frees, err := c.filter(ctx, freeTopic)
	if err != nil {
		return nil, fmt.Errorf("fetching free events: %w", err)
	}

	records := make([]domain.StakeRecord, 0, len(locks)+len(frees))
	for _, l := range locks {
		r, ok := stakeRecordFromLog(l, false)
		if ok {
			records = append(records, r)
		}
	}
	for _, l := range frees {
		r, ok := stakeRecordFromLog(l, true)
		if ok {
			records = append(records, r)
		}
	}
	return records, nil
}

func (c *ChiefClient) filter(ctx context.Context, selector common.Hash) ([]types.Log, error) {
	q := ethereum.FilterQuery{
		FromBlock: c.fromBlock,
		Addresses: []common.Address{c.chief},
		Topics:    [][]common.Hash{{selector}},
	}
	logs, err := c.eth.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return logs, nil
}

// stakeRecordFromLog decodes sender and amount from a LogNote's indexed
// topics. Logs without both topics are malformed and dropped.
func stakeRecordFromLog(l types.Log, negate bool) (domain.StakeRecord, bool) {
	if len(l.Topics) < 3 {
		return domain.StakeRecord{}, false
	}

	// Lowercase hex so stake senders join against the polling db's
	// lowercase addresses.
	sender := strings.ToLower(common.BytesToAddress(l.Topics[1].Bytes()).Hex())
	wei := new(big.Int).SetBytes(l.Topics[2].Bytes())
	amount := decimal.NewFromBigInt(wei, -18)
	if negate {
		amount = amount.Neg()
	}

	return domain.StakeRecord{
		BlockNumber: l.BlockNumber,
		Sender:      sender,
		Amount:      amount,
	}, true
}
