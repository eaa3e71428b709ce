package upstream

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFilterer answers FilterLogs from a per-selector log map.
type fakeFilterer struct {
	logs    map[common.Hash][]types.Log
	queries []ethereum.FilterQuery
	err     error
}

func (f *fakeFilterer) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.logs[q.Topics[0][0]], nil
}

func logNote(selector common.Hash, sender common.Address, wei *big.Int, block uint64) types.Log {
	return types.Log{
		BlockNumber: block,
		Topics: []common.Hash{
			selector,
			common.BytesToHash(sender.Bytes()),
			common.BigToHash(wei),
		},
	}
}

func mkr(s string) *big.Int {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal: " + s)
	}
	return wei
}

func TestChiefClient_StakeEvents(t *testing.T) {
	sender := common.HexToAddress("0xAbCdEF0123456789abcdef0123456789ABCDEF01")
	eth := &fakeFilterer{logs: map[common.Hash][]types.Log{
		lockTopic: {logNote(lockTopic, sender, mkr("2500000000000000000"), 100)}, // 2.5 MKR
		freeTopic: {logNote(freeTopic, sender, mkr("1000000000000000000"), 200)}, // 1 MKR
	}}

	client := NewChiefClient(eth, "")
	records, err := client.StakeEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)

	lock, free := records[0], records[1]
	assert.Equal(t, uint64(100), lock.BlockNumber)
	assert.True(t, lock.Amount.Equal(decimal.RequireFromString("2.5")), "got %s", lock.Amount)
	assert.True(t, free.Amount.Equal(decimal.RequireFromString("-1")), "got %s", free.Amount)

	// Senders join against the polling db's lowercase addresses.
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", lock.Sender)

	// Both filters start at the chief deployment and target its address.
	require.Len(t, eth.queries, 2)
	for _, q := range eth.queries {
		assert.Equal(t, big.NewInt(ChiefDeployBlock), q.FromBlock)
		assert.Equal(t, []common.Address{common.HexToAddress(DefaultChiefAddress)}, q.Addresses)
	}
}

func TestChiefClient_DropsMalformedLogs(t *testing.T) {
	eth := &fakeFilterer{logs: map[common.Hash][]types.Log{
		lockTopic: {{BlockNumber: 100, Topics: []common.Hash{lockTopic}}},
	}}

	client := NewChiefClient(eth, "")
	records, err := client.StakeEvents(context.Background())
	require.NoError(t, err)

	assert.Empty(t, records)
}

func TestChiefClient_FilterErrorIsUpstream(t *testing.T) {
	eth := &fakeFilterer{err: errors.New("node unavailable")}

	client := NewChiefClient(eth, "")
	_, err := client.StakeEvents(context.Background())

	require.ErrorIs(t, err, ErrUpstream)
}
