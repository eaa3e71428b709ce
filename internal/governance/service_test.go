package governance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/delegates"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/governance/stub"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/upstream"
)

func at(unix int64) time.Time {
	return time.Unix(unix, 0).UTC()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testService(deleg *stub.DelegationSource, meta *stub.MetadataSource, stake *stub.StakeSource, blocks *stub.BlockSource, polls *stub.PollSource) *Service {
	if deleg == nil {
		deleg = &stub.DelegationSource{}
	}
	if meta == nil {
		meta = &stub.MetadataSource{}
	}
	if stake == nil {
		stake = &stub.StakeSource{}
	}
	if blocks == nil {
		blocks = &stub.BlockSource{}
	}
	if polls == nil {
		polls = &stub.PollSource{}
	}
	return New(deleg, meta, stake, blocks, polls, nil, Config{FetchWorkers: 2})
}

func TestGovernanceData_RankingAndRunningTotal(t *testing.T) {
	deleg := &stub.DelegationSource{
		Roster: []domain.DelegateSummary{
			{VoteDelegate: "0xd1", BlockTimestamp: at(1)},
			{VoteDelegate: "0xd2", BlockTimestamp: at(2)},
		},
		Streams: map[string][]domain.DelegationRecord{
			"0xd1": {
				{FromAddress: "0xa", BlockTimestamp: at(100), LockAmount: dec("10"), LockTotal: dec("10"), ImmediateCaller: "0xd1"},
				{FromAddress: "0xb", BlockTimestamp: at(300), LockAmount: dec("20"), LockTotal: dec("30"), ImmediateCaller: "0xd1"},
			},
			"0xd2": {
				{FromAddress: "0xa", BlockTimestamp: at(200), LockAmount: dec("50"), LockTotal: dec("50"), ImmediateCaller: "0xd2"},
			},
		},
	}
	meta := &stub.MetadataSource{
		Metadata: []domain.DelegateMetadata{
			{VoteDelegateAddress: "0xd1", Name: "Alice", Status: domain.StatusRecognized},
		},
	}

	svc := testService(deleg, meta, nil, nil, nil)
	data, err := svc.GovernanceData(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(data.TopDelegates) != 2 || data.TopDelegates[0].VoteDelegate != "0xd2" {
		t.Errorf("Expected 0xd2 ranked first, got %+v", data.TopDelegates)
	}
	if data.TopDelegates[1].Name != "Alice" {
		t.Errorf("Expected metadata overlay on 0xd1, got %+v", data.TopDelegates[1])
	}
	if data.TotalDelegatorCount != 2 {
		t.Errorf("Expected 2 distinct active delegators, got %d", data.TotalDelegatorCount)
	}

	// Events at 100, 200, 300 within one day collapse to one point at
	// the final cumulative total.
	if len(data.MKRDelegated) != 1 {
		t.Fatalf("Expected 1 daily point, got %d", len(data.MKRDelegated))
	}
	if !data.MKRDelegated[0].Amount.Equal(dec("80")) {
		t.Errorf("Expected cumulative 80, got %s", data.MKRDelegated[0].Amount)
	}

	if len(data.AllDelegations) != 3 {
		t.Errorf("Expected 3 normalized delegation events, got %d", len(data.AllDelegations))
	}
}

func TestGovernanceData_FetchFailureFailsWhole(t *testing.T) {
	deleg := &stub.DelegationSource{Err: upstream.ErrUpstream}
	svc := testService(deleg, nil, nil, nil, nil)

	data, err := svc.GovernanceData(context.Background())
	if !errors.Is(err, upstream.ErrUpstream) {
		t.Fatalf("Expected upstream error to propagate, got %v", err)
	}
	if data != nil {
		t.Errorf("Expected no partial result on fetch failure")
	}
}

func TestStakedMKR_SkipsMissingBlocks(t *testing.T) {
	stake := &stub.StakeSource{
		Records: []domain.StakeRecord{
			{BlockNumber: 10, Sender: "0xa", Amount: dec("100")},
			{BlockNumber: 20, Sender: "0xa", Amount: dec("-30")},
			{BlockNumber: 30, Sender: "0xb", Amount: dec("7")}, // unresolvable
		},
	}
	blocks := &stub.BlockSource{
		Times: map[uint64]time.Time{
			10: at(1000),
			20: at(200000),
		},
	}

	svc := testService(nil, nil, stake, blocks, nil)
	data, err := svc.StakedMKR(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(data.StakeEvents) != 2 {
		t.Fatalf("Expected unresolvable event skipped, got %d events", len(data.StakeEvents))
	}
	// Two days, two points: 100 then 70.
	if len(data.Series) != 2 {
		t.Fatalf("Expected 2 daily points, got %d", len(data.Series))
	}
	if !data.Series[1].Amount.Equal(dec("70")) {
		t.Errorf("Expected final staked total 70, got %s", data.Series[1].Amount)
	}
}

func TestMKRBalances_MergesStreams(t *testing.T) {
	svc := testService(nil, nil, nil, nil, nil)

	delegations := []domain.Event{
		{Time: at(200), Sender: "0xa", Amount: dec("40"), Delegate: "0xd1"},
	}
	stakes := []domain.Event{
		{Time: at(100), Sender: "0xa", Amount: dec("100")},
		{Time: at(90000), Sender: "0xb", Amount: dec("5")},
	}

	history := svc.MKRBalances(delegations, stakes)

	// Day 1 collapses both t=100 and t=200; day 2 adds 0xb.
	if len(history) != 2 {
		t.Fatalf("Expected 2 daily snapshots, got %d", len(history))
	}

	day1 := history[0]
	if len(day1.Balances) != 1 {
		t.Fatalf("Expected 1 account on day 1, got %d", len(day1.Balances))
	}
	if !day1.Balances[0].Amount.Equal(dec("100")) || !day1.Balances[0].Delegated.Equal(dec("40")) {
		t.Errorf("Expected 0xa amount=100 delegated=40, got %+v", day1.Balances[0])
	}
}

func TestGroupedBalances_EmptyHistory(t *testing.T) {
	svc := testService(nil, nil, nil, nil, nil)

	grouped := svc.GroupedBalances(nil, nil)

	if grouped.RecognizedDelegates == nil || grouped.ShadowDelegates == nil || grouped.Users == nil {
		t.Errorf("Expected empty, non-nil buckets, got %+v", grouped)
	}
}

func TestDelegateBalances_UnknownDelegateUnavailable(t *testing.T) {
	svc := testService(nil, nil, nil, nil, nil)

	events := []domain.Event{
		{Time: at(1), Sender: "0xa", Amount: dec("5"), Delegate: "0xnotinroster"},
	}
	roster := []domain.DelegateBalance{{VoteDelegate: "0xd1"}}

	_, err := svc.DelegateBalances(events, roster)
	if !errors.Is(err, delegates.ErrUnknownDelegate) {
		t.Fatalf("Expected unknown-delegate error, got %v", err)
	}
}

func TestPollVoters_MonthlyAverages(t *testing.T) {
	polls := &stub.PollSource{
		Polls: []domain.Poll{
			{PollID: 1, StartDate: time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)},
			{PollID: 2, StartDate: time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC)},
			{PollID: 3, StartDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
		Voters: map[int]int{1: 10, 2: 15, 3: 40},
	}

	svc := testService(nil, nil, nil, nil, polls)
	voterData, err := svc.PollVoters(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(voterData) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(voterData))
	}
	if voterData[0].Month != "2023-4" || voterData[0].UniqueVoters != 13 {
		t.Errorf("Expected 2023-4 average 13 (12.5 rounded), got %+v", voterData[0])
	}
	if voterData[1].Month != "2023-5" || voterData[1].UniqueVoters != 40 {
		t.Errorf("Expected 2023-5 average 40, got %+v", voterData[1])
	}
}
