// Package governance orchestrates the two-phase pipeline: fan-out
// ingestion of raw upstream records, then pure single-threaded reduction
// into the query results the presentation layer renders.
package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/delegates"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/flowgraph"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/normalization"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/reduction"
)

// DelegationSource fetches the delegate roster and per-delegate
// delegation event streams.
type DelegationSource interface {
	Delegates(ctx context.Context) ([]domain.DelegateSummary, error)
	Delegations(ctx context.Context, delegate string) ([]domain.DelegationRecord, error)
}

// MetadataSource fetches the delegate name/status metadata list.
type MetadataSource interface {
	DelegateMetadata(ctx context.Context) ([]domain.DelegateMetadata, error)
}

// StakeSource fetches raw chief lock/free events.
type StakeSource interface {
	StakeEvents(ctx context.Context) ([]domain.StakeRecord, error)
}

// BlockSource resolves block numbers to timestamps.
type BlockSource interface {
	Timestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error)
}

// PollSource fetches the poll roster and per-poll voter counts.
type PollSource interface {
	ActivePolls(ctx context.Context) ([]domain.Poll, error)
	UniqueVoters(ctx context.Context, pollID int) (int, error)
}

// Config tunes the service's fetch fan-out and reduction policies.
type Config struct {
	// FetchWorkers bounds concurrent per-delegate and per-poll fetches.
	FetchWorkers int
	// MinBalance is the classifier's materiality floor.
	MinBalance decimal.Decimal
	// LargeDelegatorMin is the flow graph's individual-node threshold.
	LargeDelegatorMin decimal.Decimal
}

// DefaultFetchWorkers bounds upstream fan-out when Config leaves it zero.
const DefaultFetchWorkers = 10

// Service computes the governance query results. All methods return
// plain serializable values; a failed required fetch fails the whole
// result rather than emitting a silently-plausible partial one.
type Service struct {
	delegations DelegationSource
	metadata    MetadataSource
	stake       StakeSource
	blocks      BlockSource
	polls       PollSource

	fetchWorkers int
	minBalance   decimal.Decimal
	largeMin     decimal.Decimal
	logger       *zap.Logger
}

// New creates a governance service. Zero Config fields fall back to the
// package defaults.
func New(
	delegations DelegationSource,
	metadata MetadataSource,
	stake StakeSource,
	blocks BlockSource,
	polls PollSource,
	logger *zap.Logger,
	cfg Config,
) *Service {
	workers := cfg.FetchWorkers
	if workers <= 0 {
		workers = DefaultFetchWorkers
	}
	minBalance := cfg.MinBalance
	if minBalance.IsZero() {
		minBalance = delegates.DefaultMinBalance
	}
	largeMin := cfg.LargeDelegatorMin
	if largeMin.IsZero() {
		largeMin = flowgraph.DefaultLargeDelegatorMin
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		delegations:  delegations,
		metadata:     metadata,
		stake:        stake,
		blocks:       blocks,
		polls:        polls,
		fetchWorkers: workers,
		minBalance:   minBalance,
		largeMin:     largeMin,
		logger:       logger,
	}
}

// GovernanceData is the delegation-centric query result: the delegate
// ranking, the daily delegated-MKR running total, the normalized
// delegation events and the sankey-ready flow graph.
type GovernanceData struct {
	TopDelegates        []domain.DelegateBalance `json:"topDelegates"`
	MKRDelegated        []domain.SeriesPoint     `json:"mkrDelegatedData"`
	TotalDelegatorCount int                      `json:"totalDelegatorCount"`
	AllDelegations      []domain.Event           `json:"allDelegations"`
	Sankey              domain.FlowGraph         `json:"sankeyData"`
}

// GovernanceData gathers the delegate roster, fans out per-delegate
// delegation fetches, then reduces everything in one pass.
func (s *Service) GovernanceData(ctx context.Context) (*GovernanceData, error) {
	roster, err := s.delegations.Delegates(ctx)
	if err != nil {
		return nil, err
	}

	metadata, err := s.metadata.DelegateMetadata(ctx)
	if err != nil {
		return nil, err
	}

	streams, err := s.fetchDelegationStreams(ctx, roster)
	if err != nil {
		return nil, err
	}

	ranking := delegates.BuildRanking(streams, metadata)

	var allRecords []domain.DelegationRecord
	for _, st := range streams {
		allRecords = append(allRecords, st.Records...)
	}
	events := normalization.NormalizeDelegations(allRecords)

	sorted := normalization.MergeChronological(events)
	delegated := reduction.LastPerDay(
		reduction.ReduceRunningTotal(sorted),
		func(p domain.SeriesPoint) time.Time { return p.Time },
	)

	excluded := flowgraph.ExcludedDelegates(metadata)
	sankey := flowgraph.Build(flowgraph.AggregateDelegators(events, excluded), s.largeMin)

	s.logger.Info("computed governance data",
		zap.Int("delegates", len(ranking)),
		zap.Int("delegations", len(events)),
	)

	return &GovernanceData{
		TopDelegates:        ranking,
		MKRDelegated:        delegated,
		TotalDelegatorCount: delegates.CountActiveDelegators(allRecords),
		AllDelegations:      events,
		Sankey:              sankey,
	}, nil
}

// fetchDelegationStreams fans out one fetch per delegate over a bounded
// worker pool. Results come back in roster order; any failure fails the
// whole gather, since a partial event set would reduce to an incorrect
// running total.
func (s *Service) fetchDelegationStreams(ctx context.Context, roster []domain.DelegateSummary) ([]delegates.DelegateStream, error) {
	pool := pond.NewResultPool[[]domain.DelegationRecord](s.fetchWorkers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, d := range roster {
		delegate := d.VoteDelegate
		group.SubmitErr(func() ([]domain.DelegationRecord, error) {
			return s.delegations.Delegations(ctx, delegate)
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("fetching delegation streams: %w", err)
	}

	streams := make([]delegates.DelegateStream, len(roster))
	for i, d := range roster {
		streams[i] = delegates.DelegateStream{
			VoteDelegate: d.VoteDelegate,
			Records:      results[i],
		}
	}
	return streams, nil
}

// StakedData is the staked-MKR query result: the daily running total
// plus the normalized stake events, reused by the balance history.
type StakedData struct {
	Series      []domain.SeriesPoint `json:"mkrStakedData"`
	StakeEvents []domain.Event       `json:"stakeEvents"`
}

// StakedMKR fetches chief lock/free events, resolves their block
// timestamps and reduces the running staked total. Events whose block is
// missing from the lookup are skipped and counted, not fatal.
func (s *Service) StakedMKR(ctx context.Context) (*StakedData, error) {
	records, err := s.stake.StakeEvents(ctx)
	if err != nil {
		return nil, err
	}

	blockNumbers := make([]uint64, len(records))
	for i, r := range records {
		blockNumbers[i] = r.BlockNumber
	}

	times, err := s.blocks.Timestamps(ctx, blockNumbers)
	if err != nil {
		return nil, err
	}

	res := normalization.NormalizeStakeRecords(records, times)
	if n := len(res.SkippedBlocks); n > 0 {
		s.logger.Warn("stake events skipped: block timestamps missing",
			zap.Int("skipped", n),
			zap.Uint64s("blocks", res.SkippedBlocks),
		)
	}

	series := reduction.LastPerDay(
		reduction.ReduceRunningTotal(res.Events),
		func(p domain.SeriesPoint) time.Time { return p.Time },
	)

	return &StakedData{Series: series, StakeEvents: res.Events}, nil
}

// MKRBalances merges delegation and stake events into one chronological
// sequence and reduces the combined per-user balance history, collapsed
// to one snapshot per day. Pure: both inputs are already-fetched values.
func (s *Service) MKRBalances(allDelegations, stakeEvents []domain.Event) []domain.Snapshot {
	merged := normalization.MergeChronological(allDelegations, stakeEvents)
	return reduction.LastPerDay(
		reduction.ReduceBalances(merged),
		func(snap domain.Snapshot) time.Time { return snap.Time },
	)
}

// GroupedBalances classifies the most recent balance snapshot against
// the delegate roster. An empty history classifies to empty buckets.
func (s *Service) GroupedBalances(roster []domain.DelegateBalance, history []domain.Snapshot) domain.GroupedBalances {
	if len(history) == 0 {
		return domain.GroupedBalances{
			RecognizedDelegates: []domain.NamedBalance{},
			ShadowDelegates:     []domain.AddressBalance{},
			Users:               []domain.AddressBalance{},
		}
	}
	return delegates.GroupBalances(roster, history[len(history)-1], s.minBalance)
}

// DelegateBalances reduces the per-delegate balance history from the
// delegation events and the ranked roster. A delegation referencing an
// unknown delegate makes this view unavailable; other views still
// compute.
func (s *Service) DelegateBalances(allDelegations []domain.Event, roster []domain.DelegateBalance) ([]domain.DelegateSnapshot, error) {
	sorted := normalization.MergeChronological(allDelegations)
	history, err := delegates.BalanceHistory(sorted, roster)
	if err != nil {
		return nil, fmt.Errorf("delegate balance history unavailable: %w", err)
	}
	return history, nil
}
