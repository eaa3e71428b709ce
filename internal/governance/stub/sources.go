// Package stub provides fixed in-memory upstream sources for testing
// the governance service without network access.
package stub

import (
	"context"
	"time"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// DelegationSource returns fixed delegate rosters and per-delegate
// streams. Implements governance.DelegationSource.
type DelegationSource struct {
	Roster  []domain.DelegateSummary
	Streams map[string][]domain.DelegationRecord // keyed by delegate address
	Err     error
}

// Delegates returns the fixed roster.
func (s *DelegationSource) Delegates(_ context.Context) ([]domain.DelegateSummary, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Roster, nil
}

// Delegations returns the fixed stream for a delegate.
func (s *DelegationSource) Delegations(_ context.Context, delegate string) ([]domain.DelegationRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Streams[delegate], nil
}

// MetadataSource returns a fixed metadata list. Implements
// governance.MetadataSource.
type MetadataSource struct {
	Metadata []domain.DelegateMetadata
	Err      error
}

// DelegateMetadata returns the fixed metadata list.
func (s *MetadataSource) DelegateMetadata(_ context.Context) ([]domain.DelegateMetadata, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Metadata, nil
}

// StakeSource returns fixed stake records. Implements
// governance.StakeSource.
type StakeSource struct {
	Records []domain.StakeRecord
	Err     error
}

// StakeEvents returns the fixed records.
func (s *StakeSource) StakeEvents(_ context.Context) ([]domain.StakeRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records, nil
}

// BlockSource resolves block numbers from a fixed map. Implements
// governance.BlockSource.
type BlockSource struct {
	Times map[uint64]time.Time
	Err   error
}

// Timestamps returns the subset of the fixed map covering the request.
func (s *BlockSource) Timestamps(_ context.Context, blockNumbers []uint64) (map[uint64]time.Time, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	times := make(map[uint64]time.Time, len(blockNumbers))
	for _, n := range blockNumbers {
		if t, ok := s.Times[n]; ok {
			times[n] = t
		}
	}
	return times, nil
}

// PollSource returns fixed polls and voter counts. Implements
// governance.PollSource.
type PollSource struct {
	Polls  []domain.Poll
	Voters map[int]int // keyed by poll ID
	Err    error
}

// ActivePolls returns the fixed poll roster.
func (s *PollSource) ActivePolls(_ context.Context) ([]domain.Poll, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Polls, nil
}

// UniqueVoters returns the fixed count for a poll.
func (s *PollSource) UniqueVoters(_ context.Context, pollID int) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Voters[pollID], nil
}
