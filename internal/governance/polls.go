package governance

import (
	"context"
	"fmt"
	"math"

	"github.com/alitto/pond/v2"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

// PollVoters fetches every poll's unique-voter count and averages the
// counts per calendar month of poll start.
func (s *Service) PollVoters(ctx context.Context) ([]domain.PollVoters, error) {
	polls, err := s.polls.ActivePolls(ctx)
	if err != nil {
		return nil, err
	}

	pool := pond.NewResultPool[int](s.fetchWorkers)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, p := range polls {
		pollID := p.PollID
		group.SubmitErr(func() (int, error) {
			return s.polls.UniqueVoters(ctx, pollID)
		})
	}

	counts, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("fetching poll voters: %w", err)
	}

	return aggregateMonthly(polls, counts), nil
}

// aggregateMonthly groups per-poll voter counts by "YYYY-M" month of
// poll start (first-seen month order preserved) and averages each group,
// rounding to the nearest integer.
func aggregateMonthly(polls []domain.Poll, counts []int) []domain.PollVoters {
	type monthGroup struct {
		pollID int
		counts []int
	}

	index := make(map[string]int)
	var months []string
	var groups []monthGroup

	for i, p := range polls {
		start := p.StartDate.UTC()
		month := fmt.Sprintf("%d-%d", start.Year(), int(start.Month()))

		j, ok := index[month]
		if !ok {
			j = len(groups)
			index[month] = j
			months = append(months, month)
			groups = append(groups, monthGroup{pollID: p.PollID})
		}
		groups[j].counts = append(groups[j].counts, counts[i])
	}

	out := make([]domain.PollVoters, len(groups))
	for j, g := range groups {
		sum := 0
		for _, c := range g.counts {
			sum += c
		}
		out[j] = domain.PollVoters{
			PollID:       g.pollID,
			Month:        months[j],
			UniqueVoters: int(math.Round(float64(sum) / float64(len(g.counts)))),
		}
	}
	return out
}
