package delegates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/domain"
)

func at(unix int64) time.Time {
	return time.Unix(unix, 0).UTC()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func record(from, amount, total string) domain.DelegationRecord {
	return domain.DelegationRecord{
		FromAddress: from,
		LockAmount:  dec(amount),
		LockTotal:   dec(total),
	}
}

func TestBuildRanking_LockTotalIsLastCumulative(t *testing.T) {
	streams := []DelegateStream{
		{VoteDelegate: "0xd1", Records: []domain.DelegationRecord{
			record("0xa", "10", "10"),
			record("0xb", "5", "15"),
		}},
		{VoteDelegate: "0xd2"},
	}

	ranking := BuildRanking(streams, nil)

	if !ranking[0].LockTotal.Equal(dec("15")) {
		t.Errorf("Expected lock total 15 from last record, got %s", ranking[0].LockTotal)
	}
	if !ranking[1].LockTotal.Equal(decimal.Zero) {
		t.Errorf("Expected zero lock total for empty stream, got %s", ranking[1].LockTotal)
	}
}

func TestBuildRanking_SortedDescendingStable(t *testing.T) {
	streams := []DelegateStream{
		{VoteDelegate: "0xd1", Records: []domain.DelegationRecord{record("0xa", "5", "5")}},
		{VoteDelegate: "0xd2", Records: []domain.DelegationRecord{record("0xa", "20", "20")}},
		{VoteDelegate: "0xd3", Records: []domain.DelegationRecord{record("0xa", "5", "5")}},
	}

	ranking := BuildRanking(streams, nil)

	want := []string{"0xd2", "0xd1", "0xd3"}
	for i, w := range want {
		if ranking[i].VoteDelegate != w {
			t.Errorf("Rank %d: expected %s, got %s", i, w, ranking[i].VoteDelegate)
		}
	}
}

func TestBuildRanking_MetadataOverlay(t *testing.T) {
	streams := []DelegateStream{
		{VoteDelegate: "0xd1"},
		{VoteDelegate: "0xd2"},
		{VoteDelegate: "0xd3"},
	}
	metadata := []domain.DelegateMetadata{
		{VoteDelegateAddress: "0xd1", Name: "Alice", Status: domain.StatusRecognized, IsAboutToExpire: true},
		{VoteDelegateAddress: "0xd2", Name: domain.ShadowNamePlaceholder, Status: domain.StatusShadow},
	}

	ranking := BuildRanking(streams, metadata)

	byAddr := make(map[string]domain.DelegateBalance)
	for _, d := range ranking {
		byAddr[d.VoteDelegate] = d
	}

	if d := byAddr["0xd1"]; d.Name != "Alice" || d.Status != domain.StatusRecognized || !d.IsAboutToExpire {
		t.Errorf("0xd1 metadata not applied: %+v", d)
	}
	if d := byAddr["0xd2"]; d.Name != "" {
		t.Errorf("Shadow placeholder name should normalize to empty, got %q", d.Name)
	}
	if d := byAddr["0xd3"]; d.Name != "" || d.Status != "" || d.Expired {
		t.Errorf("Unmatched delegate should stay unenriched: %+v", d)
	}
}

func TestCountActiveDelegators_ExcludesFullyWithdrawn(t *testing.T) {
	records := []domain.DelegationRecord{
		record("0xa", "10", "10"),
		record("0xb", "5", "15"),
		record("0xb", "-5", "10"), // fully withdrawn
		record("0xc", "0", "10"),  // never contributed
	}

	if got := CountActiveDelegators(records); got != 1 {
		t.Errorf("Expected 1 active delegator, got %d", got)
	}
}
