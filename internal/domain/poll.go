package domain

import "time"

// Poll is one governance poll as returned by the polling database.
type Poll struct {
	PollID    int
	StartDate time.Time
}

// PollVoters is the average unique-voter count for all polls that
// started in one calendar month. Month is formatted "YYYY-M", without
// zero padding, as the chart axis expects.
type PollVoters struct {
	PollID       int    `json:"pollId"`
	Month        string `json:"month"`
	UniqueVoters int    `json:"uniqueVoters"`
}
