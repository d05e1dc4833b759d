package entities

import (
	"time"
)

// Contest groups matches and bounds which users are backfilled with
// default predictions
type Contest struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	StartDate     *time.Time `db:"start_date"`
	EndDate       *time.Time `db:"end_date"`
	EnrolledUsers []string   `db:"-"`
	CreatedAt     time.Time  `db:"created_at"`
}

// DeclaredDates returns the contest's own declared window, used as the
// attribution fallback when it has no linked matches to derive dates from
func (c *Contest) DeclaredDates() ContestDates {
	return ContestDates{StartDate: c.StartDate, EndDate: c.EndDate}
}

// ContestDates are the effective start/end of a contest, derived from the
// earliest start and latest end of its matches
type ContestDates struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// DeriveContestDates computes the contest window from its matches
func DeriveContestDates(matches []*Match) ContestDates {
	var dates ContestDates
	for _, m := range matches {
		if dates.StartDate == nil || m.StartTime.Before(*dates.StartDate) {
			start := m.StartTime
			dates.StartDate = &start
		}
		if dates.EndDate == nil || m.EndTime.After(*dates.EndDate) {
			end := m.EndTime
			dates.EndDate = &end
		}
	}
	return dates
}
