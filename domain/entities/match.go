package entities

import (
	"time"
)

// MatchState represents the lifecycle state of a match
type MatchState string

const (
	MatchStatePlanned MatchState = "planned"
	MatchStateStarted MatchState = "started"
	MatchStateEnded   MatchState = "ended"
)

// BettingCutoffLead is how long before the start time predictions freeze
const BettingCutoffLead = 30 * time.Minute

// TeamPair is the ordered pair of teams contesting a match
type TeamPair struct {
	Home string `db:"team1"`
	Away string `db:"team2"`
}

// Contains reports whether team is one of the pair
func (p TeamPair) Contains(team string) bool {
	return team == p.Home || team == p.Away
}

// OpponentOf returns the other team of the pair. Returns "" when team is
// not part of the pair.
func (p TeamPair) OpponentOf(team string) string {
	switch team {
	case p.Home:
		return p.Away
	case p.Away:
		return p.Home
	}
	return ""
}

// First returns the lexicographically-first team of the pair. Used as the
// deterministic backfill target when a match ends in a draw.
func (p TeamPair) First() string {
	if p.Away < p.Home {
		return p.Away
	}
	return p.Home
}

// Both returns the two teams in pair order
func (p TeamPair) Both() [2]string {
	return [2]string{p.Home, p.Away}
}

// Match represents a head-to-head match predictions are placed on
type Match struct {
	ID         string     `db:"id"`
	ContestID  *string    `db:"contest_id"`
	Teams      TeamPair   `db:"-"`
	StartTime  time.Time  `db:"start_time"`
	EndTime    time.Time  `db:"end_time"`
	Weight     float64    `db:"weight"`
	State      MatchState `db:"state"`
	WinnerTeam *string    `db:"winner_team"`
	Draw       bool       `db:"draw"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// IsPlanned checks if the match has not started yet
func (m *Match) IsPlanned() bool {
	return m.State == MatchStatePlanned
}

// IsStarted checks if the match is live
func (m *Match) IsStarted() bool {
	return m.State == MatchStateStarted
}

// IsEnded checks if the match has reached its terminal state
func (m *Match) IsEnded() bool {
	return m.State == MatchStateEnded
}

// HasResult reports whether an outcome has been declared. A match with both
// a winner and the draw flag set is malformed and treated as result-less.
func (m *Match) HasResult() bool {
	if m.Draw && m.WinnerTeam != nil {
		return false
	}
	return m.Draw || (m.WinnerTeam != nil && *m.WinnerTeam != "")
}

// BettingCutoff returns the instant after which predictions are frozen
func (m *Match) BettingCutoff() time.Time {
	return m.StartTime.Add(-BettingCutoffLead)
}

// BettingOpen reports whether a prediction may be placed or removed at now.
// Re-checked at every mutation; never cached, a concurrent tick may have
// advanced the state.
func (m *Match) BettingOpen(now time.Time) bool {
	return m.State == MatchStatePlanned && now.Before(m.BettingCutoff())
}

// DefaultTeam returns the team backfilled predictions are assigned to:
// the losing team when a winner is declared, otherwise the
// lexicographically-first team.
func (m *Match) DefaultTeam() string {
	if !m.Draw && m.WinnerTeam != nil {
		if opponent := m.Teams.OpponentOf(*m.WinnerTeam); opponent != "" {
			return opponent
		}
	}
	return m.Teams.First()
}
