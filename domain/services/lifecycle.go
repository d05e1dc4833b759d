package services

import (
	"time"

	"matchpool/domain/entities"
)

// Transition identifies a lifecycle edge taken during evaluation
type Transition string

const (
	TransitionStarted Transition = "started"
	TransitionEnded   Transition = "ended"
)

// LifecycleService contains the pure per-match state machine. It takes the
// current time as a parameter so a timer, a test harness, or a manual
// trigger can all drive it.
type LifecycleService struct{}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService() *LifecycleService {
	return &LifecycleService{}
}

// Advance applies every due transition to the match in time order and
// returns the edges taken. The start gate is checked before the end gate,
// so a match whose times are both in the past still passes through
// started on its way to ended, within a single evaluation.
//
// A started match past its end time without a declared result stays
// started: the engine never guesses an outcome from time alone.
func (s *LifecycleService) Advance(m *entities.Match, now time.Time) []Transition {
	var edges []Transition

	if m.State == entities.MatchStatePlanned && !now.Before(m.StartTime) {
		m.State = entities.MatchStateStarted
		edges = append(edges, TransitionStarted)
	}

	if m.State == entities.MatchStateStarted && !now.Before(m.EndTime) && m.HasResult() {
		m.State = entities.MatchStateEnded
		edges = append(edges, TransitionEnded)
	}

	return edges
}

// ValidateMutation checks the betting-window gate shared by placement and
// removal: only planned matches strictly before the cutoff accept
// prediction mutations. Evaluated at the moment of mutation, never cached.
func (s *LifecycleService) ValidateMutation(m *entities.Match, now time.Time) error {
	if !m.BettingOpen(now) {
		return ErrBettingClosed
	}
	return nil
}

// DeclareMissingResult assigns a deterministic winner to a started match
// that is past its end time with no declared outcome, unblocking
// settlement. Maintenance operation; returns false when the match does
// not qualify.
func (s *LifecycleService) DeclareMissingResult(m *entities.Match, now time.Time) bool {
	if m.State != entities.MatchStateStarted || now.Before(m.EndTime) || m.HasResult() {
		return false
	}
	winner := m.Teams.First()
	m.WinnerTeam = &winner
	return true
}
