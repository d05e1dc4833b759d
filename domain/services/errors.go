package services

import (
	"errors"
)

// Error taxonomy surfaced by the engine. Callers map these onto their
// transport; NoResultYet and LockBusy are recoverable with retry, the
// rest are terminal for the attempted operation.
var (
	// ErrMatchNotFound indicates an unknown match id
	ErrMatchNotFound = errors.New("match not found")

	// ErrPredictionNotFound indicates no prediction exists for the
	// (match, user) pair
	ErrPredictionNotFound = errors.New("prediction not found")

	// ErrBettingClosed indicates a prediction mutation outside the
	// betting window (match not planned, or past the cutoff)
	ErrBettingClosed = errors.New("betting is closed for this match")

	// ErrInvalidTeam indicates a team that is not one of the match's two
	ErrInvalidTeam = errors.New("invalid team selection")

	// ErrMatchNotStarted indicates an operation that needs a live or
	// ended match was attempted on a planned one
	ErrMatchNotStarted = errors.New("match has not started")

	// ErrMatchNotEnded indicates settlement was requested before the
	// match reached its terminal state
	ErrMatchNotEnded = errors.New("match has not ended")

	// ErrNoResultYet indicates settlement was requested before a winner
	// or draw has been declared
	ErrNoResultYet = errors.New("no result declared for this match")

	// ErrLockBusy indicates the per-match lock could not be acquired
	// within the bounded retry window
	ErrLockBusy = errors.New("match is busy, try again")
)
