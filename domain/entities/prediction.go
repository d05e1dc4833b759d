package entities

import (
	"time"
)

// Prediction represents a user's chosen team for a match. A user has at
// most one active prediction per match; placing again replaces it.
type Prediction struct {
	MatchID   string    `db:"match_id"`
	Username  string    `db:"username"`
	Team      string    `db:"team"`
	PlacedAt  time.Time `db:"placed_at"`
	IsDefault bool      `db:"is_default"`
}

// User represents a registered participant
type User struct {
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}
