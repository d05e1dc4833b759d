package interfaces

import (
	"context"

	"matchpool/domain/entities"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	// GetByID retrieves a match by its id, nil when absent
	GetByID(ctx context.Context, id string) (*entities.Match, error)

	// GetAll returns all matches ordered by start time
	GetAll(ctx context.Context) ([]*entities.Match, error)

	// GetByContest returns the matches explicitly linked to a contest
	GetByContest(ctx context.Context, contestID string) ([]*entities.Match, error)

	// Create creates a new match, assigning an id when none is set
	Create(ctx context.Context, match *entities.Match) error

	// Update persists state and result mutations of an existing match
	Update(ctx context.Context, match *entities.Match) error
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	// Get retrieves a single user's prediction for a match, nil when absent
	Get(ctx context.Context, matchID, username string) (*entities.Prediction, error)

	// GetByMatch returns all predictions for a match ordered by username
	GetByMatch(ctx context.Context, matchID string) ([]*entities.Prediction, error)

	// GetByUser returns all predictions a user has placed
	GetByUser(ctx context.Context, username string) ([]*entities.Prediction, error)

	// Upsert inserts a prediction or replaces the user's existing one
	Upsert(ctx context.Context, prediction *entities.Prediction) error

	// Delete removes a user's prediction, reporting whether one existed
	Delete(ctx context.Context, matchID, username string) (bool, error)

	// CreateMissing inserts predictions without overwriting existing
	// (matchID, username) rows. Used by backfill.
	CreateMissing(ctx context.Context, predictions []*entities.Prediction) error

	// Count returns the total number of predictions across all matches
	Count(ctx context.Context) (int, error)
}

// ContestRepository defines the interface for contest data access.
// Contest and enrollment data are maintained by an external collaborator;
// this engine only reads them.
type ContestRepository interface {
	// GetByID retrieves a contest with its enrollment, nil when absent
	GetByID(ctx context.Context, id string) (*entities.Contest, error)

	// GetAll returns all contests
	GetAll(ctx context.Context) ([]*entities.Contest, error)

	// GetEnrolledUsers returns the usernames enrolled in a contest
	GetEnrolledUsers(ctx context.Context, contestID string) ([]string, error)
}

// SettlementRepository defines the interface for settlement result persistence
type SettlementRepository interface {
	// Get retrieves the settlement result for a match, nil when absent
	Get(ctx context.Context, matchID string) (*entities.SettlementResult, error)

	// Replace persists a settlement result, superseding any previous one
	// for the same match in a single write
	Replace(ctx context.Context, result *entities.SettlementResult) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByUsername retrieves a user, nil when absent
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*entities.User, error)
}
