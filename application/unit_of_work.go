package application

import (
	"context"

	"matchpool/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository
// operations. One unit of work spans the whole mutation of a match's
// (lifecycle fields, prediction set, settlement result) triple, so
// partial writes are never observable.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	MatchRepository() interfaces.MatchRepository
	PredictionRepository() interfaces.PredictionRepository
	ContestRepository() interfaces.ContestRepository
	SettlementRepository() interfaces.SettlementRepository
	UserRepository() interfaces.UserRepository
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
