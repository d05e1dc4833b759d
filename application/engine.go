package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"matchpool/domain/entities"
	"matchpool/domain/events"
	"matchpool/domain/interfaces"
	"matchpool/domain/services"

	log "github.com/sirupsen/logrus"
)

const (
	defaultTickWorkers    = 8
	defaultLockAttempts   = 3
	defaultLockRetryDelay = 50 * time.Millisecond
)

// Engine is the match lifecycle and settlement engine. It serializes all
// mutations to a match's prediction/result state behind a per-match lock,
// shared by the scheduler tick and interactive prediction calls.
type Engine struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	lifecycle  *services.LifecycleService
	backfill   *services.BackfillService
	calculator *services.SettlementCalculator
	locks      *matchLockRegistry

	tickWorkers    int
	lockAttempts   int
	lockRetryDelay time.Duration
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithTickWorkers bounds the tick fan-out concurrency
func WithTickWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.tickWorkers = n
		}
	}
}

// WithLockRetry tunes the bounded retry used by interactive calls
func WithLockRetry(attempts int, delay time.Duration) EngineOption {
	return func(e *Engine) {
		if attempts > 0 {
			e.lockAttempts = attempts
		}
		if delay > 0 {
			e.lockRetryDelay = delay
		}
	}
}

// NewEngine creates a new Engine
func NewEngine(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher, opts ...EngineOption) *Engine {
	e := &Engine{
		uowFactory:     uowFactory,
		publisher:      publisher,
		lifecycle:      services.NewLifecycleService(),
		backfill:       services.NewBackfillService(),
		calculator:     services.NewSettlementCalculator(),
		locks:          newMatchLockRegistry(),
		tickWorkers:    defaultTickWorkers,
		lockAttempts:   defaultLockAttempts,
		lockRetryDelay: defaultLockRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick re-evaluates every match's lifecycle state against now. Matches
// are processed with bounded fan-out; a failure for one match is logged
// and never aborts the rest. Safe to call at any cadence or concurrently
// with itself: overlapping ticks for the same match exclude each other
// on the per-match lock, and re-ticking an ended match is a no-op.
func (e *Engine) Tick(ctx context.Context, now time.Time) error {
	matchIDs, err := e.listMatchIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	workCh := make(chan string, len(matchIDs))
	for _, id := range matchIDs {
		workCh <- id
	}
	close(workCh)

	var wg sync.WaitGroup
	for i := 0; i < e.tickWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for matchID := range workCh {
				if err := e.tickMatch(ctx, matchID, now); err != nil {
					log.WithFields(log.Fields{
						"matchId": matchID,
						"error":   err,
					}).Error("Tick failed for match")
				}
			}
		}()
	}
	wg.Wait()

	return nil
}

// tickMatch advances one match under its lock
func (e *Engine) tickMatch(ctx context.Context, matchID string, now time.Time) error {
	release, err := e.locks.Acquire(ctx, matchID)
	if err != nil {
		return err
	}
	defer release()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil || match.IsEnded() {
		return nil
	}

	edges := e.lifecycle.Advance(match, now)
	if len(edges) == 0 {
		return nil
	}

	var pending []events.Event
	for _, edge := range edges {
		switch edge {
		case services.TransitionStarted:
			pending = append(pending, events.MatchStartedEvent{
				MatchID:   match.ID,
				StartTime: match.StartTime,
			})
		case services.TransitionEnded:
			result, backfilled, err := e.settleEnded(ctx, uow, match, now)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"matchId":    match.ID,
				"backfilled": backfilled,
				"summary":    result.Summary.Message,
			}).Info("Match ended and settled")
			pending = append(pending,
				events.MatchEndedEvent{
					MatchID:    match.ID,
					WinnerTeam: match.WinnerTeam,
					Draw:       match.Draw,
				},
				settlementEvent(result),
			)
		}
	}

	if err := uow.MatchRepository().Update(ctx, match); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	e.publish(pending...)
	return nil
}

// PlacePrediction places or replaces a user's prediction for a match.
// The betting-window gate is re-checked inside the transaction, after the
// lock is held, so a concurrent tick cannot race the mutation.
func (e *Engine) PlacePrediction(ctx context.Context, matchID, username, team string, now time.Time) (*entities.Prediction, error) {
	release, err := e.locks.TryAcquire(ctx, matchID, e.lockAttempts, e.lockRetryDelay)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, services.ErrMatchNotFound
	}
	if err := e.lifecycle.ValidateMutation(match, now); err != nil {
		return nil, err
	}
	if !match.Teams.Contains(team) {
		return nil, services.ErrInvalidTeam
	}

	prediction := &entities.Prediction{
		MatchID:   matchID,
		Username:  username,
		Team:      team,
		PlacedAt:  now,
		IsDefault: false,
	}
	if err := uow.PredictionRepository().Upsert(ctx, prediction); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	e.publish(events.PredictionPlacedEvent{MatchID: matchID, Username: username, Team: team})
	return prediction, nil
}

// RemovePrediction withdraws a user's prediction, subject to the same
// betting-window gate as placement.
func (e *Engine) RemovePrediction(ctx context.Context, matchID, username string, now time.Time) error {
	release, err := e.locks.TryAcquire(ctx, matchID, e.lockAttempts, e.lockRetryDelay)
	if err != nil {
		return err
	}
	defer release()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return services.ErrMatchNotFound
	}
	if err := e.lifecycle.ValidateMutation(match, now); err != nil {
		return err
	}

	deleted, err := uow.PredictionRepository().Delete(ctx, matchID, username)
	if err != nil {
		return err
	}
	if !deleted {
		return services.ErrPredictionNotFound
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	e.publish(events.PredictionRemovedEvent{MatchID: matchID, Username: username})
	return nil
}

// Settle forces an idempotent settlement recomputation for an ended
// match. Backfill is re-applied first (a no-op when complete), then the
// whole result row is replaced.
func (e *Engine) Settle(ctx context.Context, matchID string) (*entities.SettlementResult, error) {
	release, err := e.locks.TryAcquire(ctx, matchID, e.lockAttempts, e.lockRetryDelay)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, services.ErrMatchNotFound
	}
	if !match.HasResult() {
		return nil, services.ErrNoResultYet
	}
	if !match.IsEnded() {
		return nil, services.ErrMatchNotEnded
	}

	result, _, err := e.settleEnded(ctx, uow, match, match.EndTime)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	e.publish(settlementEvent(result))
	return result, nil
}

// ProjectPotentialOutcomes computes what each team winning would pay out,
// over the live prediction set of a started match. Backfill does not run
// here: enrollment completion is only guaranteed at the ended edge.
func (e *Engine) ProjectPotentialOutcomes(ctx context.Context, matchID string) ([]entities.ProjectedOutcome, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, services.ErrMatchNotFound
	}
	if match.IsPlanned() {
		return nil, services.ErrMatchNotStarted
	}

	predictions, err := uow.PredictionRepository().GetByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return e.calculator.ProjectOutcomes(matchID, services.ValidPredictions(match, predictions), match.Weight, match.Teams), nil
}

// AssignMissingResults declares a deterministic winner for started
// matches stuck past their end time without an outcome. Maintenance
// operation; returns the ids of the matches updated.
func (e *Engine) AssignMissingResults(ctx context.Context, now time.Time) ([]string, error) {
	matchIDs, err := e.listMatchIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	var updated []string
	for _, matchID := range matchIDs {
		changed, err := e.assignMissingResult(ctx, matchID, now)
		if err != nil {
			log.WithFields(log.Fields{
				"matchId": matchID,
				"error":   err,
			}).Error("Failed to assign missing result")
			continue
		}
		if changed {
			updated = append(updated, matchID)
		}
	}
	return updated, nil
}

func (e *Engine) assignMissingResult(ctx context.Context, matchID string, now time.Time) (bool, error) {
	release, err := e.locks.Acquire(ctx, matchID)
	if err != nil {
		return false, err
	}
	defer release()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	match, err := uow.MatchRepository().GetByID(ctx, matchID)
	if err != nil {
		return false, err
	}
	if match == nil || !e.lifecycle.DeclareMissingResult(match, now) {
		return false, nil
	}
	if err := uow.MatchRepository().Update(ctx, match); err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// settleEnded runs the one-time ended-edge work inside the caller's
// transaction: backfill enrolled non-predictors, then compute and persist
// the settlement over the completed prediction set. Idempotent.
func (e *Engine) settleEnded(ctx context.Context, uow UnitOfWork, match *entities.Match, now time.Time) (*entities.SettlementResult, int, error) {
	var enrolled []string
	if match.ContestID != nil {
		var err error
		enrolled, err = uow.ContestRepository().GetEnrolledUsers(ctx, *match.ContestID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get enrolled users: %w", err)
		}
	}

	existing, err := uow.PredictionRepository().GetByMatch(ctx, match.ID)
	if err != nil {
		return nil, 0, err
	}

	defaults := e.backfill.ComputeDefaults(match, enrolled, existing, now)
	if len(defaults) > 0 {
		if err := uow.PredictionRepository().CreateMissing(ctx, defaults); err != nil {
			return nil, 0, fmt.Errorf("failed to backfill predictions: %w", err)
		}
	}

	all := append(existing, defaults...)
	result := e.calculator.Settle(match.ID, services.ValidPredictions(match, all), match.Weight, match.WinnerTeam, match.Draw)
	// Pinned to the end time so recomputation over the same prediction
	// set persists an identical row.
	result.CalculatedAt = match.EndTime

	if err := uow.SettlementRepository().Replace(ctx, result); err != nil {
		return nil, 0, fmt.Errorf("failed to persist settlement: %w", err)
	}

	return result, len(defaults), nil
}

// listMatchIDs snapshots the current match ids in a read-only transaction
func (e *Engine) listMatchIDs(ctx context.Context) ([]string, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	matches, err := uow.MatchRepository().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// publish sends events best-effort after commit; the state change has
// already been persisted, so failures are logged and swallowed.
func (e *Engine) publish(evts ...events.Event) {
	for _, evt := range evts {
		if err := e.publisher.Publish(evt); err != nil {
			log.WithFields(log.Fields{
				"eventType": evt.Type(),
				"error":     err,
			}).Warn("Failed to publish event")
		}
	}
}

func settlementEvent(result *entities.SettlementResult) events.SettlementComputedEvent {
	return events.SettlementComputedEvent{
		MatchID:         result.MatchID,
		TotalPool:       result.TotalPool,
		RewardPerWinner: result.RewardPerWinner,
		WinnerCount:     len(result.Winners),
		LoserCount:      len(result.Losers),
	}
}
