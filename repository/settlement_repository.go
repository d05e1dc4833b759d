package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"matchpool/database"
	"matchpool/domain/entities"
	"matchpool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type settlementRepository struct {
	q Queryable
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *database.DB) interfaces.SettlementRepository {
	return &settlementRepository{q: db.Pool}
}

// newSettlementRepositoryWithTx creates a new settlement repository bound to a transaction
func newSettlementRepositoryWithTx(tx Queryable) interfaces.SettlementRepository {
	return &settlementRepository{q: tx}
}

func (r *settlementRepository) Get(ctx context.Context, matchID string) (*entities.SettlementResult, error) {
	query := `SELECT payload FROM settlement_results WHERE match_id = $1`

	var payload []byte
	err := r.q.QueryRow(ctx, query, matchID).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement result: %w", err)
	}

	var result entities.SettlementResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode settlement result: %w", err)
	}
	return &result, nil
}

func (r *settlementRepository) Replace(ctx context.Context, result *entities.SettlementResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode settlement result: %w", err)
	}

	// Whole-row upsert: a recomputation supersedes the previous result,
	// never patches it
	query := `
		INSERT INTO settlement_results (match_id, match_weight, winner_team, is_draw, total_pool, reward_per_winner, payload, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (match_id) DO UPDATE SET
			match_weight = EXCLUDED.match_weight,
			winner_team = EXCLUDED.winner_team,
			is_draw = EXCLUDED.is_draw,
			total_pool = EXCLUDED.total_pool,
			reward_per_winner = EXCLUDED.reward_per_winner,
			payload = EXCLUDED.payload,
			calculated_at = EXCLUDED.calculated_at`

	_, err = r.q.Exec(ctx, query,
		result.MatchID,
		result.MatchWeight,
		result.WinnerTeam,
		result.IsDraw,
		result.TotalPool,
		result.RewardPerWinner,
		payload,
		result.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to persist settlement result: %w", err)
	}
	return nil
}
