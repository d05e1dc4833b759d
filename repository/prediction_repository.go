package repository

import (
	"context"
	"fmt"

	"matchpool/database"
	"matchpool/domain/entities"
	"matchpool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type predictionRepository struct {
	q Queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *database.DB) interfaces.PredictionRepository {
	return &predictionRepository{q: db.Pool}
}

// newPredictionRepositoryWithTx creates a new prediction repository bound to a transaction
func newPredictionRepositoryWithTx(tx Queryable) interfaces.PredictionRepository {
	return &predictionRepository{q: tx}
}

const predictionColumns = `match_id, username, team, placed_at, is_default`

func (r *predictionRepository) Get(ctx context.Context, matchID, username string) (*entities.Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE match_id = $1 AND username = $2`, predictionColumns)

	var p entities.Prediction
	err := r.q.QueryRow(ctx, query, matchID, username).Scan(
		&p.MatchID, &p.Username, &p.Team, &p.PlacedAt, &p.IsDefault,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &p, nil
}

func (r *predictionRepository) GetByMatch(ctx context.Context, matchID string) ([]*entities.Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE match_id = $1 ORDER BY username`, predictionColumns)

	rows, err := r.q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func (r *predictionRepository) GetByUser(ctx context.Context, username string) ([]*entities.Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE username = $1 ORDER BY match_id`, predictionColumns)

	rows, err := r.q.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func collectPredictions(rows pgx.Rows) ([]*entities.Prediction, error) {
	var predictions []*entities.Prediction
	for rows.Next() {
		var p entities.Prediction
		if err := rows.Scan(&p.MatchID, &p.Username, &p.Team, &p.PlacedAt, &p.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}
	return predictions, nil
}

func (r *predictionRepository) Upsert(ctx context.Context, prediction *entities.Prediction) error {
	query := `
		INSERT INTO predictions (match_id, username, team, placed_at, is_default)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, username)
		DO UPDATE SET team = EXCLUDED.team, placed_at = EXCLUDED.placed_at, is_default = EXCLUDED.is_default`

	_, err := r.q.Exec(ctx, query,
		prediction.MatchID,
		prediction.Username,
		prediction.Team,
		prediction.PlacedAt,
		prediction.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}
	return nil
}

func (r *predictionRepository) Delete(ctx context.Context, matchID, username string) (bool, error) {
	query := `DELETE FROM predictions WHERE match_id = $1 AND username = $2`

	tag, err := r.q.Exec(ctx, query, matchID, username)
	if err != nil {
		return false, fmt.Errorf("failed to delete prediction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *predictionRepository) CreateMissing(ctx context.Context, predictions []*entities.Prediction) error {
	// ON CONFLICT DO NOTHING keeps backfill from ever overwriting a
	// user-entered or previously backfilled prediction
	query := `
		INSERT INTO predictions (match_id, username, team, placed_at, is_default)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id, username) DO NOTHING`

	for _, p := range predictions {
		if _, err := r.q.Exec(ctx, query, p.MatchID, p.Username, p.Team, p.PlacedAt, p.IsDefault); err != nil {
			return fmt.Errorf("failed to insert default prediction for %s: %w", p.Username, err)
		}
	}
	return nil
}

func (r *predictionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return count, nil
}
