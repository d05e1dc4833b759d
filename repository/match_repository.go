package repository

import (
	"context"
	"fmt"

	"matchpool/database"
	"matchpool/domain/entities"
	"matchpool/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type matchRepository struct {
	q Queryable
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *database.DB) interfaces.MatchRepository {
	return &matchRepository{q: db.Pool}
}

// newMatchRepositoryWithTx creates a new match repository bound to a transaction
func newMatchRepositoryWithTx(tx Queryable) interfaces.MatchRepository {
	return &matchRepository{q: tx}
}

const matchColumns = `id, contest_id, team1, team2, start_time, end_time, weight, state, winner_team, draw, created_at, updated_at`

func scanMatch(row pgx.Row) (*entities.Match, error) {
	var m entities.Match
	err := row.Scan(
		&m.ID,
		&m.ContestID,
		&m.Teams.Home,
		&m.Teams.Away,
		&m.StartTime,
		&m.EndTime,
		&m.Weight,
		&m.State,
		&m.WinnerTeam,
		&m.Draw,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (*entities.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE id = $1`, matchColumns)

	match, err := scanMatch(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

func (r *matchRepository) GetAll(ctx context.Context) ([]*entities.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches ORDER BY start_time, id`, matchColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *matchRepository) GetByContest(ctx context.Context, contestID string) ([]*entities.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM matches WHERE contest_id = $1 ORDER BY start_time, id`, matchColumns)

	rows, err := r.q.Query(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contest matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func collectMatches(rows pgx.Rows) ([]*entities.Match, error) {
	var matches []*entities.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}
	return matches, nil
}

func (r *matchRepository) Create(ctx context.Context, match *entities.Match) error {
	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if match.State == "" {
		match.State = entities.MatchStatePlanned
	}

	query := `
		INSERT INTO matches (id, contest_id, team1, team2, start_time, end_time, weight, state, winner_team, draw)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		match.ID,
		match.ContestID,
		match.Teams.Home,
		match.Teams.Away,
		match.StartTime,
		match.EndTime,
		match.Weight,
		match.State,
		match.WinnerTeam,
		match.Draw,
	).Scan(&match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *matchRepository) Update(ctx context.Context, match *entities.Match) error {
	query := `
		UPDATE matches
		SET state = $2, winner_team = $3, draw = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query,
		match.ID,
		match.State,
		match.WinnerTeam,
		match.Draw,
	).Scan(&match.UpdatedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("match %s does not exist", match.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}
