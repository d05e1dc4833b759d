package repository

import (
	"context"
	"fmt"

	"matchpool/database"
	"matchpool/domain/entities"
	"matchpool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type contestRepository struct {
	q Queryable
}

// NewContestRepository creates a new contest repository
func NewContestRepository(db *database.DB) interfaces.ContestRepository {
	return &contestRepository{q: db.Pool}
}

// newContestRepositoryWithTx creates a new contest repository bound to a transaction
func newContestRepositoryWithTx(tx Queryable) interfaces.ContestRepository {
	return &contestRepository{q: tx}
}

func (r *contestRepository) GetByID(ctx context.Context, id string) (*entities.Contest, error) {
	query := `SELECT id, name, start_date, end_date, created_at FROM contests WHERE id = $1`

	var c entities.Contest
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	c.EnrolledUsers, err = r.GetEnrolledUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contestRepository) GetAll(ctx context.Context) ([]*entities.Contest, error) {
	query := `SELECT id, name, start_date, end_date, created_at FROM contests ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contests: %w", err)
	}
	defer rows.Close()

	var contests []*entities.Contest
	for rows.Next() {
		var c entities.Contest
		if err := rows.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contests: %w", err)
	}

	for _, c := range contests {
		c.EnrolledUsers, err = r.GetEnrolledUsers(ctx, c.ID)
		if err != nil {
			return nil, err
		}
	}
	return contests, nil
}

func (r *contestRepository) GetEnrolledUsers(ctx context.Context, contestID string) ([]string, error) {
	query := `SELECT username FROM contest_enrollments WHERE contest_id = $1 ORDER BY username`

	rows, err := r.q.Query(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read enrollments: %w", err)
	}
	return usernames, nil
}
