package services

import (
	"context"
	"fmt"
	"sort"

	"matchpool/domain/entities"
	"matchpool/domain/interfaces"
)

// ContestService resolves contest membership and standings. Contest and
// enrollment data belong to an external collaborator; this service only
// reads them.
type ContestService struct {
	contestRepo    interfaces.ContestRepository
	matchRepo      interfaces.MatchRepository
	predictionRepo interfaces.PredictionRepository
	settlementRepo interfaces.SettlementRepository
	calculator     *SettlementCalculator
}

// NewContestService creates a new contest service
func NewContestService(
	contestRepo interfaces.ContestRepository,
	matchRepo interfaces.MatchRepository,
	predictionRepo interfaces.PredictionRepository,
	settlementRepo interfaces.SettlementRepository,
) *ContestService {
	return &ContestService{
		contestRepo:    contestRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		settlementRepo: settlementRepo,
		calculator:     NewSettlementCalculator(),
	}
}

// GetContestMatches returns a contest's matches. Explicitly linked
// matches take priority; when none are linked, matches starting inside
// the contest window that are not claimed by a different contest are
// attributed to it.
func (s *ContestService) GetContestMatches(ctx context.Context, contestID string) ([]*entities.Match, error) {
	contest, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest %s: %w", contestID, err)
	}
	if contest == nil {
		return []*entities.Match{}, nil
	}

	linked, err := s.matchRepo.GetByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest matches: %w", err)
	}
	if len(linked) > 0 {
		return linked, nil
	}

	// With no linked matches there is nothing to derive dates from, so the
	// fallback window comes from the contest's own declared dates.
	dates := contest.DeclaredDates()
	if dates.StartDate == nil || dates.EndDate == nil {
		return []*entities.Match{}, nil
	}

	all, err := s.matchRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	var windowed []*entities.Match
	for _, m := range all {
		inWindow := !m.StartTime.Before(*dates.StartDate) && !m.StartTime.After(*dates.EndDate)
		claimedElsewhere := m.ContestID != nil && *m.ContestID != contestID
		if inWindow && !claimedElsewhere {
			windowed = append(windowed, m)
		}
	}
	return windowed, nil
}

// GetContestDates derives a contest's effective window from its matches
func (s *ContestService) GetContestDates(ctx context.Context, contestID string) (entities.ContestDates, error) {
	matches, err := s.matchRepo.GetByContest(ctx, contestID)
	if err != nil {
		return entities.ContestDates{}, fmt.Errorf("failed to get contest matches: %w", err)
	}
	return entities.DeriveContestDates(matches), nil
}

// GetContestStats aggregates per-user standings across a contest's
// matches and identifies the top winner and top loser. Ties go to the
// first user in username order.
func (s *ContestService) GetContestStats(ctx context.Context, contestID string) (*entities.ContestStats, error) {
	matches, err := s.GetContestMatches(ctx, contestID)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*entities.ContestUserEntry)
	totalPredictions := 0

	for _, match := range matches {
		predictions, err := s.predictionRepo.GetByMatch(ctx, match.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get predictions for match %s: %w", match.ID, err)
		}

		var result *entities.SettlementResult
		if match.IsEnded() {
			result, err = s.settlementRepo.Get(ctx, match.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to get settlement for match %s: %w", match.ID, err)
			}
			if result == nil {
				result = s.calculator.Settle(match.ID, ValidPredictions(match, predictions), match.Weight, match.WinnerTeam, match.Draw)
			}
		}

		for _, pred := range predictions {
			entry := byUser[pred.Username]
			if entry == nil {
				entry = &entities.ContestUserEntry{Username: pred.Username}
				byUser[pred.Username] = entry
			}
			entry.TotalPredictions++
			totalPredictions++

			if result == nil || match.Draw {
				continue
			}
			line := result.PayoutFor(pred.Username)
			if line == nil {
				continue
			}
			if line.IsWinner {
				entry.Wins++
			} else {
				entry.Losses++
			}
			entry.TotalRewards += line.Reward
		}
	}

	entries := make([]*entities.ContestUserEntry, 0, len(byUser))
	for _, entry := range byUser {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Username < entries[j].Username
	})

	stats := &entities.ContestStats{
		UserStats:        entries,
		TotalUsers:       len(entries),
		TotalPredictions: totalPredictions,
	}
	for _, entry := range entries {
		if entry.Wins > 0 && (stats.TopWinner == nil || entry.Wins > stats.TopWinner.Wins) {
			stats.TopWinner = entry
		}
		if entry.Losses > 0 && (stats.TopLoser == nil || entry.Losses > stats.TopLoser.Losses) {
			stats.TopLoser = entry
		}
	}

	return stats, nil
}
