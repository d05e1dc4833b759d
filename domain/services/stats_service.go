package services

import (
	"context"
	"fmt"
	"sort"

	"matchpool/domain/entities"
	"matchpool/domain/interfaces"
)

// StatsService folds settlement outputs across matches into per-user and
// platform-wide aggregates. Read-only consumer of the ledger.
type StatsService struct {
	matchRepo      interfaces.MatchRepository
	predictionRepo interfaces.PredictionRepository
	settlementRepo interfaces.SettlementRepository
	userRepo       interfaces.UserRepository
	calculator     *SettlementCalculator
}

// NewStatsService creates a new stats service
func NewStatsService(
	matchRepo interfaces.MatchRepository,
	predictionRepo interfaces.PredictionRepository,
	settlementRepo interfaces.SettlementRepository,
	userRepo interfaces.UserRepository,
) *StatsService {
	return &StatsService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		settlementRepo: settlementRepo,
		userRepo:       userRepo,
		calculator:     NewSettlementCalculator(),
	}
}

// GetUserStats returns a user's running totals plus their per-match
// history. Matches that have not ended contribute nothing to the totals
// and appear in the history as pending.
func (s *StatsService) GetUserStats(ctx context.Context, username string) (*entities.UserStats, error) {
	predictions, err := s.predictionRepo.GetByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions for %s: %w", username, err)
	}

	stats := &entities.UserStats{
		Username: username,
		History:  []entities.MatchOutcome{},
	}

	for _, pred := range predictions {
		match, err := s.matchRepo.GetByID(ctx, pred.MatchID)
		if err != nil {
			return nil, fmt.Errorf("failed to get match %s: %w", pred.MatchID, err)
		}
		if match == nil {
			continue
		}

		outcome, reward, err := s.outcomeFor(ctx, match, pred.Username)
		if err != nil {
			return nil, err
		}

		switch outcome {
		case entities.OutcomeWin:
			stats.Totals.Wins++
		case entities.OutcomeLoss:
			stats.Totals.Losses++
		case entities.OutcomeDraw:
			stats.Totals.Draws++
		}
		if reward > 0 {
			stats.Totals.PointsGained += reward
		}
		if reward < 0 {
			stats.Totals.PointsLost += -reward
		}
		stats.Totals.NetPoints += reward

		stats.History = append(stats.History, entities.MatchOutcome{
			MatchID:    match.ID,
			ContestID:  match.ContestID,
			Teams:      match.Teams.Both(),
			Weight:     match.Weight,
			State:      match.State,
			Draw:       match.Draw,
			WinnerTeam: match.WinnerTeam,
			Team:       pred.Team,
			IsDefault:  pred.IsDefault,
			Reward:     reward,
			Outcome:    outcome,
		})
	}

	sort.Slice(stats.History, func(i, j int) bool {
		return stats.History[i].MatchID < stats.History[j].MatchID
	})

	return stats, nil
}

// GetPlatformStats aggregates every user's record, computes longest
// consecutive win/loss streaks over ended matches ordered by end time,
// and identifies the per-metric leaders. Users are processed in username
// order so metric ties go to the first user in that stable order.
func (s *StatsService) GetPlatformStats(ctx context.Context) (*entities.PlatformStats, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	matches, err := s.matchRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	predictionCount, err := s.predictionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}

	matchesByID := make(map[string]*entities.Match, len(matches))
	for _, m := range matches {
		matchesByID[m.ID] = m
	}

	usernames := make([]string, 0, len(users))
	for _, u := range users {
		usernames = append(usernames, u.Username)
	}
	sort.Strings(usernames)

	stats := &entities.PlatformStats{
		Users: []*entities.PlatformUserEntry{},
		Totals: entities.PlatformTotals{
			Users:       len(users),
			Matches:     len(matches),
			Predictions: predictionCount,
		},
	}

	for _, username := range usernames {
		entry, err := s.platformEntry(ctx, username, matchesByID)
		if err != nil {
			return nil, err
		}
		stats.Users = append(stats.Users, entry)
	}

	for _, entry := range stats.Users {
		l := &stats.Leaders
		if entry.Wins > 0 && (l.HighestWinUser == nil || entry.Wins > l.HighestWinUser.Wins) {
			l.HighestWinUser = entry
		}
		if entry.Losses > 0 && (l.HighestLossUser == nil || entry.Losses > l.HighestLossUser.Losses) {
			l.HighestLossUser = entry
		}
		if entry.LongestWinStreak > 0 && (l.LongestWinStreakUser == nil || entry.LongestWinStreak > l.LongestWinStreakUser.LongestWinStreak) {
			l.LongestWinStreakUser = entry
		}
		if entry.LongestLossStreak > 0 && (l.LongestLossStreakUser == nil || entry.LongestLossStreak > l.LongestLossStreakUser.LongestLossStreak) {
			l.LongestLossStreakUser = entry
		}
		if l.HighestNetUser == nil || entry.Net > l.HighestNetUser.Net {
			l.HighestNetUser = entry
		}
	}

	return stats, nil
}

// platformEntry builds one dashboard row for a user, walking their ended
// matches in end-time order for streak computation.
func (s *StatsService) platformEntry(ctx context.Context, username string, matchesByID map[string]*entities.Match) (*entities.PlatformUserEntry, error) {
	predictions, err := s.predictionRepo.GetByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions for %s: %w", username, err)
	}

	type settled struct {
		match   *entities.Match
		outcome entities.Outcome
		reward  float64
	}

	entry := &entities.PlatformUserEntry{Username: username, Count: len(predictions)}
	var rows []settled

	for _, pred := range predictions {
		match := matchesByID[pred.MatchID]
		if match == nil || !match.IsEnded() {
			continue
		}
		outcome, reward, err := s.outcomeFor(ctx, match, username)
		if err != nil {
			return nil, err
		}
		rows = append(rows, settled{match: match, outcome: outcome, reward: reward})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].match.EndTime.Equal(rows[j].match.EndTime) {
			return rows[i].match.ID < rows[j].match.ID
		}
		return rows[i].match.EndTime.Before(rows[j].match.EndTime)
	})

	winStreak, lossStreak := 0, 0
	for _, row := range rows {
		switch row.outcome {
		case entities.OutcomeWin:
			entry.Wins++
			winStreak++
			lossStreak = 0
		case entities.OutcomeLoss:
			entry.Losses++
			lossStreak++
			winStreak = 0
		case entities.OutcomeDraw:
			entry.Draws++
			winStreak, lossStreak = 0, 0
		default:
			winStreak, lossStreak = 0, 0
		}
		if winStreak > entry.LongestWinStreak {
			entry.LongestWinStreak = winStreak
		}
		if lossStreak > entry.LongestLossStreak {
			entry.LongestLossStreak = lossStreak
		}
		entry.Net += row.reward
	}

	return entry, nil
}

// outcomeFor classifies a user's result on a match. Non-ended matches are
// pending. Ended matches use the persisted settlement result, falling
// back to the pure calculator when no result row exists.
func (s *StatsService) outcomeFor(ctx context.Context, match *entities.Match, username string) (entities.Outcome, float64, error) {
	if !match.IsEnded() {
		return entities.OutcomePending, 0, nil
	}

	result, err := s.settlementRepo.Get(ctx, match.ID)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get settlement for match %s: %w", match.ID, err)
	}
	if result == nil {
		predictions, err := s.predictionRepo.GetByMatch(ctx, match.ID)
		if err != nil {
			return "", 0, fmt.Errorf("failed to get predictions for match %s: %w", match.ID, err)
		}
		result = s.calculator.Settle(match.ID, ValidPredictions(match, predictions), match.Weight, match.WinnerTeam, match.Draw)
	}

	line := result.PayoutFor(username)
	if line == nil {
		return entities.OutcomeNoPenalty, 0, nil
	}

	switch {
	case match.Draw:
		return entities.OutcomeDraw, line.Reward, nil
	case line.IsWinner:
		return entities.OutcomeWin, line.Reward, nil
	case line.Reward < 0:
		return entities.OutcomeLoss, line.Reward, nil
	default:
		// W=0 settlement: participated, nothing moved
		return entities.OutcomeNoPenalty, line.Reward, nil
	}
}

// ValidPredictions filters out predictions whose team is not one of the
// match's two. Malformed rows never reach the calculator.
func ValidPredictions(match *entities.Match, predictions []*entities.Prediction) []*entities.Prediction {
	valid := make([]*entities.Prediction, 0, len(predictions))
	for _, p := range predictions {
		if match.Teams.Contains(p.Team) {
			valid = append(valid, p)
		}
	}
	return valid
}
