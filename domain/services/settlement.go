package services

import (
	"fmt"
	"sort"
	"strconv"

	"matchpool/domain/entities"
)

// SettlementCalculator contains the pure pool arithmetic shared by final
// settlement and live what-if projections.
//
// Rules: with W predictors on the winning team and L on the losing team,
// the pool is L x weight and each winner receives pool / W while each
// loser pays the weight. With no winners nothing moves, and a draw
// redistributes nothing. Every branch is a zero-sum transfer over the
// full prediction set.
type SettlementCalculator struct{}

// NewSettlementCalculator creates a new SettlementCalculator
func NewSettlementCalculator() *SettlementCalculator {
	return &SettlementCalculator{}
}

// Settle computes the settlement for a match over the given prediction
// set. Referentially transparent: the same inputs always produce the same
// result, so it is safe to re-invoke after backfill additions or on
// manual recomputation. Output ordering is pinned to username order
// regardless of input order.
func (c *SettlementCalculator) Settle(matchID string, predictions []*entities.Prediction, weight float64, winnerTeam *string, isDraw bool) *entities.SettlementResult {
	sorted := make([]*entities.Prediction, len(predictions))
	copy(sorted, predictions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Username < sorted[j].Username
	})

	result := &entities.SettlementResult{
		MatchID:     matchID,
		MatchWeight: weight,
		WinnerTeam:  winnerTeam,
		IsDraw:      isDraw,
		Winners:     []string{},
		Losers:      []string{},
		Payouts:     make([]entities.PayoutLine, 0, len(sorted)),
	}

	if isDraw {
		for _, p := range sorted {
			result.Losers = append(result.Losers, p.Username)
			result.Payouts = append(result.Payouts, entities.PayoutLine{
				Username:  p.Username,
				Team:      p.Team,
				Reward:    0,
				IsWinner:  false,
				IsDefault: p.IsDefault,
			})
		}
		result.Summary = entities.SettlementSummary{
			TotalPredictions:  len(sorted),
			LosingPredictions: len(sorted),
			Message:           "Match ended in draw - no rewards distributed",
		}
		return result
	}

	winner := ""
	if winnerTeam != nil {
		winner = *winnerTeam
	}

	for _, p := range sorted {
		if p.Team == winner {
			result.Winners = append(result.Winners, p.Username)
		} else {
			result.Losers = append(result.Losers, p.Username)
		}
	}

	w := len(result.Winners)
	l := len(result.Losers)

	result.TotalPool = float64(l) * weight
	if w > 0 {
		result.RewardPerWinner = result.TotalPool / float64(w)
	}

	for _, p := range sorted {
		isWinner := p.Team == winner
		var reward float64
		// No winners means nothing is redistributed: losers keep their
		// points. Explicit policy, not an error.
		if w > 0 {
			if isWinner {
				reward = result.RewardPerWinner
			} else {
				reward = -weight
			}
		}
		result.Payouts = append(result.Payouts, entities.PayoutLine{
			Username:  p.Username,
			Team:      p.Team,
			Reward:    reward,
			IsWinner:  isWinner,
			IsDefault: p.IsDefault,
		})
	}

	message := "No winners - no rewards distributed"
	if w > 0 {
		message = fmt.Sprintf("%d winner(s) share %s points (%s each)",
			w, FormatPoints(result.TotalPool), FormatPoints(result.RewardPerWinner))
	}
	result.Summary = entities.SettlementSummary{
		TotalPredictions:   len(sorted),
		WinningPredictions: w,
		LosingPredictions:  l,
		Message:            message,
	}

	return result
}

// ProjectOutcomes computes, for each team of a live match, the settlement
// that would occur if that team won, over the current prediction set. It
// runs the exact same arithmetic as Settle so projected and final numbers
// cannot diverge.
func (c *SettlementCalculator) ProjectOutcomes(matchID string, predictions []*entities.Prediction, weight float64, teams entities.TeamPair) []entities.ProjectedOutcome {
	outcomes := make([]entities.ProjectedOutcome, 0, 2)
	for _, team := range teams.Both() {
		team := team
		outcomes = append(outcomes, entities.ProjectedOutcome{
			Team:   team,
			Result: c.Settle(matchID, predictions, weight, &team, false),
		})
	}
	return outcomes
}

// FormatPoints renders a point amount without decimals when integral and
// with one decimal place otherwise.
func FormatPoints(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 1, 64)
}
