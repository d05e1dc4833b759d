package entities

import (
	"time"
)

// PayoutLine is one user's share of a settlement
type PayoutLine struct {
	Username  string  `json:"username"`
	Team      string  `json:"team"`
	Reward    float64 `json:"reward"`
	IsWinner  bool    `json:"isWinner"`
	IsDefault bool    `json:"isDefault"`
}

// SettlementSummary is the human-readable recap of a settlement
type SettlementSummary struct {
	TotalPredictions   int    `json:"totalPredictions"`
	WinningPredictions int    `json:"winningPredictions"`
	LosingPredictions  int    `json:"losingPredictions"`
	Message            string `json:"message"`
}

// SettlementResult holds the final payout computation for an ended match.
// Recomputing over the same prediction set yields an identical result;
// persistence replaces the whole row rather than patching it.
type SettlementResult struct {
	MatchID         string            `json:"matchId"`
	MatchWeight     float64           `json:"matchWeight"`
	WinnerTeam      *string           `json:"winnerTeam"`
	IsDraw          bool              `json:"isDraw"`
	TotalPool       float64           `json:"totalPool"`
	RewardPerWinner float64           `json:"rewardPerWinner"`
	Winners         []string          `json:"winners"`
	Losers          []string          `json:"losers"`
	Payouts         []PayoutLine      `json:"payouts"`
	Summary         SettlementSummary `json:"summary"`
	CalculatedAt    time.Time         `json:"calculatedAt"`
}

// PayoutFor returns the payout line for username, or nil when the user
// did not participate
func (r *SettlementResult) PayoutFor(username string) *PayoutLine {
	for i := range r.Payouts {
		if r.Payouts[i].Username == username {
			return &r.Payouts[i]
		}
	}
	return nil
}

// ProjectedOutcome is the settlement that would occur if a given team won,
// computed from the live prediction set of a started match
type ProjectedOutcome struct {
	Team   string            `json:"team"`
	Result *SettlementResult `json:"result"`
}
