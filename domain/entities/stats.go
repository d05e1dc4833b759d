package entities

// Outcome classifies a user's result on a single match
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeDraw      Outcome = "draw"
	OutcomeNoPenalty Outcome = "no-penalty"
	OutcomePending   Outcome = "pending"
)

// UserTotals are a user's running totals across ended matches
type UserTotals struct {
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Draws        int     `json:"draws"`
	PointsGained float64 `json:"pointsGained"`
	PointsLost   float64 `json:"pointsLost"`
	NetPoints    float64 `json:"netPoints"`
}

// MatchOutcome is one entry of a user's prediction history
type MatchOutcome struct {
	MatchID    string     `json:"matchId"`
	ContestID  *string    `json:"contestId"`
	Teams      [2]string  `json:"teams"`
	Weight     float64    `json:"weight"`
	State      MatchState `json:"state"`
	Draw       bool       `json:"draw"`
	WinnerTeam *string    `json:"winnerTeam"`
	Team       string     `json:"team"`
	IsDefault  bool       `json:"isDefault"`
	Reward     float64    `json:"reward"`
	Outcome    Outcome    `json:"outcome"`
}

// UserStats combines a user's totals with their per-match history.
// Pending matches appear in the history but contribute nothing to totals.
type UserStats struct {
	Username string         `json:"username"`
	Totals   UserTotals     `json:"totals"`
	History  []MatchOutcome `json:"history"`
}

// PlatformUserEntry is one row of the platform-wide dashboard
type PlatformUserEntry struct {
	Username          string  `json:"username"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	Draws             int     `json:"draws"`
	Net               float64 `json:"net"`
	LongestWinStreak  int     `json:"longestWinStreak"`
	LongestLossStreak int     `json:"longestLossStreak"`
	Count             int     `json:"count"`
}

// PlatformLeaders identifies the leading user per metric. Ties go to the
// first user encountered in the stable username order.
type PlatformLeaders struct {
	HighestWinUser        *PlatformUserEntry `json:"highestWinUser"`
	HighestLossUser       *PlatformUserEntry `json:"highestLossUser"`
	LongestWinStreakUser  *PlatformUserEntry `json:"longestContinuousWinUser"`
	LongestLossStreakUser *PlatformUserEntry `json:"longestContinuousLossUser"`
	HighestNetUser        *PlatformUserEntry `json:"highestNetUser"`
}

// PlatformTotals are the headline counters of the platform dashboard
type PlatformTotals struct {
	Users       int `json:"users"`
	Matches     int `json:"matches"`
	Predictions int `json:"bets"`
}

// PlatformStats is the platform-wide aggregation across all users
type PlatformStats struct {
	Users   []*PlatformUserEntry `json:"users"`
	Leaders PlatformLeaders      `json:"leaders"`
	Totals  PlatformTotals       `json:"totals"`
}

// ContestUserEntry is one user's aggregate within a contest
type ContestUserEntry struct {
	Username         string  `json:"username"`
	TotalPredictions int     `json:"totalBets"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	TotalRewards     float64 `json:"totalRewards"`
}

// ContestStats aggregates standings for a single contest
type ContestStats struct {
	UserStats        []*ContestUserEntry `json:"userStats"`
	TopWinner        *ContestUserEntry   `json:"topWinner"`
	TopLoser         *ContestUserEntry   `json:"topLoser"`
	TotalUsers       int                 `json:"totalUsers"`
	TotalPredictions int                 `json:"totalBets"`
}
