package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeMatchStarted       EventType = "match_started"
	EventTypeMatchEnded         EventType = "match_ended"
	EventTypeSettlementComputed EventType = "settlement_computed"
	EventTypePredictionPlaced   EventType = "prediction_placed"
	EventTypePredictionRemoved  EventType = "prediction_removed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// MatchStartedEvent fires when a match transitions planned -> started
type MatchStartedEvent struct {
	MatchID   string    `json:"matchId"`
	StartTime time.Time `json:"startTime"`
}

func (e MatchStartedEvent) Type() EventType {
	return EventTypeMatchStarted
}

// MatchEndedEvent fires on the one-time started -> ended edge
type MatchEndedEvent struct {
	MatchID    string  `json:"matchId"`
	WinnerTeam *string `json:"winnerTeam"`
	Draw       bool    `json:"draw"`
}

func (e MatchEndedEvent) Type() EventType {
	return EventTypeMatchEnded
}

// SettlementComputedEvent fires whenever a settlement result is persisted,
// including idempotent recomputations
type SettlementComputedEvent struct {
	MatchID         string  `json:"matchId"`
	TotalPool       float64 `json:"totalPool"`
	RewardPerWinner float64 `json:"rewardPerWinner"`
	WinnerCount     int     `json:"winnerCount"`
	LoserCount      int     `json:"loserCount"`
}

func (e SettlementComputedEvent) Type() EventType {
	return EventTypeSettlementComputed
}

// PredictionPlacedEvent fires when a user places or replaces a prediction
type PredictionPlacedEvent struct {
	MatchID  string `json:"matchId"`
	Username string `json:"username"`
	Team     string `json:"team"`
}

func (e PredictionPlacedEvent) Type() EventType {
	return EventTypePredictionPlaced
}

// PredictionRemovedEvent fires when a user withdraws a prediction
type PredictionRemovedEvent struct {
	MatchID  string `json:"matchId"`
	Username string `json:"username"`
}

func (e PredictionRemovedEvent) Type() EventType {
	return EventTypePredictionRemoved
}
