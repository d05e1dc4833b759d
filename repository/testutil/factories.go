package testutil

import (
	"time"

	"matchpool/domain/entities"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(username string) *entities.User {
	return &entities.User{
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
}

// CreateTestMatch creates a planned test match starting 24 hours from now
func CreateTestMatch(id, home, away string) *entities.Match {
	now := time.Now().UTC()
	start := now.Add(24 * time.Hour)
	return &entities.Match{
		ID:        id,
		Teams:     entities.TeamPair{Home: home, Away: away},
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Weight:    10,
		State:     entities.MatchStatePlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestMatchWithTimes creates a planned test match with explicit start and end times
func CreateTestMatchWithTimes(id, home, away string, start, end time.Time) *entities.Match {
	match := CreateTestMatch(id, home, away)
	match.StartTime = start
	match.EndTime = end
	return match
}

// CreateTestMatchEnded creates an ended test match with a winner
func CreateTestMatchEnded(id, home, away, winner string) *entities.Match {
	now := time.Now().UTC()
	match := CreateTestMatch(id, home, away)
	match.StartTime = now.Add(-3 * time.Hour)
	match.EndTime = now.Add(-1 * time.Hour)
	match.State = entities.MatchStateEnded
	match.WinnerTeam = &winner
	return match
}

// CreateTestMatchDraw creates an ended test match that finished in a draw
func CreateTestMatchDraw(id, home, away string) *entities.Match {
	match := CreateTestMatchEnded(id, home, away, home)
	match.WinnerTeam = nil
	match.Draw = true
	return match
}

// CreateTestPrediction creates a user-placed test prediction
func CreateTestPrediction(matchID, username, team string) *entities.Prediction {
	return &entities.Prediction{
		MatchID:  matchID,
		Username: username,
		Team:     team,
		PlacedAt: time.Now().UTC(),
	}
}

// CreateTestDefaultPrediction creates a backfilled default test prediction
func CreateTestDefaultPrediction(matchID, username, team string) *entities.Prediction {
	prediction := CreateTestPrediction(matchID, username, team)
	prediction.IsDefault = true
	return prediction
}

// CreateTestContest creates a test contest with the given enrolled users
func CreateTestContest(id, name string, enrolled ...string) *entities.Contest {
	return &entities.Contest{
		ID:            id,
		Name:          name,
		EnrolledUsers: enrolled,
		CreatedAt:     time.Now().UTC(),
	}
}
