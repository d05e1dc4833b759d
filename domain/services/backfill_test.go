package services

import (
	"testing"
	"time"

	"matchpool/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backfillMatch(winner *string, draw bool) *entities.Match {
	return &entities.Match{
		ID:         "m1",
		Teams:      entities.TeamPair{Home: "Alpha", Away: "Beta"},
		Weight:     10,
		State:      entities.MatchStateStarted,
		WinnerTeam: winner,
		Draw:       draw,
	}
}

func TestBackfillService_TargetsLosingTeam(t *testing.T) {
	svc := NewBackfillService()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	winner := "Alpha"
	match := backfillMatch(&winner, false)

	enrolled := []string{"carol", "alice", "bob"}
	existing := []*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
	}

	defaults := svc.ComputeDefaults(match, enrolled, existing, now)

	require.Len(t, defaults, 2)
	assert.Equal(t, "bob", defaults[0].Username)
	assert.Equal(t, "carol", defaults[1].Username)
	for _, d := range defaults {
		assert.Equal(t, "Beta", d.Team)
		assert.True(t, d.IsDefault)
		assert.Equal(t, now, d.PlacedAt)
	}
}

func TestBackfillService_DrawTargetsFirstTeam(t *testing.T) {
	svc := NewBackfillService()
	now := time.Now().UTC()
	match := backfillMatch(nil, true)
	match.Teams = entities.TeamPair{Home: "Zeta", Away: "Alpha"}

	defaults := svc.ComputeDefaults(match, []string{"alice"}, nil, now)

	require.Len(t, defaults, 1)
	assert.Equal(t, "Alpha", defaults[0].Team)
}

func TestBackfillService_NoEnrollmentNoDefaults(t *testing.T) {
	svc := NewBackfillService()
	winner := "Alpha"
	match := backfillMatch(&winner, false)

	assert.Nil(t, svc.ComputeDefaults(match, nil, nil, time.Now().UTC()))
}

func TestBackfillService_AllPredictedNoDefaults(t *testing.T) {
	svc := NewBackfillService()
	winner := "Alpha"
	match := backfillMatch(&winner, false)

	existing := []*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
		{MatchID: "m1", Username: "bob", Team: "Beta"},
	}

	assert.Empty(t, svc.ComputeDefaults(match, []string{"alice", "bob"}, existing, time.Now().UTC()))
}

func TestBackfillService_ExistingDefaultsNotDuplicated(t *testing.T) {
	svc := NewBackfillService()
	now := time.Now().UTC()
	winner := "Alpha"
	match := backfillMatch(&winner, false)

	enrolled := []string{"alice", "bob"}
	first := svc.ComputeDefaults(match, enrolled, nil, now)
	require.Len(t, first, 2)

	// Re-running over the backfilled set yields nothing
	second := svc.ComputeDefaults(match, enrolled, first, now)
	assert.Empty(t, second)
}

func TestBackfillService_DuplicateEnrollmentEntries(t *testing.T) {
	svc := NewBackfillService()
	winner := "Alpha"
	match := backfillMatch(&winner, false)

	defaults := svc.ComputeDefaults(match, []string{"alice", "alice"}, nil, time.Now().UTC())

	assert.Len(t, defaults, 1)
}
