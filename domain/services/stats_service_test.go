package services

import (
	"context"
	"testing"
	"time"

	"matchpool/domain/entities"
	"matchpool/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsFixture struct {
	matchRepo      *testhelpers.MockMatchRepository
	predictionRepo *testhelpers.MockPredictionRepository
	settlementRepo *testhelpers.MockSettlementRepository
	userRepo       *testhelpers.MockUserRepository
	service        *StatsService
}

func newStatsFixture() *statsFixture {
	f := &statsFixture{
		matchRepo:      new(testhelpers.MockMatchRepository),
		predictionRepo: new(testhelpers.MockPredictionRepository),
		settlementRepo: new(testhelpers.MockSettlementRepository),
		userRepo:       new(testhelpers.MockUserRepository),
	}
	f.service = NewStatsService(f.matchRepo, f.predictionRepo, f.settlementRepo, f.userRepo)
	return f
}

func endedMatch(id, winner string, endOffset time.Duration) *entities.Match {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &entities.Match{
		ID:        id,
		Teams:     entities.TeamPair{Home: "Alpha", Away: "Beta"},
		StartTime: base.Add(endOffset - 2*time.Hour),
		EndTime:   base.Add(endOffset),
		Weight:    10,
		State:     entities.MatchStateEnded,
	}
	if winner == "" {
		m.Draw = true
	} else {
		m.WinnerTeam = &winner
	}
	return m
}

func TestStatsService_GetUserStats_TotalsAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture()

	won := endedMatch("m1", "Alpha", 0)
	lost := endedMatch("m2", "Beta", time.Hour)
	drawn := endedMatch("m3", "", 2*time.Hour)
	pending := &entities.Match{
		ID:        "m4",
		Teams:     entities.TeamPair{Home: "Alpha", Away: "Beta"},
		StartTime: time.Now().UTC().Add(time.Hour),
		EndTime:   time.Now().UTC().Add(3 * time.Hour),
		Weight:    10,
		State:     entities.MatchStatePlanned,
	}

	f.predictionRepo.On("GetByUser", ctx, "alice").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
		{MatchID: "m2", Username: "alice", Team: "Alpha"},
		{MatchID: "m3", Username: "alice", Team: "Alpha"},
		{MatchID: "m4", Username: "alice", Team: "Alpha"},
	}, nil)
	f.matchRepo.On("GetByID", ctx, "m1").Return(won, nil)
	f.matchRepo.On("GetByID", ctx, "m2").Return(lost, nil)
	f.matchRepo.On("GetByID", ctx, "m3").Return(drawn, nil)
	f.matchRepo.On("GetByID", ctx, "m4").Return(pending, nil)

	// No persisted settlements: the calculator fallback runs over the
	// match's live predictions
	f.settlementRepo.On("Get", ctx, "m1").Return(nil, nil)
	f.settlementRepo.On("Get", ctx, "m2").Return(nil, nil)
	f.settlementRepo.On("Get", ctx, "m3").Return(nil, nil)
	f.predictionRepo.On("GetByMatch", ctx, "m1").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
		{MatchID: "m1", Username: "bob", Team: "Beta"},
	}, nil)
	f.predictionRepo.On("GetByMatch", ctx, "m2").Return([]*entities.Prediction{
		{MatchID: "m2", Username: "alice", Team: "Alpha"},
		{MatchID: "m2", Username: "bob", Team: "Beta"},
	}, nil)
	f.predictionRepo.On("GetByMatch", ctx, "m3").Return([]*entities.Prediction{
		{MatchID: "m3", Username: "alice", Team: "Alpha"},
	}, nil)

	stats, err := f.service.GetUserStats(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Totals.Wins)
	assert.Equal(t, 1, stats.Totals.Losses)
	assert.Equal(t, 1, stats.Totals.Draws)
	assert.Equal(t, 10.0, stats.Totals.PointsGained)
	assert.Equal(t, 10.0, stats.Totals.PointsLost)
	assert.Zero(t, stats.Totals.NetPoints)

	require.Len(t, stats.History, 4)
	assert.Equal(t, entities.OutcomeWin, stats.History[0].Outcome)
	assert.Equal(t, entities.OutcomeLoss, stats.History[1].Outcome)
	assert.Equal(t, entities.OutcomeDraw, stats.History[2].Outcome)
	assert.Equal(t, entities.OutcomePending, stats.History[3].Outcome)
}

func TestStatsService_GetUserStats_UsesPersistedSettlement(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture()

	match := endedMatch("m1", "Alpha", 0)

	f.predictionRepo.On("GetByUser", ctx, "alice").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
	}, nil)
	f.matchRepo.On("GetByID", ctx, "m1").Return(match, nil)
	f.settlementRepo.On("Get", ctx, "m1").Return(&entities.SettlementResult{
		MatchID: "m1",
		Payouts: []entities.PayoutLine{
			{Username: "alice", Team: "Alpha", Reward: 30, IsWinner: true},
		},
	}, nil)

	stats, err := f.service.GetUserStats(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, 30.0, stats.Totals.NetPoints)
	f.predictionRepo.AssertNotCalled(t, "GetByMatch", ctx, "m1")
}

func TestStatsService_GetPlatformStats_StreaksAndLeaders(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture()

	m1 := endedMatch("m1", "Alpha", 0)
	m2 := endedMatch("m2", "Alpha", time.Hour)
	m3 := endedMatch("m3", "Beta", 2*time.Hour)

	f.userRepo.On("GetAll", ctx).Return([]*entities.User{
		{Username: "bob"},
		{Username: "alice"},
	}, nil)
	f.matchRepo.On("GetAll", ctx).Return([]*entities.Match{m1, m2, m3}, nil)
	f.predictionRepo.On("Count", ctx).Return(6, nil)

	f.predictionRepo.On("GetByUser", ctx, "alice").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
		{MatchID: "m2", Username: "alice", Team: "Alpha"},
		{MatchID: "m3", Username: "alice", Team: "Alpha"},
	}, nil)
	f.predictionRepo.On("GetByUser", ctx, "bob").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "bob", Team: "Beta"},
		{MatchID: "m2", Username: "bob", Team: "Beta"},
		{MatchID: "m3", Username: "bob", Team: "Beta"},
	}, nil)

	for _, id := range []string{"m1", "m2", "m3"} {
		f.settlementRepo.On("Get", ctx, id).Return(nil, nil)
		f.predictionRepo.On("GetByMatch", ctx, id).Return([]*entities.Prediction{
			{MatchID: id, Username: "alice", Team: "Alpha"},
			{MatchID: id, Username: "bob", Team: "Beta"},
		}, nil)
	}

	stats, err := f.service.GetPlatformStats(ctx)
	require.NoError(t, err)

	require.Len(t, stats.Users, 2)
	alice, bob := stats.Users[0], stats.Users[1]
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, "bob", bob.Username)

	assert.Equal(t, 2, alice.Wins)
	assert.Equal(t, 1, alice.Losses)
	assert.Equal(t, 2, alice.LongestWinStreak)
	assert.Equal(t, 1, alice.LongestLossStreak)
	assert.Equal(t, 10.0, alice.Net)

	assert.Equal(t, 1, bob.Wins)
	assert.Equal(t, 2, bob.Losses)
	assert.Equal(t, 2, bob.LongestLossStreak)
	assert.Equal(t, -10.0, bob.Net)

	assert.Same(t, alice, stats.Leaders.HighestWinUser)
	assert.Same(t, bob, stats.Leaders.HighestLossUser)
	assert.Same(t, alice, stats.Leaders.LongestWinStreakUser)
	assert.Same(t, bob, stats.Leaders.LongestLossStreakUser)
	assert.Same(t, alice, stats.Leaders.HighestNetUser)

	assert.Equal(t, 2, stats.Totals.Users)
	assert.Equal(t, 3, stats.Totals.Matches)
	assert.Equal(t, 6, stats.Totals.Predictions)
}

func TestStatsService_GetPlatformStats_NoUsers(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture()

	f.userRepo.On("GetAll", ctx).Return([]*entities.User{}, nil)
	f.matchRepo.On("GetAll", ctx).Return([]*entities.Match{}, nil)
	f.predictionRepo.On("Count", ctx).Return(0, nil)

	stats, err := f.service.GetPlatformStats(ctx)
	require.NoError(t, err)

	assert.Empty(t, stats.Users)
	assert.Nil(t, stats.Leaders.HighestWinUser)
	assert.Nil(t, stats.Leaders.HighestNetUser)
}

func TestStatsService_OutcomeNoPenaltyWhenNotInPool(t *testing.T) {
	ctx := context.Background()
	f := newStatsFixture()

	match := endedMatch("m1", "Alpha", 0)

	// The user's prediction row exists but the settlement never included
	// them (malformed team filtered out)
	f.predictionRepo.On("GetByUser", ctx, "mallory").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "mallory", Team: "Gamma"},
	}, nil)
	f.matchRepo.On("GetByID", ctx, "m1").Return(match, nil)
	f.settlementRepo.On("Get", ctx, "m1").Return(nil, nil)
	f.predictionRepo.On("GetByMatch", ctx, "m1").Return([]*entities.Prediction{
		{MatchID: "m1", Username: "mallory", Team: "Gamma"},
	}, nil)

	stats, err := f.service.GetUserStats(ctx, "mallory")
	require.NoError(t, err)

	require.Len(t, stats.History, 1)
	assert.Equal(t, entities.OutcomeNoPenalty, stats.History[0].Outcome)
	assert.Zero(t, stats.Totals.NetPoints)
}

func TestValidPredictions(t *testing.T) {
	match := endedMatch("m1", "Alpha", 0)
	predictions := []*entities.Prediction{
		{MatchID: "m1", Username: "alice", Team: "Alpha"},
		{MatchID: "m1", Username: "mallory", Team: "Gamma"},
		{MatchID: "m1", Username: "bob", Team: "Beta"},
	}

	valid := ValidPredictions(match, predictions)

	require.Len(t, valid, 2)
	assert.Equal(t, "alice", valid[0].Username)
	assert.Equal(t, "bob", valid[1].Username)
}
