package repository

import (
	"context"
	"testing"

	"matchpool/domain/entities"
	"matchpool/domain/services"
	"matchpool/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementRepository_ReplaceAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	matchRepo := NewMatchRepository(testDB.DB)
	repo := NewSettlementRepository(testDB.DB)
	ctx := context.Background()

	match := testutil.CreateTestMatchEnded("m1", "Alpha", "Beta", "Alpha")
	require.NoError(t, matchRepo.Create(ctx, match))

	t.Run("absent settlement", func(t *testing.T) {
		result, err := repo.Get(ctx, "m1")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("roundtrip preserves payout detail", func(t *testing.T) {
		calc := services.NewSettlementCalculator()
		winner := "Alpha"
		computed := calc.Settle("m1", []*entities.Prediction{
			{MatchID: "m1", Username: "alice", Team: "Alpha"},
			{MatchID: "m1", Username: "bob", Team: "Beta"},
			{MatchID: "m1", Username: "carol", Team: "Beta", IsDefault: true},
		}, 10, &winner, false)
		computed.CalculatedAt = match.EndTime

		require.NoError(t, repo.Replace(ctx, computed))

		loaded, err := repo.Get(ctx, "m1")
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.Equal(t, computed.TotalPool, loaded.TotalPool)
		assert.Equal(t, computed.RewardPerWinner, loaded.RewardPerWinner)
		assert.Equal(t, computed.Winners, loaded.Winners)
		assert.Equal(t, computed.Losers, loaded.Losers)
		assert.Equal(t, computed.Payouts, loaded.Payouts)
		assert.Equal(t, computed.Summary, loaded.Summary)
	})

	t.Run("replace supersedes prior row", func(t *testing.T) {
		calc := services.NewSettlementCalculator()
		winner := "Beta"
		recomputed := calc.Settle("m1", []*entities.Prediction{
			{MatchID: "m1", Username: "alice", Team: "Alpha"},
			{MatchID: "m1", Username: "bob", Team: "Beta"},
		}, 10, &winner, false)
		recomputed.CalculatedAt = match.EndTime

		require.NoError(t, repo.Replace(ctx, recomputed))

		loaded, err := repo.Get(ctx, "m1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.NotNil(t, loaded.WinnerTeam)
		assert.Equal(t, "Beta", *loaded.WinnerTeam)
		assert.Equal(t, []string{"bob"}, loaded.Winners)
	})
}
