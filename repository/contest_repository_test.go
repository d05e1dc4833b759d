package repository

import (
	"context"
	"testing"
	"time"

	"matchpool/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Contest and user rows are written by an external collaborator, so the
// tests seed them directly.
func seedContestData(t *testing.T, testDB *testutil.TestDatabase) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	_, err := testDB.DB.Exec(ctx,
		`INSERT INTO users (username) VALUES ('alice'), ('bob'), ('carol')`)
	require.NoError(t, err)

	_, err = testDB.DB.Exec(ctx,
		`INSERT INTO contests (id, name, start_date, end_date) VALUES ('c1', 'Summer Cup', $1, $2)`,
		start, end)
	require.NoError(t, err)

	_, err = testDB.DB.Exec(ctx,
		`INSERT INTO contest_enrollments (contest_id, username) VALUES ('c1', 'carol'), ('c1', 'alice')`)
	require.NoError(t, err)
}

func TestContestRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	seedContestData(t, testDB)

	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	t.Run("contest not found", func(t *testing.T) {
		contest, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, contest)
	})

	t.Run("contest found with enrollment", func(t *testing.T) {
		contest, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		require.NotNil(t, contest)

		assert.Equal(t, "Summer Cup", contest.Name)
		require.NotNil(t, contest.StartDate)
		require.NotNil(t, contest.EndDate)
		assert.Equal(t, []string{"alice", "carol"}, contest.EnrolledUsers)
	})
}

func TestContestRepository_GetEnrolledUsers(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	seedContestData(t, testDB)

	repo := NewContestRepository(testDB.DB)
	ctx := context.Background()

	enrolled, err := repo.GetEnrolledUsers(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol"}, enrolled)

	empty, err := repo.GetEnrolledUsers(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepository_GetAllOrdering(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	seedContestData(t, testDB)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
