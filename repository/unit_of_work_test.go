package repository

import (
	"context"
	"testing"

	"matchpool/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	match := testutil.CreateTestMatch("m1", "Alpha", "Beta")
	require.NoError(t, uow.MatchRepository().Create(ctx, match))
	require.NoError(t, uow.Commit())

	loaded, err := NewMatchRepository(testDB.DB).GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	match := testutil.CreateTestMatch("m1", "Alpha", "Beta")
	require.NoError(t, uow.MatchRepository().Create(ctx, match))
	require.NoError(t, uow.Rollback())

	loaded, err := NewMatchRepository(testDB.DB).GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestUnitOfWork_GetterPanicsBeforeBegin(t *testing.T) {
	factory := NewUnitOfWorkFactory(nil)
	uow := factory.Create()

	assert.Panics(t, func() {
		uow.MatchRepository()
	})
}
