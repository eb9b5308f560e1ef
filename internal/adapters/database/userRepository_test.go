package database

import (
	"context"
	"testing"
	"time"

	"unifollow/internal/core/user"
	userPort "unifollow/internal/ports/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByIDsSkipsMissing(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, repo, "A", "B")

	found, err := repo.FindByIDs(ctx, []string{"A", "gone", "B"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = repo.FindByID(ctx, "gone")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdateCountsOnlyWritesGivenFields(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, repo, "A")

	followers := int64(7)
	now := time.Now()
	require.NoError(t, repo.UpdateCounts(ctx, "A", userPort.CountUpdate{FollowerCount: &followers, SyncedAt: &now}))

	a, err := repo.FindByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.FollowerCount)
	assert.Equal(t, int64(0), a.FollowingCount)
	assert.NotNil(t, a.LastCountSync)
	assert.Nil(t, a.LastCountAudit)
}

func TestAddPoints(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, repo, "A")

	require.NoError(t, repo.AddPoints(ctx, "A", 10))
	require.NoError(t, repo.AddPoints(ctx, "A", -3))

	a, err := repo.FindByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(7), a.Points)

	assert.ErrorIs(t, repo.AddPoints(ctx, "ghost", 1), user.ErrUserNotFound)
}

func TestScanAllVisitsEveryUser(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, repo, "A", "B", "C", "D", "E")

	var seen []string
	batches := 0
	err := repo.ScanAll(ctx, 2, func(users []*user.User) error {
		batches++
		for _, u := range users {
			seen = append(seen, u.ID)
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E"}, seen)
	assert.Equal(t, 3, batches)
}
