package database

import (
	"context"
	"testing"

	"unifollow/internal/core/follower"
	"unifollow/internal/core/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUpdatesBothSides(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A", "B")

	changed, err := repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)
	assert.True(t, changed)

	a, err := users.FindByID(ctx, "A")
	require.NoError(t, err)
	b, err := users.FindByID(ctx, "B")
	require.NoError(t, err)

	assert.Equal(t, user.IDSet{"B"}, a.Following)
	assert.Equal(t, int64(1), a.FollowingCount)
	assert.Equal(t, user.IDSet{"A"}, b.Followers)
	assert.Equal(t, int64(1), b.FollowerCount)

	records, err := repo.ListRecords(ctx, "A", "B")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, follower.StatusActive, records[0].Status)
	assert.Equal(t, "Alice", records[0].FollowerName)
}

func TestFollowIsIdempotent(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A", "B")

	_, err := repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)
	changed, err := repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)
	assert.False(t, changed)

	b, err := users.FindByID(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.FollowerCount)

	records, err := repo.ListRecords(ctx, "A", "B")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFollowRejectsSelfAndMissingUsers(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A")

	_, err := repo.Follow(ctx, "A", "Alice", "A")
	assert.ErrorIs(t, err, follower.ErrSelfFollow)

	_, err = repo.Follow(ctx, "A", "Alice", "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	a, err := users.FindByID(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, a.Following)
	assert.Equal(t, int64(0), a.FollowingCount)
}

func TestUnfollowNeverGoesNegative(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A", "B")

	_, err := repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)

	changed, err := repo.Unfollow(ctx, "A", "B")
	require.NoError(t, err)
	assert.True(t, changed)

	for i := 0; i < 3; i++ {
		changed, err = repo.Unfollow(ctx, "A", "B")
		require.NoError(t, err)
		assert.False(t, changed)
	}

	a, err := users.FindByID(ctx, "A")
	require.NoError(t, err)
	b, err := users.FindByID(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.FollowingCount)
	assert.Equal(t, int64(0), b.FollowerCount)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
}

func TestRefollowAppendsNewRecord(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A", "B")

	_, err := repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)
	_, err = repo.Unfollow(ctx, "A", "B")
	require.NoError(t, err)
	_, err = repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)

	a, err := users.FindByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, user.IDSet{"B"}, a.Following)

	records, err := repo.ListRecords(ctx, "A", "B")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, follower.StatusUnfollowed, records[0].Status)
	assert.NotNil(t, records[0].UnfollowedAt)
	assert.Equal(t, follower.StatusActive, records[1].Status)
}

func TestRemoveFollowerLeavesCountersForReconciler(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A", "B")

	_, err := repo.Follow(ctx, "A", "Alice", "B")
	require.NoError(t, err)

	changed, err := repo.RemoveFollower(ctx, "B", "A")
	require.NoError(t, err)
	assert.True(t, changed)

	a, err := users.FindByID(ctx, "A")
	require.NoError(t, err)
	b, err := users.FindByID(ctx, "B")
	require.NoError(t, err)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
	assert.Equal(t, int64(1), b.FollowerCount)

	followers, following, err := repo.CountActive(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(0), followers)
	assert.Equal(t, int64(0), following)
}

func TestCountActive(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepositoryDatabase(db)
	repo := NewFollowerRepositoryDatabase(db)
	ctx := context.Background()
	seedUsers(t, users, "A", "B", "C")

	for _, pair := range [][2]string{{"A", "B"}, {"C", "B"}, {"B", "A"}} {
		_, err := repo.Follow(ctx, pair[0], pair[0], pair[1])
		require.NoError(t, err)
	}

	followers, following, err := repo.CountActive(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)
	assert.Equal(t, int64(1), following)
}
