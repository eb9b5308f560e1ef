package followstateapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"unifollow/internal/adapters/database"
	followerEntity "unifollow/internal/core/follower"
	followerapp "unifollow/internal/core/follower/service"
	"unifollow/internal/core/followcount"
	followcountapp "unifollow/internal/core/followcount/service"
	"unifollow/internal/core/followstate"
	userEntity "unifollow/internal/core/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db    *gorm.DB
	users *database.UserRepositoryDatabase
	clock *time.Time
	svc   *FollowStateService
}

func setupTest(t *testing.T, ids ...string) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	users := database.NewUserRepositoryDatabase(db)
	for _, id := range ids {
		_, err := users.Create(context.Background(), &userEntity.User{ID: id, DisplayName: "User " + id})
		require.NoError(t, err)
	}

	followers := database.NewFollowerRepositoryDatabase(db)
	activities := database.NewActivityRepositoryDatabase(db)
	store := followerapp.NewFollowerService(followers, users, nil, activities, nil, nil, followerapp.Options{})
	counts := followcountapp.NewFollowCountService(users, 0, nil)

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	env := &testEnv{db: db, users: users, clock: &clock}
	env.svc = NewFollowStateService(store, counts, followers, users, activities, nil, nil, Options{
		Now: func() time.Time { return *env.clock },
	})
	return env
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func (e *testEnv) user(t *testing.T, id string) *userEntity.User {
	t.Helper()
	u, err := e.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestPerformFollowFansOutToEverySubscriber(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a", "b")

	var received [3][]followstate.Change
	for i := range received {
		i := i
		env.svc.SubscribeToFollowChanges(func(c followstate.Change) {
			received[i] = append(received[i], c)
		})
	}
	var targetEvents [3][]followstate.UserEvent
	for i := range targetEvents {
		i := i
		env.svc.SubscribeToUser("b", func(e followstate.UserEvent) {
			targetEvents[i] = append(targetEvents[i], e)
		})
	}
	var followerEvents []followstate.UserEvent
	env.svc.SubscribeToUser("a", func(e followstate.UserEvent) { followerEvents = append(followerEvents, e) })

	require.NoError(t, env.svc.PerformFollow(ctx, "a", "Alice", "b"))

	for i := range received {
		require.Len(t, received[i], 1)
		c := received[i][0]
		assert.Equal(t, "a->b", c.FollowKey)
		assert.True(t, c.IsFollowing)
		assert.Equal(t, followstate.ActionFollow, c.Action)
		assert.Equal(t, int64(1), c.FollowerStats.FollowingCount)
		assert.Equal(t, int64(1), c.TargetStats.FollowerCount)
	}

	for i := range targetEvents {
		require.Len(t, targetEvents[i], 1)
		assert.Equal(t, "a", targetEvents[i][0].CounterpartID)
		assert.Equal(t, int64(1), targetEvents[i][0].Stats.FollowerCount)
	}
	require.Len(t, followerEvents, 1)
	assert.Equal(t, "b", followerEvents[0].CounterpartID)
	assert.Equal(t, int64(1), followerEvents[0].Stats.FollowingCount)

	isFollowing, known := env.svc.GetFollowState("a", "b")
	assert.True(t, known)
	assert.True(t, isFollowing)
}

// halfBrokenSyncer برای failID خطا می‌دهد و sync بقیه را کمی دیرتر انجام می‌دهد
type halfBrokenSyncer struct {
	next   CountSyncer
	failID string
}

func (h *halfBrokenSyncer) SyncUserFollowCounts(ctx context.Context, userID string) (followcount.Counts, error) {
	if userID == h.failID {
		return followcount.Counts{}, errors.New("counter store unavailable")
	}
	time.Sleep(20 * time.Millisecond)
	if err := ctx.Err(); err != nil {
		return followcount.Counts{}, err
	}
	return h.next.SyncUserFollowCounts(ctx, userID)
}

func TestCountSyncFailureOnOneSideKeepsTheOther(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a", "b")
	env.svc.Counts = &halfBrokenSyncer{next: env.svc.Counts, failID: "a"}

	var targetEvents []followstate.UserEvent
	env.svc.SubscribeToUser("b", func(e followstate.UserEvent) { targetEvents = append(targetEvents, e) })

	require.NoError(t, env.svc.PerformFollow(ctx, "a", "Alice", "b"))

	require.Len(t, targetEvents, 1)
	assert.Equal(t, int64(1), targetEvents[0].Stats.FollowerCount)

	stats, ok := env.svc.GetUserStats("b")
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.FollowerCount)

	_, ok = env.svc.GetUserStats("a")
	assert.False(t, ok)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a", "b")

	calls := 0
	unsubscribe := env.svc.SubscribeToUser("b", func(followstate.UserEvent) { calls++ })
	require.NoError(t, env.svc.PerformFollow(ctx, "a", "Alice", "b"))
	unsubscribe()
	unsubscribe()
	require.NoError(t, env.svc.PerformUnfollow(ctx, "a", "Alice", "b"))

	assert.Equal(t, 1, calls)
}

func TestFollowThenRemoveFollower(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a", "b")

	var changes []followstate.Change
	env.svc.SubscribeToFollowChanges(func(c followstate.Change) { changes = append(changes, c) })

	require.NoError(t, env.svc.PerformFollow(ctx, "a", "Alice", "b"))
	require.NoError(t, env.svc.PerformRemoveFollower(ctx, "b", "Bob", "a"))

	a, b := env.user(t, "a"), env.user(t, "b")
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
	assert.Equal(t, int64(0), a.FollowingCount)
	assert.Equal(t, int64(0), b.FollowerCount)

	require.Len(t, changes, 2)
	assert.Equal(t, followstate.ActionRemoveFollower, changes[1].Action)
	assert.False(t, changes[1].IsFollowing)
	assert.Equal(t, "a->b", changes[1].FollowKey)

	stats, err := env.svc.VerifyAndFixFollowerCounts(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, followstate.Stats{}, stats)

	activities, err := database.NewActivityRepositoryDatabase(env.db).ListByUser(ctx, "b", false)
	require.NoError(t, err)
	assert.Empty(t, activities)
	activities, err = database.NewActivityRepositoryDatabase(env.db).ListByUser(ctx, "b", true)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "User a", activities[0].TargetName)
}

func TestSelfFollowIsRejectedWithoutEvents(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a")

	calls := 0
	env.svc.SubscribeToFollowChanges(func(followstate.Change) { calls++ })

	assert.ErrorIs(t, env.svc.PerformFollow(ctx, "a", "Alice", "a"), followerEntity.ErrSelfFollow)
	assert.ErrorIs(t, env.svc.PerformRemoveFollower(ctx, "a", "Alice", "a"), followerEntity.ErrSelfFollow)
	assert.Equal(t, 0, calls)

	_, known := env.svc.GetFollowState("a", "a")
	assert.False(t, known)
}

func TestVerifyAndFixFollowerCounts(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a", "b")
	require.NoError(t, env.svc.PerformFollow(ctx, "a", "Alice", "b"))

	var events []followstate.UserEvent
	env.svc.SubscribeToUser("b", func(e followstate.UserEvent) { events = append(events, e) })

	drift := func(t *testing.T, n int) {
		t.Helper()
		require.NoError(t, env.db.Model(&userEntity.User{}).Where("id = ?", "b").
			Update("follower_count", n).Error)
	}

	t.Run("fixes mismatch and publishes", func(t *testing.T) {
		drift(t, 9)

		stats, err := env.svc.VerifyAndFixFollowerCounts(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.FollowerCount)
		assert.Equal(t, int64(1), env.user(t, "b").FollowerCount)

		require.Len(t, events, 1)
		assert.Equal(t, followstate.ActionCountVerified, events[0].Action)
	})

	t.Run("debounced within the window", func(t *testing.T) {
		drift(t, 4)
		env.advance(10 * time.Second)

		stats, err := env.svc.VerifyAndFixFollowerCounts(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.FollowerCount)
		assert.Equal(t, int64(4), env.user(t, "b").FollowerCount)
		assert.Len(t, events, 1)
	})

	t.Run("runs again after the window", func(t *testing.T) {
		env.advance(30 * time.Second)

		_, err := env.svc.VerifyAndFixFollowerCounts(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, int64(1), env.user(t, "b").FollowerCount)
		assert.Len(t, events, 2)
	})

	t.Run("no event when counts already match", func(t *testing.T) {
		env.advance(time.Minute)

		_, err := env.svc.VerifyAndFixFollowerCounts(ctx, "b")
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.svc.VerifyAndFixFollowerCounts(ctx, "ghost")
		assert.ErrorIs(t, err, userEntity.ErrUserNotFound)
	})
}

func TestLoadUserFollowStates(t *testing.T) {
	ctx := context.Background()
	env := setupTest(t, "a", "b", "c")

	store := env.svc.Store
	require.NoError(t, store.FollowUser(ctx, "a", "", "b"))
	require.NoError(t, store.FollowUser(ctx, "c", "", "a"))

	_, ok := env.svc.GetUserStats("a")
	assert.False(t, ok)

	require.NoError(t, env.svc.LoadUserFollowStates(ctx, "a"))

	stats, ok := env.svc.GetUserStats("a")
	require.True(t, ok)
	assert.Equal(t, followstate.Stats{FollowerCount: 1, FollowingCount: 1}, stats)

	isFollowing, known := env.svc.GetFollowState("c", "a")
	assert.True(t, known)
	assert.True(t, isFollowing)
}
