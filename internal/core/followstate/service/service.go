package followstateapp

import (
	"context"
	"sync"
	"time"

	followerEntity "unifollow/internal/core/follower"
	"unifollow/internal/core/followcount"
	"unifollow/internal/core/followstate"
	"unifollow/internal/hub"
	activityPort "unifollow/internal/ports/activity"
	followerPort "unifollow/internal/ports/follower"
	mirrorPort "unifollow/internal/ports/mirror"
	userPort "unifollow/internal/ports/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultVerifyDebounce = 30 * time.Second

// FollowStore مسیر اصلی follow/unfollow
type FollowStore interface {
	FollowUser(ctx context.Context, followerID, followerName, targetUserID string) error
	UnfollowUser(ctx context.Context, followerID, followerName, targetUserID string) error
	InvalidateUser(userIDs ...string)
}

// CountSyncer بازسازی شمارنده‌های یک کاربر
type CountSyncer interface {
	SyncUserFollowCounts(ctx context.Context, userID string) (followcount.Counts, error)
}

type Options struct {
	VerifyDebounce time.Duration
	Now            func() time.Time
}

// FollowStateService هماهنگ‌کننده‌ی تغییرات رابطه، شمارنده‌ها و انتشار رویداد
// به subscriberها. یک نمونه برای کل پروسه ساخته و تزریق می‌شود
type FollowStateService struct {
	Store              FollowStore
	Counts             CountSyncer
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	Activities         activityPort.ActivityLogger
	Mirror             mirrorPort.FollowMirror
	Logger             *zap.Logger

	debounce time.Duration
	now      func() time.Time

	mu          sync.RWMutex
	followState map[string]bool
	userStats   map[string]followstate.Stats
	verifyCache map[string]time.Time

	changes *hub.Hub[struct{}, followstate.Change]
	users   *hub.Hub[string, followstate.UserEvent]
}

func NewFollowStateService(
	store FollowStore,
	counts CountSyncer,
	followerRepo followerPort.FollowerRepository,
	userRepo userPort.UserRepository,
	activities activityPort.ActivityLogger,
	mirror mirrorPort.FollowMirror,
	logger *zap.Logger,
	opts Options,
) *FollowStateService {
	if opts.VerifyDebounce <= 0 {
		opts.VerifyDebounce = defaultVerifyDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowStateService{
		Store:              store,
		Counts:             counts,
		FollowerRepository: followerRepo,
		UserRepository:     userRepo,
		Activities:         activities,
		Mirror:             mirror,
		Logger:             logger,
		debounce:           opts.VerifyDebounce,
		now:                opts.Now,
		followState:        make(map[string]bool),
		userStats:          make(map[string]followstate.Stats),
		verifyCache:        make(map[string]time.Time),
		changes:            hub.New[struct{}, followstate.Change](),
		users:              hub.New[string, followstate.UserEvent](),
	}
}

// PerformFollow دنبال کردن و انتشار وضعیت جدید
func (s *FollowStateService) PerformFollow(ctx context.Context, followerID, followerName, targetUserID string) error {
	if err := s.Store.FollowUser(ctx, followerID, followerName, targetUserID); err != nil {
		return err
	}
	s.syncAndBroadcast(ctx, followerID, targetUserID, true, followstate.ActionFollow)
	return nil
}

// PerformUnfollow آنفالو و انتشار وضعیت جدید
func (s *FollowStateService) PerformUnfollow(ctx context.Context, followerID, followerName, targetUserID string) error {
	if err := s.Store.UnfollowUser(ctx, followerID, followerName, targetUserID); err != nil {
		return err
	}
	s.syncAndBroadcast(ctx, followerID, targetUserID, false, followstate.ActionUnfollow)
	return nil
}

// PerformRemoveFollower حذف followerID از دنبال‌کنندگان currentUserID به درخواست خود او
func (s *FollowStateService) PerformRemoveFollower(ctx context.Context, currentUserID, currentUserName, followerID string) error {
	if currentUserID == followerID {
		s.Logger.Warn("⚠️ Cannot remove yourself as follower", zap.String("userID", currentUserID))
		return followerEntity.ErrSelfFollow
	}

	changed, err := s.FollowerRepository.RemoveFollower(ctx, currentUserID, followerID)
	if err != nil {
		s.Logger.Error("❌ Error removing follower",
			zap.String("userID", currentUserID),
			zap.String("followerID", followerID),
			zap.Error(err))
		return err
	}

	s.Store.InvalidateUser(currentUserID, followerID)
	if changed {
		if s.Mirror != nil {
			if err := s.Mirror.ApplyUnfollow(ctx, followerID, currentUserID); err != nil {
				s.Logger.Warn("⚠️ Could not update follow mirror", zap.Error(err))
			}
		}
		if s.Activities != nil {
			removedName := "Unknown user"
			if u, err := s.UserRepository.FindByID(ctx, followerID); err == nil {
				removedName = u.Name()
			}
			if err := s.Activities.LogFollowerRemoval(ctx, currentUserID, currentUserName, followerID, removedName); err != nil {
				s.Logger.Warn("⚠️ Could not log follower removal", zap.Error(err))
			}
		}
	}

	s.syncAndBroadcast(ctx, followerID, currentUserID, false, followstate.ActionRemoveFollower)
	s.Logger.Info("✅ Follower removed", zap.String("userID", currentUserID), zap.String("followerID", followerID))
	return nil
}

// syncAndBroadcast شمارنده‌های هر دو طرف را هم‌زمان بازسازی می‌کند و یک رویداد
// سراسری و یک رویداد برای هر طرف منتشر می‌کند. خطای reconciler فقط لاگ می‌شود
func (s *FollowStateService) syncAndBroadcast(ctx context.Context, followerID, targetUserID string, isFollowing bool, action followstate.Action) {
	var followerCounts, targetCounts followcount.Counts
	var followerOK, targetOK bool

	// هر طرف مستقل است؛ خطای یکی نباید sync دیگری را لغو کند
	var g errgroup.Group
	g.Go(func() error {
		c, err := s.Counts.SyncUserFollowCounts(ctx, followerID)
		if err != nil {
			s.Logger.Warn("⚠️ Count sync after follow change failed", zap.String("userID", followerID), zap.Error(err))
			return err
		}
		followerCounts, followerOK = c, true
		return nil
	})
	g.Go(func() error {
		c, err := s.Counts.SyncUserFollowCounts(ctx, targetUserID)
		if err != nil {
			s.Logger.Warn("⚠️ Count sync after follow change failed", zap.String("userID", targetUserID), zap.Error(err))
			return err
		}
		targetCounts, targetOK = c, true
		return nil
	})
	_ = g.Wait()

	key := followstate.FollowKey(followerID, targetUserID)
	s.mu.Lock()
	s.followState[key] = isFollowing
	if followerOK {
		s.userStats[followerID] = toStats(followerCounts)
	}
	if targetOK {
		s.userStats[targetUserID] = toStats(targetCounts)
	}
	followerStats := s.userStats[followerID]
	targetStats := s.userStats[targetUserID]
	s.mu.Unlock()

	s.changes.Publish(struct{}{}, followstate.Change{
		FollowKey:     key,
		FollowerID:    followerID,
		TargetUserID:  targetUserID,
		IsFollowing:   isFollowing,
		Action:        action,
		FollowerStats: followerStats,
		TargetStats:   targetStats,
	})
	s.users.Publish(targetUserID, followstate.UserEvent{
		UserID:        targetUserID,
		CounterpartID: followerID,
		IsFollowing:   isFollowing,
		Action:        action,
		Stats:         targetStats,
	})
	s.users.Publish(followerID, followstate.UserEvent{
		UserID:        followerID,
		CounterpartID: targetUserID,
		IsFollowing:   isFollowing,
		Action:        action,
		Stats:         followerStats,
	})
}

// VerifyAndFixFollowerCounts شمارش مستقل از روی رکوردهای active تاریخچه؛
// فقط شمارنده‌های نادرست بازنویسی می‌شوند. در پنجره‌ی debounce آمار کش‌شده برمی‌گردد
func (s *FollowStateService) VerifyAndFixFollowerCounts(ctx context.Context, userID string) (followstate.Stats, error) {
	now := s.now()

	s.mu.RLock()
	last, verified := s.verifyCache[userID]
	cached, hasStats := s.userStats[userID]
	s.mu.RUnlock()
	if verified && hasStats && now.Sub(last) < s.debounce {
		return cached, nil
	}

	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error loading user for verification", zap.String("userID", userID), zap.Error(err))
		return followstate.Stats{}, err
	}
	followers, following, err := s.FollowerRepository.CountActive(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error counting active follow records", zap.String("userID", userID), zap.Error(err))
		return followstate.Stats{}, err
	}

	actual := followstate.Stats{FollowerCount: followers, FollowingCount: following}
	update := userPort.CountUpdate{}
	if u.FollowerCount != followers {
		update.FollowerCount = &followers
	}
	if u.FollowingCount != following {
		update.FollowingCount = &following
	}
	changed := update.FollowerCount != nil || update.FollowingCount != nil
	if changed {
		update.SyncedAt = &now
		if err := s.UserRepository.UpdateCounts(ctx, userID, update); err != nil {
			s.Logger.Error("❌ Error fixing follower counts", zap.String("userID", userID), zap.Error(err))
			return followstate.Stats{}, err
		}
		s.Logger.Info("🔧 Follower counts fixed",
			zap.String("userID", userID),
			zap.Int64("followers", followers),
			zap.Int64("following", following))
	}

	s.mu.Lock()
	s.verifyCache[userID] = now
	s.userStats[userID] = actual
	s.mu.Unlock()

	if changed {
		s.users.Publish(userID, followstate.UserEvent{
			UserID: userID,
			Action: followstate.ActionCountVerified,
			Stats:  actual,
		})
	}
	return actual, nil
}

// LoadUserFollowStates پر کردن کش وضعیت و آمار از روی سند کاربر
func (s *FollowStateService) LoadUserFollowStates(ctx context.Context, userID string) error {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error loading follow states", zap.String("userID", userID), zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range u.Following {
		s.followState[followstate.FollowKey(userID, id)] = true
	}
	for _, id := range u.Followers {
		s.followState[followstate.FollowKey(id, userID)] = true
	}
	s.userStats[userID] = followstate.Stats{
		FollowerCount:  u.Followers.Len(),
		FollowingCount: u.Following.Len(),
	}
	return nil
}

// GetFollowState آخرین وضعیت شناخته‌شده‌ی یک جفت؛ known=false یعنی هنوز دیده نشده
func (s *FollowStateService) GetFollowState(followerID, targetUserID string) (isFollowing, known bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	isFollowing, known = s.followState[followstate.FollowKey(followerID, targetUserID)]
	return isFollowing, known
}

func (s *FollowStateService) GetUserStats(userID string) (followstate.Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.userStats[userID]
	return stats, ok
}

// SubscribeToUser رویدادهای مربوط به یک کاربر
func (s *FollowStateService) SubscribeToUser(userID string, fn func(followstate.UserEvent)) func() {
	return s.users.Subscribe(userID, fn)
}

// SubscribeToFollowChanges همه‌ی تغییرات رابطه‌ها
func (s *FollowStateService) SubscribeToFollowChanges(fn func(followstate.Change)) func() {
	return s.changes.Subscribe(struct{}{}, fn)
}

func toStats(c followcount.Counts) followstate.Stats {
	return followstate.Stats{FollowerCount: c.FollowerCount, FollowingCount: c.FollowingCount}
}
