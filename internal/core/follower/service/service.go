package followerapp

import (
	"context"
	"fmt"
	"time"

	"unifollow/internal/cache"
	followerEntity "unifollow/internal/core/follower"
	userEntity "unifollow/internal/core/user"
	activityPort "unifollow/internal/ports/activity"
	followerPort "unifollow/internal/ports/follower"
	mirrorPort "unifollow/internal/ports/mirror"
	notificationPort "unifollow/internal/ports/notification"
	userPort "unifollow/internal/ports/user"

	"go.uber.org/zap"
)

const (
	// NotificationTypeUserFollow نوع اعلان «دنبال‌کننده‌ی جدید»
	NotificationTypeUserFollow = "user_follow"

	followerPointsOnFollow   = 10
	targetPointsOnFollow     = 5
	followerPointsOnUnfollow = -5
	targetPointsOnUnfollow   = -3

	summaryChunkSize = 10
	defaultCacheTTL  = 5 * time.Minute
)

// Options تنظیمات اختیاری سرویس
type Options struct {
	CacheTTL time.Duration
}

// FollowerService تنها مسیر مجاز برای تغییر رابطه‌ی دنبال کردن
type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	Notifier           notificationPort.Sender
	Activities         activityPort.ActivityLogger
	Mirror             mirrorPort.FollowMirror
	Logger             *zap.Logger

	listCache *cache.TTLMap[string, []*userPort.UserSummaryDTO]
}

func NewFollowerService(
	followerRepo followerPort.FollowerRepository,
	userRepo userPort.UserRepository,
	notifier notificationPort.Sender,
	activities activityPort.ActivityLogger,
	mirror mirrorPort.FollowMirror,
	logger *zap.Logger,
	opts Options,
) *FollowerService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerService{
		FollowerRepository: followerRepo,
		UserRepository:     userRepo,
		Notifier:           notifier,
		Activities:         activities,
		Mirror:             mirror,
		Logger:             logger,
		listCache:          cache.NewTTLMap[string, []*userPort.UserSummaryDTO](opts.CacheTTL),
	}
}

// FollowUser ثبت دنبال کردن؛ اگر رابطه از قبل وجود داشته باشد بدون هیچ
// side effect موفق برمی‌گردد
func (s *FollowerService) FollowUser(ctx context.Context, followerID, followerName, targetUserID string) error {
	if followerID == targetUserID {
		s.Logger.Warn("⚠️ Cannot follow yourself", zap.String("userID", followerID))
		return followerEntity.ErrSelfFollow
	}

	changed, err := s.FollowerRepository.Follow(ctx, followerID, followerName, targetUserID)
	if err != nil {
		s.Logger.Error("❌ Error following user",
			zap.String("followerID", followerID),
			zap.String("targetUserID", targetUserID),
			zap.Error(err))
		return err
	}
	if !changed {
		s.Logger.Info("ℹ️ Already following", zap.String("followerID", followerID), zap.String("targetUserID", targetUserID))
		return nil
	}

	s.invalidate(followerID, targetUserID)
	if s.Mirror != nil {
		if err := s.Mirror.ApplyFollow(ctx, followerID, targetUserID); err != nil {
			s.Logger.Warn("⚠️ Could not update follow mirror", zap.Error(err))
		}
	}

	followerName, targetName := s.resolveNames(ctx, followerID, followerName, targetUserID)

	if s.Notifier != nil {
		err := s.Notifier.SendNotificationToUser(ctx, targetUserID, NotificationTypeUserFollow,
			"New follower",
			fmt.Sprintf("%s started following you", followerName),
			map[string]string{
				"actorId":    followerID,
				"actorName":  followerName,
				"actionType": "follow",
			})
		if err != nil {
			s.Logger.Warn("⚠️ Could not send follow notification", zap.String("targetUserID", targetUserID), zap.Error(err))
		}
	}
	if s.Activities != nil {
		if err := s.Activities.LogUserFollow(ctx, followerID, followerName, targetUserID, targetName); err != nil {
			s.Logger.Warn("⚠️ Could not log follow activity", zap.Error(err))
		}
	}
	s.addPoints(ctx, followerID, followerPointsOnFollow)
	s.addPoints(ctx, targetUserID, targetPointsOnFollow)

	s.Logger.Info("✅ User followed", zap.String("followerID", followerID), zap.String("targetUserID", targetUserID))
	return nil
}

// UnfollowUser عکس FollowUser؛ اگر رابطه‌ای نباشد بدون تغییر موفق است
func (s *FollowerService) UnfollowUser(ctx context.Context, followerID, followerName, targetUserID string) error {
	if followerID == targetUserID {
		s.Logger.Warn("⚠️ Cannot unfollow yourself", zap.String("userID", followerID))
		return followerEntity.ErrSelfFollow
	}

	changed, err := s.FollowerRepository.Unfollow(ctx, followerID, targetUserID)
	if err != nil {
		s.Logger.Error("❌ Error unfollowing user",
			zap.String("followerID", followerID),
			zap.String("targetUserID", targetUserID),
			zap.Error(err))
		return err
	}
	if !changed {
		s.Logger.Info("ℹ️ Not following", zap.String("followerID", followerID), zap.String("targetUserID", targetUserID))
		return nil
	}

	s.invalidate(followerID, targetUserID)
	if s.Mirror != nil {
		if err := s.Mirror.ApplyUnfollow(ctx, followerID, targetUserID); err != nil {
			s.Logger.Warn("⚠️ Could not update follow mirror", zap.Error(err))
		}
	}

	followerName, targetName := s.resolveNames(ctx, followerID, followerName, targetUserID)
	if s.Activities != nil {
		if err := s.Activities.LogUserUnfollow(ctx, followerID, followerName, targetUserID, targetName); err != nil {
			s.Logger.Warn("⚠️ Could not log unfollow activity", zap.Error(err))
		}
	}
	s.addPoints(ctx, followerID, followerPointsOnUnfollow)
	s.addPoints(ctx, targetUserID, targetPointsOnUnfollow)

	s.Logger.Info("✅ User unfollowed", zap.String("followerID", followerID), zap.String("targetUserID", targetUserID))
	return nil
}

// GetFollowers خلاصه‌ی کاربرانی که userID را دنبال می‌کنند، به ترتیب آرایه
func (s *FollowerService) GetFollowers(ctx context.Context, userID string, useCache bool) []*userPort.UserSummaryDTO {
	return s.list(ctx, "followers:"+userID, userID, useCache, func(u *userEntity.User) userEntity.IDSet {
		return u.Followers
	})
}

// GetFollowing خلاصه‌ی کاربرانی که userID دنبال می‌کند، به ترتیب آرایه
func (s *FollowerService) GetFollowing(ctx context.Context, userID string, useCache bool) []*userPort.UserSummaryDTO {
	return s.list(ctx, "following:"+userID, userID, useCache, func(u *userEntity.User) userEntity.IDSet {
		return u.Following
	})
}

func (s *FollowerService) list(
	ctx context.Context,
	key, userID string,
	useCache bool,
	pick func(u *userEntity.User) userEntity.IDSet,
) []*userPort.UserSummaryDTO {
	if useCache {
		if cached, ok := s.listCache.Get(key); ok {
			return cloneSummaries(cached)
		}
	}

	owner, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error loading user for list", zap.String("key", key), zap.Error(err))
		return []*userPort.UserSummaryDTO{}
	}

	ids := pick(owner)
	result := make([]*userPort.UserSummaryDTO, 0, len(ids))
	for start := 0; start < len(ids); start += summaryChunkSize {
		end := min(start+summaryChunkSize, len(ids))
		chunk := ids[start:end]

		users, err := s.UserRepository.FindByIDs(ctx, chunk)
		if err != nil {
			s.Logger.Error("❌ Error fetching user summaries", zap.String("key", key), zap.Error(err))
			return []*userPort.UserSummaryDTO{}
		}

		byID := make(map[string]*userEntity.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		// ترتیب آرایه حفظ می‌شود؛ کاربران حذف‌شده رد می‌شوند
		for _, id := range chunk {
			u, ok := byID[id]
			if !ok {
				continue
			}
			result = append(result, &userPort.UserSummaryDTO{
				ID:           u.ID,
				DisplayName:  u.Name(),
				Username:     u.Username,
				Email:        u.Email,
				PhotoURL:     u.PhotoURL,
				University:   u.University,
				Department:   u.Department,
				IsFollowing:  owner.Following.Contains(u.ID),
				IsFollowedBy: owner.Followers.Contains(u.ID),
			})
		}
	}

	s.listCache.Set(key, cloneSummaries(result))
	return result
}

// cloneSummaries کپی عمیق؛ تغییر نتیجه توسط caller نباید کش را خراب کند
func cloneSummaries(in []*userPort.UserSummaryDTO) []*userPort.UserSummaryDTO {
	out := make([]*userPort.UserSummaryDTO, len(in))
	for i, dto := range in {
		c := *dto
		out[i] = &c
	}
	return out
}

// CheckFollowStatus وضعیت رابطه فقط از روی آرایه‌های following دو کاربر
func (s *FollowerService) CheckFollowStatus(ctx context.Context, userID, targetUserID string) followerPort.FollowStatusDTO {
	me, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error checking follow status", zap.String("userID", userID), zap.Error(err))
		return followerPort.FollowStatusDTO{}
	}
	target, err := s.UserRepository.FindByID(ctx, targetUserID)
	if err != nil {
		s.Logger.Error("❌ Error checking follow status", zap.String("userID", targetUserID), zap.Error(err))
		return followerPort.FollowStatusDTO{}
	}

	isFollowing := me.Following.Contains(targetUserID)
	isFollowedBy := target.Following.Contains(userID)
	return followerPort.FollowStatusDTO{
		IsFollowing:  isFollowing,
		IsFollowedBy: isFollowedBy,
		IsMutual:     isFollowing && isFollowedBy,
	}
}

// GetUserFollowStats طول آرایه‌ها را ترجیح می‌دهد و اگر خالی باشند به شمارنده‌ها برمی‌گردد
func (s *FollowerService) GetUserFollowStats(ctx context.Context, userID string) followerPort.FollowStatsDTO {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error loading follow stats", zap.String("userID", userID), zap.Error(err))
		return followerPort.FollowStatsDTO{}
	}

	stats := followerPort.FollowStatsDTO{
		FollowerCount:     u.Followers.Len(),
		FollowingCount:    u.Following.Len(),
		MutualFollowCount: u.Followers.Intersect(u.Following),
	}
	if stats.FollowerCount == 0 {
		stats.FollowerCount = u.FollowerCount
	}
	if stats.FollowingCount == 0 {
		stats.FollowingCount = u.FollowingCount
	}
	return stats
}

// GetFollowHistory تاریخچه‌ی رکوردهای یک جفت، قدیمی‌ترین اول
func (s *FollowerService) GetFollowHistory(ctx context.Context, followerID, targetUserID string) ([]*followerPort.FollowRecordDTO, error) {
	records, err := s.FollowerRepository.ListRecords(ctx, followerID, targetUserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*followerPort.FollowRecordDTO, 0, len(records))
	for _, r := range records {
		dto := &followerPort.FollowRecordDTO{
			ID:           r.ID.String(),
			FollowerID:   r.FollowerID,
			FollowerName: r.FollowerName,
			TargetUserID: r.TargetUserID,
			Status:       string(r.Status),
			CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		}
		if r.UnfollowedAt != nil {
			at := r.UnfollowedAt.Format(time.RFC3339)
			dto.UnfollowedAt = &at
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// SyncUserFollowData کش کاربر را دور می‌ریزد، هر دو لیست را تازه می‌خواند
// و mirror را بازنویسی می‌کند
func (s *FollowerService) SyncUserFollowData(ctx context.Context, userID string) error {
	s.invalidate(userID)

	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	s.GetFollowers(ctx, userID, false)
	s.GetFollowing(ctx, userID, false)

	if s.Mirror != nil {
		if err := s.Mirror.Replace(ctx, userID, u.Followers, u.Following); err != nil {
			s.Logger.Warn("⚠️ Could not replace follow mirror", zap.String("userID", userID), zap.Error(err))
		}
	}
	return nil
}

// InvalidateUser حذف لیست‌های کش‌شده‌ی کاربران داده‌شده
func (s *FollowerService) InvalidateUser(userIDs ...string) {
	s.invalidate(userIDs...)
}

func (s *FollowerService) ClearAllCache() {
	s.listCache.Clear()
	s.Logger.Info("🧹 Follow list cache cleared")
}

func (s *FollowerService) invalidate(userIDs ...string) {
	for _, id := range userIDs {
		s.listCache.Delete("followers:" + id)
		s.listCache.Delete("following:" + id)
	}
}

func (s *FollowerService) addPoints(ctx context.Context, userID string, delta int64) {
	if err := s.UserRepository.AddPoints(ctx, userID, delta); err != nil {
		s.Logger.Warn("⚠️ Could not update points",
			zap.String("userID", userID),
			zap.Int64("delta", delta),
			zap.Error(err))
	}
}

// resolveNames نام‌های نمایشی برای اعلان و فعالیت؛ خطا فقط به fallback می‌رسد
func (s *FollowerService) resolveNames(ctx context.Context, followerID, followerName, targetUserID string) (string, string) {
	targetName := "Unknown user"
	users, err := s.UserRepository.FindByIDs(ctx, []string{followerID, targetUserID})
	if err != nil {
		s.Logger.Warn("⚠️ Could not resolve user names", zap.Error(err))
	}
	for _, u := range users {
		switch {
		case u.ID == targetUserID:
			targetName = u.Name()
		case u.ID == followerID && followerName == "":
			followerName = u.Name()
		}
	}
	if followerName == "" {
		followerName = "Unknown user"
	}
	return followerName, targetName
}
