package followcountapp

import (
	"context"
	"fmt"
	"time"

	"unifollow/internal/core/followcount"
	userEntity "unifollow/internal/core/user"
	userPort "unifollow/internal/ports/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 100

// FollowCountService بازسازی شمارنده‌ها از روی آرایه‌های followers/following
type FollowCountService struct {
	UserRepository userPort.UserRepository
	BatchSize      int
	Logger         *zap.Logger

	now func() time.Time
}

func NewFollowCountService(userRepo userPort.UserRepository, batchSize int, logger *zap.Logger) *FollowCountService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowCountService{
		UserRepository: userRepo,
		BatchSize:      batchSize,
		Logger:         logger,
		now:            time.Now,
	}
}

// SyncUserFollowCounts طول واقعی آرایه‌ها را بدون شرط روی شمارنده‌ها می‌نویسد
func (s *FollowCountService) SyncUserFollowCounts(ctx context.Context, userID string) (followcount.Counts, error) {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		s.Logger.Error("❌ Error loading user for count sync", zap.String("userID", userID), zap.Error(err))
		return followcount.Counts{}, err
	}

	counts := followcount.Counts{
		FollowerCount:  u.Followers.Len(),
		FollowingCount: u.Following.Len(),
	}
	now := s.now()
	if err := s.UserRepository.UpdateCounts(ctx, userID, userPort.CountUpdate{
		FollowerCount:  &counts.FollowerCount,
		FollowingCount: &counts.FollowingCount,
		SyncedAt:       &now,
	}); err != nil {
		s.Logger.Error("❌ Error writing synced counts", zap.String("userID", userID), zap.Error(err))
		return followcount.Counts{}, fmt.Errorf("sync counts for %s: %w", userID, err)
	}

	s.Logger.Debug("🔄 Follow counts synced",
		zap.String("userID", userID),
		zap.Int64("followers", counts.FollowerCount),
		zap.Int64("following", counts.FollowingCount))
	return counts, nil
}

// SyncMultipleUserCounts همگام‌سازی هم‌زمان؛ اولین خطا برگردانده می‌شود
func (s *FollowCountService) SyncMultipleUserCounts(ctx context.Context, userIDs []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range userIDs {
		id := id
		g.Go(func() error {
			_, err := s.SyncUserFollowCounts(gctx, id)
			return err
		})
	}
	return g.Wait()
}

// SyncFollowRelationship هر دو طرف یک رابطه
func (s *FollowCountService) SyncFollowRelationship(ctx context.Context, followerID, targetUserID string) error {
	return s.SyncMultipleUserCounts(ctx, []string{followerID, targetUserID})
}

// AuditAndFixAllUserCounts کل جدول کاربران را دسته‌ای پیمایش می‌کند و فقط
// شمارنده‌های نادرست را بازنویسی می‌کند. خطای یک کاربر پیمایش را متوقف نمی‌کند
func (s *FollowCountService) AuditAndFixAllUserCounts(ctx context.Context) (*followcount.AuditResult, error) {
	result := &followcount.AuditResult{Errors: []string{}}
	s.Logger.Info("🔍 Starting follow count audit", zap.Int("batchSize", s.BatchSize))

	err := s.UserRepository.ScanAll(ctx, s.BatchSize, func(users []*userEntity.User) error {
		for _, u := range users {
			result.Scanned++
			fixed, err := s.auditUser(ctx, u)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", u.ID, err))
				continue
			}
			if fixed {
				result.Fixed++
			}
		}
		return ctx.Err()
	})
	if err != nil {
		s.Logger.Error("❌ Follow count audit failed", zap.Int("scanned", result.Scanned), zap.Error(err))
		return result, err
	}

	s.Logger.Info("✅ Follow count audit completed",
		zap.Int("scanned", result.Scanned),
		zap.Int("fixed", result.Fixed),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *FollowCountService) auditUser(ctx context.Context, u *userEntity.User) (bool, error) {
	followers, following := u.Followers.Len(), u.Following.Len()
	if u.FollowerCount == followers && u.FollowingCount == following {
		return false, nil
	}

	s.Logger.Warn("⚠️ Count mismatch",
		zap.String("userID", u.ID),
		zap.Int64("storedFollowers", u.FollowerCount),
		zap.Int64("actualFollowers", followers),
		zap.Int64("storedFollowing", u.FollowingCount),
		zap.Int64("actualFollowing", following))

	now := s.now()
	if err := s.UserRepository.UpdateCounts(ctx, u.ID, userPort.CountUpdate{
		FollowerCount:  &followers,
		FollowingCount: &following,
		AuditedAt:      &now,
	}); err != nil {
		return false, err
	}
	return true, nil
}
