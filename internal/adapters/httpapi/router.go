package httpapi

import (
	"context"
	"net/http"

	"unifollow/internal/adapters/httpapi/middleware"
	"unifollow/internal/core/activity"
	"unifollow/internal/core/followcount"
	"unifollow/internal/core/followstate"
	followerPort "unifollow/internal/ports/follower"
	notificationPort "unifollow/internal/ports/notification"
	userPort "unifollow/internal/ports/user"

	"github.com/gin-gonic/gin"
)

// UserUseCase: اینترفیسِ لازم برای کنترلر/روتر (Inbound Port)
type UserUseCase interface {
	CreateProfile(ctx context.Context, req userPort.CreateUserDTO) (*userPort.UserSummaryDTO, error)
	GetProfile(ctx context.Context, userID string) (*userPort.UserSummaryDTO, error)
}

type FollowerUseCase interface {
	GetFollowers(ctx context.Context, userID string, useCache bool) []*userPort.UserSummaryDTO
	GetFollowing(ctx context.Context, userID string, useCache bool) []*userPort.UserSummaryDTO
	CheckFollowStatus(ctx context.Context, userID, targetUserID string) followerPort.FollowStatusDTO
	GetUserFollowStats(ctx context.Context, userID string) followerPort.FollowStatsDTO
	GetFollowHistory(ctx context.Context, followerID, targetUserID string) ([]*followerPort.FollowRecordDTO, error)
}

type FollowStateUseCase interface {
	PerformFollow(ctx context.Context, followerID, followerName, targetUserID string) error
	PerformUnfollow(ctx context.Context, followerID, followerName, targetUserID string) error
	PerformRemoveFollower(ctx context.Context, currentUserID, currentUserName, followerID string) error
	VerifyAndFixFollowerCounts(ctx context.Context, userID string) (followstate.Stats, error)
	SubscribeToUser(userID string, fn func(followstate.UserEvent)) func()
}

type FollowCountUseCase interface {
	SyncUserFollowCounts(ctx context.Context, userID string) (followcount.Counts, error)
	AuditAndFixAllUserCounts(ctx context.Context) (*followcount.AuditResult, error)
}

type NotificationUseCase interface {
	ListNotifications(ctx context.Context, userID string, start, limit int64) ([]*notificationPort.NotificationDTO, error)
}

type ActivityUseCase interface {
	ListByUser(ctx context.Context, userID string, includePrivate bool) ([]*activity.Activity, error)
}

// UseCases همه‌ی پورت‌های ورودی که روتر به آن‌ها نیاز دارد
type UseCases struct {
	User         UserUseCase
	Follower     FollowerUseCase
	FollowState  FollowStateUseCase
	FollowCount  FollowCountUseCase
	Notification NotificationUseCase
	Activity     ActivityUseCase
}

// فقط روتینگ: UseCase از بیرون تزریق می‌شود
func SetupRoutes(jwtSecret []byte, uc UseCases) *gin.Engine {
	r := gin.Default()
	uctl := NewUserController(uc.User)
	fc := NewFollowerController(uc.Follower, uc.FollowState)
	cc := NewCountController(uc.FollowCount, uc.FollowState)
	feed := NewFeedController(uc.Notification, uc.Activity)
	ec := NewEventsController(uc.FollowState)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/", middleware.JWTAuthMiddleware(jwtSecret))

	// تغییر رابطه‌ها
	auth.POST("/follow", fc.Follow)
	auth.POST("/unfollow", fc.Unfollow)
	auth.POST("/followers/remove", fc.RemoveFollower)

	// پروفایل و لیست‌ها
	auth.POST("/users", uctl.CreateUser)
	auth.GET("/users/:id", uctl.GetUser)
	auth.GET("/users/:id/followers", fc.GetFollowers)
	auth.GET("/users/:id/following", fc.GetFollowing)
	auth.GET("/users/:id/follow-status", fc.CheckFollowStatus)
	auth.GET("/users/:id/stats", fc.GetStats)
	auth.GET("/users/:id/history/:targetId", fc.GetHistory)

	// شمارنده‌ها
	auth.POST("/users/:id/counts/verify", cc.Verify)
	auth.POST("/users/:id/counts/sync", cc.Sync)
	auth.POST("/admin/counts/audit", middleware.AdminMiddleware(), cc.Audit)

	// اعلان‌ها، فعالیت‌ها و رویدادهای زنده
	auth.GET("/notifications", feed.ListNotifications)
	auth.GET("/users/:id/activities", feed.ListActivities)
	auth.GET("/users/:id/follow-events", ec.StreamUserEvents)

	return r
}
