package follower

import (
	"context"

	"unifollow/internal/core/follower"
)

// FollowerRepository پورت تغییر رابطه‌ها؛ هر متد در یک تراکنش روی هر دو سند
// کاربر اجرا می‌شود. مقدار bool برگشتی نشان می‌دهد آیا چیزی واقعاً تغییر کرد
type FollowerRepository interface {
	Follow(ctx context.Context, followerID, followerName, targetUserID string) (bool, error)
	Unfollow(ctx context.Context, followerID, targetUserID string) (bool, error)
	// RemoveFollower از سمت target: فقط آرایه‌ها و رکوردهای active، بدون شمارنده‌ها
	RemoveFollower(ctx context.Context, userID, followerID string) (bool, error)
	// CountActive شمارش مستقل از روی رکوردهای active تاریخچه
	CountActive(ctx context.Context, userID string) (followers, following int64, err error)
	ListRecords(ctx context.Context, followerID, targetUserID string) ([]*follower.FollowRecord, error)
}

// DTOها برای UseCase
type FollowStatusDTO struct {
	IsFollowing  bool `json:"isFollowing"`
	IsFollowedBy bool `json:"isFollowedBy"`
	IsMutual     bool `json:"isMutual"`
}

type FollowStatsDTO struct {
	FollowingCount    int64 `json:"followingCount"`
	FollowerCount     int64 `json:"followerCount"`
	MutualFollowCount int64 `json:"mutualFollowCount"`
}

type FollowRecordDTO struct {
	ID           string  `json:"id"`
	FollowerID   string  `json:"followerId"`
	FollowerName string  `json:"followerName"`
	TargetUserID string  `json:"targetUserId"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	UnfollowedAt *string `json:"unfollowedAt,omitempty"`
}
