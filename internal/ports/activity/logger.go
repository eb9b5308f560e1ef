package activity

import "context"

// ActivityLogger ثبت فعالیت‌های دنبال کردن در فید فعالیت
type ActivityLogger interface {
	LogUserFollow(ctx context.Context, userID, userName, targetID, targetName string) error
	LogUserUnfollow(ctx context.Context, userID, userName, targetID, targetName string) error
	LogFollowerRemoval(ctx context.Context, userID, userName, removedID, removedName string) error
}
