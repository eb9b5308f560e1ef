package mirror

import "context"

// FollowMirror کپی best-effort لیست شناسه‌ها برای نمایش آفلاین؛ هرگز منبع اصلی نیست
type FollowMirror interface {
	ApplyFollow(ctx context.Context, followerID, targetUserID string) error
	ApplyUnfollow(ctx context.Context, followerID, targetUserID string) error
	Replace(ctx context.Context, userID string, followers, following []string) error
}
