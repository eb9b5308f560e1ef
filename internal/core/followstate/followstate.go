package followstate

// Action نوع تغییری که منتشر می‌شود
type Action string

const (
	ActionFollow         Action = "follow"
	ActionUnfollow       Action = "unfollow"
	ActionRemoveFollower Action = "remove_follower"
	ActionCountVerified  Action = "count_verified"
)

// Stats آخرین شمارنده‌های شناخته‌شده‌ی یک کاربر
type Stats struct {
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// Change رویداد سراسری «یک رابطه تغییر کرد»
type Change struct {
	FollowKey     string `json:"followKey"`
	FollowerID    string `json:"followerId"`
	TargetUserID  string `json:"targetUserId"`
	IsFollowing   bool   `json:"isFollowing"`
	Action        Action `json:"action"`
	FollowerStats Stats  `json:"followerStats"`
	TargetStats   Stats  `json:"targetStats"`
}

// UserEvent رویدادی که برای یک کاربر مشخص منتشر می‌شود؛
// Stats همیشه شمارنده‌های همان کاربر است
type UserEvent struct {
	UserID        string `json:"userId"`
	CounterpartID string `json:"counterpartId,omitempty"`
	IsFollowing   bool   `json:"isFollowing"`
	Action        Action `json:"action"`
	Stats         Stats  `json:"stats"`
}

// FollowKey کلید وضعیت یک جفت (follower -> target)
func FollowKey(followerID, targetUserID string) string {
	return followerID + "->" + targetUserID
}
