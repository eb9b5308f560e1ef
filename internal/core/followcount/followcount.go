package followcount

// Counts شمارنده‌های واقعی محاسبه‌شده از آرایه‌ها
type Counts struct {
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// AuditResult نتیجه‌ی بررسی کل کاربران
type AuditResult struct {
	Scanned int      `json:"scanned"`
	Fixed   int      `json:"fixed"`
	Errors  []string `json:"errors"`
}
