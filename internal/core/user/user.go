package user

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound سند کاربر وجود ندارد
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// User سند کاربر؛ آرایه‌های followers/following منبع اصلی رابطه‌ها هستند
// و شمارنده‌ها فقط کش آن‌ها هستند
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(64)"`
	DisplayName string `gorm:"type:varchar(120)"`
	FirstName   string `gorm:"type:varchar(80)"`
	Username    string `gorm:"type:varchar(80);index"`
	Email       string `gorm:"type:varchar(160)"`
	PhotoURL    string `gorm:"type:varchar(512)"`
	University  string `gorm:"type:varchar(160)"`
	Department  string `gorm:"type:varchar(160)"`

	Followers      IDSet `gorm:"type:text"`
	Following      IDSet `gorm:"type:text"`
	FollowerCount  int64 `gorm:"not null;default:0"`
	FollowingCount int64 `gorm:"not null;default:0"`
	Points         int64 `gorm:"not null;default:0"`

	LastActivity   *time.Time
	LastCountSync  *time.Time
	LastCountAudit *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Name نام نمایشی کاربر با fallback
func (u *User) Name() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.FirstName != "":
		return u.FirstName
	default:
		return "Unknown user"
	}
}
