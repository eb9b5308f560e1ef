package follower

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

// ErrSelfFollow کاربر نمی‌تواند خودش را دنبال کند
var ErrSelfFollow = errors.New("cannot follow yourself")

// Status وضعیت یک رکورد تاریخچه‌ی دنبال کردن
type Status string

const (
	StatusActive     Status = "active"
	StatusUnfollowed Status = "unfollowed"
)

// FollowRecord رکورد append-only تاریخچه؛ دنبال کردن دوباره بعد از آنفالو
// یک رکورد جدید می‌سازد و در هر لحظه حداکثر یک رکورد active برای هر جفت وجود دارد
type FollowRecord struct {
	ID           uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	FollowerID   string     `gorm:"type:varchar(64);not null;index:idx_follow_pair,priority:1"`
	FollowerName string     `gorm:"type:varchar(120)"`
	TargetUserID string     `gorm:"type:varchar(64);not null;index:idx_follow_pair,priority:2;index:idx_follow_target"`
	Status       Status     `gorm:"type:varchar(20);not null;index:idx_follow_pair,priority:3"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
	UnfollowedAt *time.Time
}

func (FollowRecord) TableName() string { return "user_followings" }
