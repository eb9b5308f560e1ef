package activity

import (
	"time"

	"github.com/gofrs/uuid"
)

type Type string

const (
	TypeUserFollow      Type = "user_follow"
	TypeUserUnfollow    Type = "user_unfollow"
	TypeFollowerRemoval Type = "follower_removal"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Activity رکورد فعالیت کاربر که در فید فعالیت‌ها نمایش داده می‌شود
type Activity struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:char(36)" json:"id"`
	Type        Type       `gorm:"type:varchar(40);not null" json:"type"`
	Title       string     `gorm:"type:varchar(160)" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	UserID      string     `gorm:"type:varchar(64);not null;index" json:"userId"`
	UserName    string     `gorm:"type:varchar(120)" json:"userName"`
	TargetID    string     `gorm:"type:varchar(64);index" json:"targetId"`
	TargetName  string     `gorm:"type:varchar(120)" json:"targetName"`
	Category    string     `gorm:"type:varchar(40)" json:"category"`
	Visibility  Visibility `gorm:"type:varchar(20);not null" json:"visibility"`
	Priority    string     `gorm:"type:varchar(20)" json:"priority"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Activity) TableName() string { return "user_activities" }
