package database

import (
	"unifollow/internal/core/activity"
	"unifollow/internal/core/follower"
	"unifollow/internal/core/user"

	"gorm.io/gorm"
)

// AutoMigrate اعمال مایگریشن برای مدل‌ها
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&follower.FollowRecord{},
		&activity.Activity{},
	)
}
