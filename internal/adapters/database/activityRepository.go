package database

import (
	"context"
	"fmt"

	"unifollow/internal/core/activity"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// ActivityRepositoryDatabase ثبت فعالیت‌ها در جدول user_activities
type ActivityRepositoryDatabase struct {
	db *gorm.DB
}

func NewActivityRepositoryDatabase(db *gorm.DB) *ActivityRepositoryDatabase {
	return &ActivityRepositoryDatabase{db: db}
}

func (repo *ActivityRepositoryDatabase) LogUserFollow(ctx context.Context, userID, userName, targetID, targetName string) error {
	return repo.create(ctx, &activity.Activity{
		Type:        activity.TypeUserFollow,
		Title:       "User follow",
		Description: fmt.Sprintf("started following %s", targetName),
		UserID:      userID,
		UserName:    userName,
		TargetID:    targetID,
		TargetName:  targetName,
		Visibility:  activity.VisibilityPublic,
		Priority:    "medium",
	})
}

func (repo *ActivityRepositoryDatabase) LogUserUnfollow(ctx context.Context, userID, userName, targetID, targetName string) error {
	return repo.create(ctx, &activity.Activity{
		Type:        activity.TypeUserUnfollow,
		Title:       "Unfollowed",
		Description: fmt.Sprintf("stopped following %s", targetName),
		UserID:      userID,
		UserName:    userName,
		TargetID:    targetID,
		TargetName:  targetName,
		Visibility:  activity.VisibilityPublic,
		Priority:    "low",
	})
}

// LogFollowerRemoval حذف follower فعالیتی خصوصی است
func (repo *ActivityRepositoryDatabase) LogFollowerRemoval(ctx context.Context, userID, userName, removedID, removedName string) error {
	return repo.create(ctx, &activity.Activity{
		Type:        activity.TypeFollowerRemoval,
		Title:       "Follower removed",
		Description: fmt.Sprintf("%s was removed from followers", removedName),
		UserID:      userID,
		UserName:    userName,
		TargetID:    removedID,
		TargetName:  removedName,
		Visibility:  activity.VisibilityPrivate,
		Priority:    "low",
	})
}

// ListByUser فعالیت‌های یک کاربر، جدیدترین اول
func (repo *ActivityRepositoryDatabase) ListByUser(ctx context.Context, userID string, includePrivate bool) ([]*activity.Activity, error) {
	q := repo.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includePrivate {
		q = q.Where("visibility = ?", activity.VisibilityPublic)
	}
	var activities []*activity.Activity
	if err := q.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (repo *ActivityRepositoryDatabase) create(ctx context.Context, a *activity.Activity) error {
	a.ID = uuid.Must(uuid.NewV4())
	a.Category = "social"
	if err := repo.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("error logging activity: %w", err)
	}
	return nil
}
