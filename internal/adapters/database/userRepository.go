package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unifollow/internal/core/user"
	userPort "unifollow/internal/ports/user"

	"gorm.io/gorm"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u.Followers == nil {
		u.Followers = user.IDSet{}
	}
	if u.Following == nil {
		u.Following = user.IDSet{}
	}
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", user.ErrUserNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	var users []*user.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) UpdateCounts(ctx context.Context, id string, update userPort.CountUpdate) error {
	fields := map[string]interface{}{}
	if update.FollowerCount != nil {
		fields["follower_count"] = *update.FollowerCount
	}
	if update.FollowingCount != nil {
		fields["following_count"] = *update.FollowingCount
	}
	if update.SyncedAt != nil {
		fields["last_count_sync"] = *update.SyncedAt
	}
	if update.AuditedAt != nil {
		fields["last_count_audit"] = *update.AuditedAt
	}
	if len(fields) == 0 {
		return nil
	}

	return repo.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// AddPoints افزایش یا کاهش امتیاز کاربر
func (repo *UserRepositoryDatabase) AddPoints(ctx context.Context, id string, delta int64) error {
	result := repo.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"points":        gorm.Expr("points + ?", delta),
			"last_activity": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", user.ErrUserNotFound, id)
	}
	return nil
}

func (repo *UserRepositoryDatabase) ScanAll(ctx context.Context, batchSize int, fn func(users []*user.User) error) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	var batch []*user.User
	return repo.db.WithContext(ctx).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}
