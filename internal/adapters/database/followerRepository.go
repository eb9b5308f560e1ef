package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unifollow/internal/core/follower"
	"unifollow/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase پیاده‌سازی FollowerRepository برای دیتابیس
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

// NewFollowerRepositoryDatabase سازنده FollowerRepositoryDatabase
func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

// Follow هر دو سند را قفل می‌کند، وضعیت قبلی را دوباره بررسی می‌کند و فقط
// سمتی را که هنوز اعمال نشده تغییر می‌دهد
func (repo *FollowerRepositoryDatabase) Follow(ctx context.Context, followerID, followerName, targetUserID string) (bool, error) {
	changed := false
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, dst, err := lockPair(tx, followerID, targetUserID)
		if err != nil {
			return err
		}

		now := time.Now()
		if src.Following.Add(targetUserID) {
			src.FollowingCount++
			if err := saveFollowing(tx, src, now); err != nil {
				return err
			}
			changed = true
		}
		if dst.Followers.Add(followerID) {
			dst.FollowerCount++
			if err := saveFollowers(tx, dst, now); err != nil {
				return err
			}
			changed = true
		}
		if !changed {
			return nil
		}

		// حداکثر یک رکورد active برای هر جفت
		var active int64
		if err := activeRecords(tx, followerID, targetUserID).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return nil
		}

		return tx.Create(&follower.FollowRecord{
			ID:           uuid.Must(uuid.NewV4()),
			FollowerID:   followerID,
			FollowerName: followerName,
			TargetUserID: targetUserID,
			Status:       follower.StatusActive,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// Unfollow عکس Follow؛ شمارنده‌ها هیچ‌وقت منفی نمی‌شوند
func (repo *FollowerRepositoryDatabase) Unfollow(ctx context.Context, followerID, targetUserID string) (bool, error) {
	changed := false
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, dst, err := lockPair(tx, followerID, targetUserID)
		if err != nil {
			return err
		}

		now := time.Now()
		if src.Following.Remove(targetUserID) {
			src.FollowingCount = max(src.FollowingCount-1, 0)
			if err := saveFollowing(tx, src, now); err != nil {
				return err
			}
			changed = true
		}
		if dst.Followers.Remove(followerID) {
			dst.FollowerCount = max(dst.FollowerCount-1, 0)
			if err := saveFollowers(tx, dst, now); err != nil {
				return err
			}
			changed = true
		}

		return closeActiveRecords(tx, followerID, targetUserID, now)
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// RemoveFollower حذف یک follower از سمت کاربر دنبال‌شده؛ شمارنده‌ها بعداً
// توسط reconciler اصلاح می‌شوند
func (repo *FollowerRepositoryDatabase) RemoveFollower(ctx context.Context, userID, followerID string) (bool, error) {
	changed := false
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, dst, err := lockPair(tx, followerID, userID)
		if err != nil {
			return err
		}

		if dst.Followers.Remove(followerID) {
			if err := tx.Model(&user.User{}).Where("id = ?", dst.ID).
				Update("followers", dst.Followers).Error; err != nil {
				return err
			}
			changed = true
		}
		if src.Following.Remove(userID) {
			if err := tx.Model(&user.User{}).Where("id = ?", src.ID).
				Update("following", src.Following).Error; err != nil {
				return err
			}
			changed = true
		}

		return closeActiveRecords(tx, followerID, userID, time.Now())
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// CountActive شمارش followers و following از روی رکوردهای active
func (repo *FollowerRepositoryDatabase) CountActive(ctx context.Context, userID string) (int64, int64, error) {
	db := repo.db.WithContext(ctx)

	var followers int64
	if err := db.Model(&follower.FollowRecord{}).
		Where("target_user_id = ? AND status = ?", userID, follower.StatusActive).
		Count(&followers).Error; err != nil {
		return 0, 0, err
	}

	var following int64
	if err := db.Model(&follower.FollowRecord{}).
		Where("follower_id = ? AND status = ?", userID, follower.StatusActive).
		Count(&following).Error; err != nil {
		return 0, 0, err
	}

	return followers, following, nil
}

func (repo *FollowerRepositoryDatabase) ListRecords(ctx context.Context, followerID, targetUserID string) ([]*follower.FollowRecord, error) {
	var records []*follower.FollowRecord
	if err := repo.db.WithContext(ctx).
		Where("follower_id = ? AND target_user_id = ?", followerID, targetUserID).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// lockPair قفل هر دو سند به ترتیب ثابت شناسه تا deadlock پیش نیاید
func lockPair(tx *gorm.DB, followerID, targetUserID string) (*user.User, *user.User, error) {
	if followerID == targetUserID {
		return nil, nil, follower.ErrSelfFollow
	}

	firstID, secondID := followerID, targetUserID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := lockUser(tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := lockUser(tx, secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == followerID {
		return first, second, nil
	}
	return second, first, nil
}

func lockUser(tx *gorm.DB, id string) (*user.User, error) {
	var u user.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", user.ErrUserNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

func saveFollowing(tx *gorm.DB, u *user.User, now time.Time) error {
	return tx.Model(&user.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"following":       u.Following,
		"following_count": u.FollowingCount,
		"last_activity":   now,
	}).Error
}

func saveFollowers(tx *gorm.DB, u *user.User, now time.Time) error {
	return tx.Model(&user.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"followers":      u.Followers,
		"follower_count": u.FollowerCount,
		"last_activity":  now,
	}).Error
}

func activeRecords(tx *gorm.DB, followerID, targetUserID string) *gorm.DB {
	return tx.Model(&follower.FollowRecord{}).
		Where("follower_id = ? AND target_user_id = ? AND status = ?", followerID, targetUserID, follower.StatusActive)
}

func closeActiveRecords(tx *gorm.DB, followerID, targetUserID string, now time.Time) error {
	return activeRecords(tx, followerID, targetUserID).Updates(map[string]interface{}{
		"status":        follower.StatusUnfollowed,
		"unfollowed_at": now,
	}).Error
}
