package user

import (
	"context"
	"time"

	"unifollow/internal/core/user"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی اسناد کاربران
type UserRepository interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	// FindByIDs کاربران موجود را برمی‌گرداند؛ شناسه‌های حذف‌شده نادیده گرفته می‌شوند
	FindByIDs(ctx context.Context, ids []string) ([]*user.User, error)
	UpdateCounts(ctx context.Context, id string, update CountUpdate) error
	AddPoints(ctx context.Context, id string, delta int64) error
	// ScanAll پیمایش کل جدول کاربران به صورت دسته‌ای
	ScanAll(ctx context.Context, batchSize int, fn func(users []*user.User) error) error
}

// CountUpdate فقط فیلدهای غیر nil نوشته می‌شوند
type CountUpdate struct {
	FollowerCount  *int64
	FollowingCount *int64
	SyncedAt       *time.Time
	AuditedAt      *time.Time
}

// DTOها برای UseCase
type UserSummaryDTO struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName,omitempty"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	PhotoURL     string `json:"photoURL,omitempty"`
	University   string `json:"university,omitempty"`
	Department   string `json:"department,omitempty"`
	IsFollowing  bool   `json:"isFollowing,omitempty"`
	IsFollowedBy bool   `json:"isFollowedBy,omitempty"`
}

type CreateUserDTO struct {
	ID          string `json:"id" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	FirstName   string `json:"firstName"`
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	University  string `json:"university"`
	Department  string `json:"department"`
}
