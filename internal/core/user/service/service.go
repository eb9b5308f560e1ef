package userapp

import (
	"context"
	"errors"

	userEntity "unifollow/internal/core/user"
	userPort "unifollow/internal/ports/user"

	"go.uber.org/zap"
)

// UserService سرویس پروفایل کاربران؛ احراز هویت بیرون از این سرویس انجام می‌شود
type UserService struct {
	UserRepository userPort.UserRepository
	Logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		UserRepository: repo,
		Logger:         logger,
	}
}

// CreateProfile ساخت سند کاربر با آرایه‌ها و شمارنده‌های خالی
func (s *UserService) CreateProfile(ctx context.Context, req userPort.CreateUserDTO) (*userPort.UserSummaryDTO, error) {
	// بررسی اینکه آیا کاربر با این شناسه قبلاً ثبت شده است
	if _, err := s.UserRepository.FindByID(ctx, req.ID); err == nil {
		return nil, userEntity.ErrUserExists
	} else if !errors.Is(err, userEntity.ErrUserNotFound) {
		return nil, err
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		FirstName:   req.FirstName,
		Username:    req.Username,
		Email:       req.Email,
		PhotoURL:    req.PhotoURL,
		University:  req.University,
		Department:  req.Department,
	})
	if err != nil {
		s.Logger.Error("❌ Error creating user", zap.String("userID", req.ID), zap.Error(err))
		return nil, err
	}

	s.Logger.Info("✅ User created", zap.String("userID", u.ID))
	return toSummary(u), nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*userPort.UserSummaryDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSummary(u), nil
}

func toSummary(u *userEntity.User) *userPort.UserSummaryDTO {
	return &userPort.UserSummaryDTO{
		ID:          u.ID,
		DisplayName: u.Name(),
		Username:    u.Username,
		Email:       u.Email,
		PhotoURL:    u.PhotoURL,
		University:  u.University,
		Department:  u.Department,
	}
}
