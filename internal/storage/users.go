package storage

import (
	"context"
	"errors"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"
	"strings"

	"gorm.io/gorm"
)

// CreateUser inserts a new account. A taken email or username yields ErrDuplicateUser.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	db := s.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ? OR username = ?", strings.ToLower(strings.TrimSpace(user.Email)), strings.TrimSpace(user.Username)).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateUser
	}

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		logger.Get().Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return err
	}
	return nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail looks the email up case-insensitively.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
