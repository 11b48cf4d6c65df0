package storage

import (
	"context"
	"errors"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"

	"gorm.io/gorm"
)

// SaveEmotion appends to the emotion log and fills rec.ID.
func (s *Service) SaveEmotion(ctx context.Context, rec *models.EmotionRecord) error {
	if rec.Source == "" {
		rec.Source = models.SourceManual
	}
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		logger.Get().Error().Err(err).Uint("user_id", rec.UserID).Msg("failed to save emotion record")
		return err
	}
	return nil
}

// GetLatestEmotion returns the user's current emotion: the record with the
// highest id. nil, nil when the user has none.
func (s *Service) GetLatestEmotion(ctx context.Context, userID uint) (*models.EmotionRecord, error) {
	var rec models.EmotionRecord
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListEmotions returns the newest records first. limit <= 0 means no limit.
func (s *Service) ListEmotions(ctx context.Context, userID uint, limit int) ([]models.EmotionRecord, error) {
	var recs []models.EmotionRecord
	q := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
