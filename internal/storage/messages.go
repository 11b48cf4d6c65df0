package storage

import (
	"context"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"
)

// SaveMessage appends to a match transcript and fills msg.ID.
func (s *Service) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		logger.Get().Error().Err(err).Uint("match_id", msg.MatchID).Msg("failed to save message")
		return err
	}
	return nil
}

// GetChatHistory returns the whole transcript in send order.
func (s *Service) GetChatHistory(ctx context.Context, matchID uint) ([]models.ChatMessage, error) {
	history := []models.ChatMessage{}
	if err := s.DB.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at asc").
		Order("id asc").
		Find(&history).Error; err != nil {
		logger.Get().Error().Err(err).Uint("match_id", matchID).Msg("failed to get chat history")
		return nil, err
	}
	return history, nil
}
