package chathub

import (
	"context"
	"errors"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"
)

// ErrForbidden covers non-participants as well as ended or unknown matches,
// so callers cannot tell them apart.
var ErrForbidden = errors.New("match not accessible")

// ManagerService guards and serves match transcripts.
type ManagerService struct {
	Storage storage.Storage
	Matcher *MatcherService
}

func NewManagerService(s storage.Storage, matcher *MatcherService) *ManagerService {
	return &ManagerService{
		Storage: s,
		Matcher: matcher,
	}
}

// ValidateAccess is true iff the match exists, is active and userID takes part in it.
func (m *ManagerService) ValidateAccess(ctx context.Context, userID, matchID uint) (bool, error) {
	match, err := m.Storage.GetMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	return match != nil && match.Active && match.HasParticipant(userID), nil
}

// OpenChat returns the match as seen by userID after the access check.
func (m *ManagerService) OpenChat(ctx context.Context, userID, matchID uint) (*Outcome, error) {
	match, err := m.Storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil || !match.Active || !match.HasParticipant(userID) {
		return nil, ErrForbidden
	}
	return m.Matcher.Describe(ctx, userID, match)
}

// SendMessage appends text to the transcript. Emptiness is checked by the caller.
func (m *ManagerService) SendMessage(ctx context.Context, userID, matchID uint, text string) (*models.ChatMessage, error) {
	if err := m.guard(ctx, userID, matchID); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		MatchID:  matchID,
		SenderID: userID,
		Message:  text,
	}
	if err := m.Storage.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the full transcript, oldest first.
func (m *ManagerService) ListMessages(ctx context.Context, userID, matchID uint) ([]models.ChatMessage, error) {
	if err := m.guard(ctx, userID, matchID); err != nil {
		return nil, err
	}
	return m.Storage.GetChatHistory(ctx, matchID)
}

// EndChat terminates the match for both participants.
func (m *ManagerService) EndChat(ctx context.Context, userID, matchID uint) error {
	if err := m.guard(ctx, userID, matchID); err != nil {
		return err
	}
	return m.Matcher.EndMatch(ctx, matchID)
}

func (m *ManagerService) guard(ctx context.Context, userID, matchID uint) error {
	ok, err := m.ValidateAccess(ctx, userID, matchID)
	if err != nil {
		return err
	}
	if !ok {
		logger.Get().Warn().Uint("user_id", userID).Uint("match_id", matchID).Msg("match access denied")
		return ErrForbidden
	}
	return nil
}
