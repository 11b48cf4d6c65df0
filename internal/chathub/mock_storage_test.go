package chathub_test

import (
	"context"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage for error-path tests.
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveEmotion(ctx context.Context, rec *models.EmotionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStorage) GetLatestEmotion(ctx context.Context, userID uint) (*models.EmotionRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmotionRecord), args.Error(1)
}

func (m *MockStorage) ListEmotions(ctx context.Context, userID uint, limit int) ([]models.EmotionRecord, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.EmotionRecord), args.Error(1)
}

func (m *MockStorage) FindPeer(ctx context.Context, userID uint, label emotion.Label) (*storage.Peer, error) {
	args := m.Called(ctx, userID, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Peer), args.Error(1)
}

func (m *MockStorage) CreateMatch(ctx context.Context, a, b uint, label emotion.Label) (*models.Match, error) {
	args := m.Called(ctx, a, b, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockStorage) GetMatch(ctx context.Context, matchID uint) (*models.Match, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockStorage) GetActiveMatch(ctx context.Context, userID uint) (*models.Match, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockStorage) ListActiveMatches(ctx context.Context) ([]models.Match, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Match), args.Error(1)
}

func (m *MockStorage) EndMatch(ctx context.Context, matchID uint) (bool, error) {
	args := m.Called(ctx, matchID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStorage) GetChatHistory(ctx context.Context, matchID uint) ([]models.ChatMessage, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}
