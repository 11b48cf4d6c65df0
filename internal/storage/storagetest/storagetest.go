// Package storagetest builds throwaway storage services for tests.
package storagetest

import (
	"context"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewService returns a storage service over a private, migrated in-memory
// sqlite database that lives as long as the test.
func NewService(t *testing.T) *storage.Service {
	t.Helper()

	db, err := storage.Open(config.DBConfig{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return storage.NewStorageService(db, nil)
}

// CreateUser inserts a user named name with an <name>@test.local email.
func CreateUser(t *testing.T, s *storage.Service, name string) *models.User {
	t.Helper()

	u := &models.User{Email: name + "@test.local", Username: name, PasswordHash: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// AddEmotion writes an emotion record with an explicit timestamp.
func AddEmotion(t *testing.T, s *storage.Service, userID uint, label emotion.Label, at time.Time) *models.EmotionRecord {
	t.Helper()

	rec := &models.EmotionRecord{
		UserID:     userID,
		Label:      label,
		Confidence: 66.66,
		Source:     models.SourceManual,
		CreatedAt:  at,
	}
	require.NoError(t, s.SaveEmotion(context.Background(), rec))
	return rec
}
