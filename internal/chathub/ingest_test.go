package chathub_test

import (
	"context"
	"encoding/json"
	"errors"
	"moodmatch/backend/internal/chathub"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage/storagetest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestManualEntry_EndToEnd walks two users through manual submission into a
// shared chat and out again.
func TestManualEntry_EndToEnd(t *testing.T) {
	// Arrange
	s := storagetest.NewService(t)
	matcher := chathub.NewMatcherService(s)
	ingest := chathub.NewIngestService(s, matcher)
	manager := chathub.NewManagerService(s, matcher)
	ctx := context.Background()
	alice := storagetest.CreateUser(t, s, "alice")
	bob := storagetest.CreateUser(t, s, "bob")

	// Act: alice waits, bob arrives
	first, err := ingest.RecordManual(ctx, alice.ID, "sad", 2)
	require.NoError(t, err)
	second, err := ingest.RecordManual(ctx, bob.ID, "sad", 3)
	require.NoError(t, err)

	// Assert
	assert.InDelta(t, 66.66, first.Record.Confidence, 1e-9)
	assert.False(t, first.Outcome.Matched())

	assert.InDelta(t, 99.99, second.Record.Confidence, 1e-9)
	require.True(t, second.Outcome.Matched())
	assert.Equal(t, "alice", second.Outcome.PeerName)
	assert.Equal(t, emotion.Sad, second.Outcome.Match.Label)

	aliceView, err := matcher.GetActiveMatch(ctx, alice.ID)
	require.NoError(t, err)
	bobView, err := matcher.GetActiveMatch(ctx, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, aliceView)
	require.NotNil(t, bobView)
	assert.Equal(t, aliceView.ID, bobView.ID)

	_, err = manager.SendMessage(ctx, alice.ID, aliceView.ID, "hi")
	require.NoError(t, err)
	require.NoError(t, manager.EndChat(ctx, bob.ID, bobView.ID))

	_, err = manager.ListMessages(ctx, alice.ID, aliceView.ID)
	assert.ErrorIs(t, err, chathub.ErrForbidden)
	gone, err := matcher.GetActiveMatch(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRecordManual_Validation(t *testing.T) {
	s := storagetest.NewService(t)
	ingest := chathub.NewIngestService(s, chathub.NewMatcherService(s))
	ctx := context.Background()
	alice := storagetest.CreateUser(t, s, "alice")

	_, err := ingest.RecordManual(ctx, alice.ID, "bored", 2)
	assert.ErrorIs(t, err, emotion.ErrUnknownLabel)

	_, err = ingest.RecordManual(ctx, alice.ID, "happy", 0)
	assert.ErrorIs(t, err, chathub.ErrInvalidIntensity)

	_, err = ingest.RecordManual(ctx, alice.ID, "happy", 4)
	assert.ErrorIs(t, err, chathub.ErrInvalidIntensity)

	recs, err := s.ListEmotions(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, recs, "rejected input writes nothing")
}

func TestRecordDetected_StoresScores(t *testing.T) {
	s := storagetest.NewService(t)
	ingest := chathub.NewIngestService(s, chathub.NewMatcherService(s))
	ctx := context.Background()
	alice := storagetest.CreateUser(t, s, "alice")

	got, err := ingest.RecordDetected(ctx, alice.ID, chathub.Detection{
		Label:       emotion.Happy,
		Probability: 0.875,
		Scores:      map[string]float64{"happy": 0.875, "neutral": 0.125},
	})
	require.NoError(t, err)

	assert.InDelta(t, 87.5, got.Record.Confidence, 1e-9)
	assert.Equal(t, models.SourceCamera, got.Record.Source)

	latest, err := s.GetLatestEmotion(ctx, alice.ID)
	require.NoError(t, err)
	var scores map[string]float64
	require.NoError(t, json.Unmarshal(latest.Scores, &scores))
	assert.InDelta(t, 0.125, scores["neutral"], 1e-9)

	_, err = ingest.RecordDetected(ctx, alice.ID, chathub.Detection{Label: emotion.Happy, Probability: 1.5})
	assert.ErrorIs(t, err, chathub.ErrInvalidProbability)
}

// TestRecord_MatchFailureKeepsRecord checks that the emotion write survives a
// failing match step.
func TestRecord_MatchFailureKeepsRecord(t *testing.T) {
	// Arrange
	storageMock := new(MockStorage)
	ingest := chathub.NewIngestService(storageMock, chathub.NewMatcherService(storageMock))
	ctx := context.Background()

	storageMock.On("SaveEmotion", ctx, mock.AnythingOfType("*models.EmotionRecord")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.EmotionRecord).ID = 77
		}).
		Return(nil)
	storageMock.On("GetActiveMatch", ctx, uint(5)).Return(nil, errors.New("connection reset"))

	// Act
	got, err := ingest.RecordManual(ctx, 5, "angry", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(77), got.Record.ID)
	assert.InDelta(t, 33.33, got.Record.Confidence, 1e-9)
	assert.False(t, got.Outcome.Matched())
	storageMock.AssertExpectations(t)
}

func TestRecord_SaveFailure(t *testing.T) {
	storageMock := new(MockStorage)
	ingest := chathub.NewIngestService(storageMock, chathub.NewMatcherService(storageMock))
	ctx := context.Background()
	boom := errors.New("disk full")

	storageMock.On("SaveEmotion", ctx, mock.Anything).Return(boom)

	_, err := ingest.RecordManual(ctx, 5, "angry", 2)

	assert.ErrorIs(t, err, boom)
	storageMock.AssertNotCalled(t, "FindPeer", mock.Anything, mock.Anything, mock.Anything)
}
