package chathub_test

import (
	"context"
	"errors"
	"fmt"
	"moodmatch/backend/internal/chathub"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"
	"moodmatch/backend/internal/storage/storagetest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestTryMatch_Waiting verifies a lone user gets no match.
func TestTryMatch_Waiting(t *testing.T) {
	// Arrange
	s := storagetest.NewService(t)
	matcher := chathub.NewMatcherService(s)
	alice := storagetest.CreateUser(t, s, "alice")
	storagetest.AddEmotion(t, s, alice.ID, emotion.Sad, time.Now())

	// Act
	out, err := matcher.TryMatch(context.Background(), alice.ID, emotion.Sad)

	// Assert
	require.NoError(t, err)
	assert.False(t, out.Matched())
}

// TestTryMatch_PairsAndShortCircuits checks that a matched user is routed back
// to the same match instead of being paired again.
func TestTryMatch_PairsAndShortCircuits(t *testing.T) {
	// Arrange
	s := storagetest.NewService(t)
	matcher := chathub.NewMatcherService(s)
	ctx := context.Background()
	alice := storagetest.CreateUser(t, s, "alice")
	bob := storagetest.CreateUser(t, s, "bob")
	carol := storagetest.CreateUser(t, s, "carol")
	storagetest.AddEmotion(t, s, alice.ID, emotion.Happy, time.Now())
	storagetest.AddEmotion(t, s, bob.ID, emotion.Happy, time.Now())

	// Act
	first, err := matcher.TryMatch(ctx, bob.ID, emotion.Happy)
	require.NoError(t, err)
	again, err := matcher.TryMatch(ctx, alice.ID, emotion.Happy)
	require.NoError(t, err)

	// Assert
	require.True(t, first.Matched())
	assert.True(t, first.Created)
	assert.Equal(t, alice.ID, first.PeerID)
	assert.Equal(t, "alice", first.PeerName)
	assert.Equal(t, bob.ID, first.Match.User1ID, "the requester is user1")

	require.True(t, again.Matched())
	assert.False(t, again.Created)
	assert.Equal(t, first.Match.ID, again.Match.ID)
	assert.Equal(t, "bob", again.PeerName)

	// carol has no waiting peer left
	storagetest.AddEmotion(t, s, carol.ID, emotion.Happy, time.Now())
	out, err := matcher.TryMatch(ctx, carol.ID, emotion.Happy)
	require.NoError(t, err)
	assert.False(t, out.Matched())
}

func TestTryMatch_NeverSelfMatches(t *testing.T) {
	s := storagetest.NewService(t)
	matcher := chathub.NewMatcherService(s)
	alice := storagetest.CreateUser(t, s, "alice")
	for i := 0; i < 3; i++ {
		storagetest.AddEmotion(t, s, alice.ID, emotion.Fear, time.Now())
	}

	out, err := matcher.TryMatch(context.Background(), alice.ID, emotion.Fear)

	require.NoError(t, err)
	assert.False(t, out.Matched())
}

// TestTryMatch_Deterministic feeds identical state twice and expects the same peer.
func TestTryMatch_Deterministic(t *testing.T) {
	pick := func() string {
		s := storagetest.NewService(t)
		matcher := chathub.NewMatcherService(s)
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		requester := storagetest.CreateUser(t, s, "requester")
		for i, name := range []string{"p1", "p2", "p3"} {
			u := storagetest.CreateUser(t, s, name)
			// p2 and p3 share the newest timestamp.
			at := base.Add(time.Duration(min(i, 1)) * time.Minute)
			storagetest.AddEmotion(t, s, u.ID, emotion.Surprise, at)
		}

		out, err := matcher.TryMatch(context.Background(), requester.ID, emotion.Surprise)
		require.NoError(t, err)
		require.True(t, out.Matched())
		return out.PeerName
	}

	first := pick()
	assert.Equal(t, "p3", first)
	assert.Equal(t, first, pick())
}

// TestConcurrentSubmissions_AtMostOneActiveMatch submits the same emotion
// for many users at once and checks nobody ends up in two active matches.
func TestConcurrentSubmissions_AtMostOneActiveMatch(t *testing.T) {
	for round := 0; round < 5; round++ {
		t.Run(fmt.Sprintf("round_%d", round), func(t *testing.T) {
			s := storagetest.NewService(t)
			matcher := chathub.NewMatcherService(s)
			ingest := chathub.NewIngestService(s, matcher)
			ctx := context.Background()

			const n = 7
			users := make([]*models.User, n)
			for i := range users {
				users[i] = storagetest.CreateUser(t, s, fmt.Sprintf("user%d", i))
			}

			var wg sync.WaitGroup
			errs := make(chan error, n)
			for _, u := range users {
				wg.Add(1)
				go func(id uint) {
					defer wg.Done()
					if _, err := ingest.RecordManual(ctx, id, "sad", 2); err != nil {
						errs <- err
					}
				}(u.ID)
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			active, err := s.ListActiveMatches(ctx)
			require.NoError(t, err)

			seen := map[uint]uint{}
			for _, m := range active {
				assert.NotEqual(t, m.User1ID, m.User2ID)
				for _, uid := range []uint{m.User1ID, m.User2ID} {
					prev, dup := seen[uid]
					assert.False(t, dup, "user %d is in matches %d and %d", uid, prev, m.ID)
					seen[uid] = m.ID
				}
			}
			assert.NotEmpty(t, active)
			assert.LessOrEqual(t, len(active), n/2)
		})
	}
}

func TestTryMatch_RetriesWhenPeerTaken(t *testing.T) {
	// Arrange
	storageMock := new(MockStorage)
	matcher := chathub.NewMatcherService(storageMock)
	ctx := context.Background()
	match := &models.Match{ID: 10, User1ID: 1, User2ID: 3, Label: emotion.Sad, Active: true}

	storageMock.On("GetActiveMatch", ctx, uint(1)).Return(nil, nil)
	storageMock.On("FindPeer", ctx, uint(1), emotion.Sad).Return(&storage.Peer{UserID: 2, DisplayName: "bob"}, nil).Once()
	storageMock.On("CreateMatch", ctx, uint(1), uint(2), emotion.Sad).Return(nil, storage.ErrAlreadyMatched).Once()
	storageMock.On("FindPeer", ctx, uint(1), emotion.Sad).Return(&storage.Peer{UserID: 3, DisplayName: "carol"}, nil).Once()
	storageMock.On("CreateMatch", ctx, uint(1), uint(3), emotion.Sad).Return(match, nil).Once()

	// Act
	out, err := matcher.TryMatch(ctx, 1, emotion.Sad)

	// Assert
	require.NoError(t, err)
	require.True(t, out.Matched())
	assert.Equal(t, "carol", out.PeerName)
	storageMock.AssertExpectations(t)
}

func TestTryMatch_GivesUpAfterAttempts(t *testing.T) {
	storageMock := new(MockStorage)
	matcher := chathub.NewMatcherService(storageMock)
	ctx := context.Background()

	storageMock.On("GetActiveMatch", ctx, uint(1)).Return(nil, nil)
	storageMock.On("FindPeer", ctx, uint(1), emotion.Angry).Return(&storage.Peer{UserID: 2, DisplayName: "bob"}, nil)
	storageMock.On("CreateMatch", ctx, uint(1), uint(2), emotion.Angry).Return(nil, storage.ErrAlreadyMatched)

	out, err := matcher.TryMatch(ctx, 1, emotion.Angry)

	require.NoError(t, err)
	assert.False(t, out.Matched())
	storageMock.AssertNumberOfCalls(t, "CreateMatch", 3)
}

func TestTryMatch_StorageError(t *testing.T) {
	storageMock := new(MockStorage)
	matcher := chathub.NewMatcherService(storageMock)
	ctx := context.Background()
	boom := errors.New("db down")

	storageMock.On("GetActiveMatch", ctx, uint(1)).Return(nil, nil)
	storageMock.On("FindPeer", ctx, uint(1), emotion.Neutral).Return(nil, boom)

	_, err := matcher.TryMatch(ctx, 1, emotion.Neutral)

	assert.ErrorIs(t, err, boom)
}

func TestEndMatch_Idempotent(t *testing.T) {
	s := storagetest.NewService(t)
	matcher := chathub.NewMatcherService(s)
	ctx := context.Background()
	alice := storagetest.CreateUser(t, s, "alice")
	bob := storagetest.CreateUser(t, s, "bob")

	m, err := matcher.CreateMatch(ctx, alice.ID, bob.ID, emotion.Disgust)
	require.NoError(t, err)

	assert.NoError(t, matcher.EndMatch(ctx, m.ID))
	assert.NoError(t, matcher.EndMatch(ctx, m.ID))

	active, err := matcher.GetActiveMatch(ctx, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestCreateMatch_RejectsSelf(t *testing.T) {
	storageMock := new(MockStorage)
	matcher := chathub.NewMatcherService(storageMock)
	storageMock.On("CreateMatch", mock.Anything, uint(4), uint(4), emotion.Sad).Return(nil, storage.ErrSelfMatch)

	_, err := matcher.CreateMatch(context.Background(), 4, 4, emotion.Sad)

	assert.ErrorIs(t, err, storage.ErrSelfMatch)
}
