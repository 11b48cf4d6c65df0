package chathub

import (
	"context"
	"errors"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/metrics"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"
)

// Outcome is the result of a matching attempt. A nil Match means the user is
// waiting for a peer.
type Outcome struct {
	Match *models.Match
	// PeerID and PeerName describe the other participant as seen by the requester.
	PeerID   uint
	PeerName string
	// Created is true when this attempt created the match, false when an
	// existing one was returned.
	Created bool
}

// Matched reports whether the user holds a match after the attempt.
func (o *Outcome) Matched() bool {
	return o != nil && o.Match != nil
}

// MatcherService pairs users who report the same emotion.
type MatcherService struct {
	Storage storage.Storage
}

// NewMatcherService creates a new Matcher.
func NewMatcherService(s storage.Storage) *MatcherService {
	return &MatcherService{Storage: s}
}

// FindPeer returns the best waiting peer for label, or nil when nobody qualifies.
func (m *MatcherService) FindPeer(ctx context.Context, userID uint, label emotion.Label) (*storage.Peer, error) {
	return m.Storage.FindPeer(ctx, userID, label)
}

// CreateMatch opens a match between a and b. It fails with
// storage.ErrAlreadyMatched if either already holds an active match.
func (m *MatcherService) CreateMatch(ctx context.Context, a, b uint, label emotion.Label) (*models.Match, error) {
	match, err := m.Storage.CreateMatch(ctx, a, b, label)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyMatched) {
			metrics.MatchConflicts.Inc()
		}
		return nil, err
	}

	metrics.MatchesCreated.WithLabelValues(string(label)).Inc()
	logger.Get().Info().
		Uint("match_id", match.ID).
		Uint("user1_id", a).
		Uint("user2_id", b).
		Str("emotion", string(label)).
		Msg("match created")
	return match, nil
}

// GetActiveMatch returns the user's current match or nil.
func (m *MatcherService) GetActiveMatch(ctx context.Context, userID uint) (*models.Match, error) {
	return m.Storage.GetActiveMatch(ctx, userID)
}

// EndMatch deactivates the match. Ending an inactive match is not an error.
func (m *MatcherService) EndMatch(ctx context.Context, matchID uint) error {
	ended, err := m.Storage.EndMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if ended {
		metrics.MatchesEnded.Inc()
		logger.Get().Info().Uint("match_id", matchID).Msg("match ended")
	}
	return nil
}

// TryMatch returns the user's active match if there is one; otherwise it
// searches for a peer with the same emotion and pairs them. A peer taken by a
// concurrent request is retried up to config.MatchAttempts times.
func (m *MatcherService) TryMatch(ctx context.Context, userID uint, label emotion.Label) (*Outcome, error) {
	// 1. Already paired: hand back the open match.
	existing, err := m.GetActiveMatch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return m.Describe(ctx, userID, existing)
	}

	// 2. Look for a waiting peer and claim both slots.
	for attempt := 1; attempt <= config.MatchAttempts; attempt++ {
		peer, err := m.FindPeer(ctx, userID, label)
		if err != nil {
			return nil, err
		}
		if peer == nil {
			return &Outcome{}, nil
		}

		match, err := m.CreateMatch(ctx, userID, peer.UserID, label)
		if err == nil {
			return &Outcome{
				Match:    match,
				PeerID:   peer.UserID,
				PeerName: peer.DisplayName,
				Created:  true,
			}, nil
		}
		if !errors.Is(err, storage.ErrAlreadyMatched) {
			return nil, err
		}

		// 3. Either the peer or the requester was paired in the meantime.
		existing, err := m.GetActiveMatch(ctx, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return m.Describe(ctx, userID, existing)
		}
		logger.Get().Debug().
			Uint("user_id", userID).
			Uint("peer_id", peer.UserID).
			Int("attempt", attempt).
			Msg("peer taken concurrently, retrying")
	}
	return &Outcome{}, nil
}

// Describe resolves the peer of an existing match as seen by userID.
func (m *MatcherService) Describe(ctx context.Context, userID uint, match *models.Match) (*Outcome, error) {
	peerID := match.PeerOf(userID)
	out := &Outcome{Match: match, PeerID: peerID}

	peer, err := m.Storage.GetUserByID(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if peer != nil {
		out.PeerName = peer.DisplayName()
	}
	return out, nil
}
