package storage

import (
	"context"
	"errors"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/models"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres SQLSTATEs of a transaction aborted by lock contention.
const (
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// findPeerSQL picks, among other users whose current (highest id) record
// carries the label and who hold no active match, the one with the most
// recent record. Ties on timestamp go to the higher record id.
const findPeerSQL = `
	SELECT e.user_id AS user_id, u.username AS display_name, e.id AS record_id
	FROM emotion_records e
	JOIN users u ON u.id = e.user_id
	WHERE e.user_id <> ?
	  AND e.emotion = ?
	  AND e.id = (SELECT MAX(e2.id) FROM emotion_records e2 WHERE e2.user_id = e.user_id)
	  AND NOT EXISTS (
	      SELECT 1 FROM matches m
	      WHERE m.active = ? AND (m.user1_id = e.user_id OR m.user2_id = e.user_id)
	  )
	ORDER BY e.created_at DESC, e.id DESC
	LIMIT 1
`

// FindPeer returns nil, nil when nobody is waiting with the label.
func (s *Service) FindPeer(ctx context.Context, userID uint, label emotion.Label) (*Peer, error) {
	var peers []Peer
	if err := s.DB.WithContext(ctx).Raw(findPeerSQL, userID, string(label), true).Scan(&peers).Error; err != nil {
		logger.Get().Error().Err(err).Uint("user_id", userID).Str("emotion", string(label)).Msg("failed to search peer")
		return nil, err
	}
	if len(peers) == 0 {
		return nil, nil
	}
	return &peers[0], nil
}

// CreateMatch inserts an active match and claims a slot for each side in one
// transaction. If either user already holds a slot the transaction is rolled
// back and ErrAlreadyMatched is returned.
func (s *Service) CreateMatch(ctx context.Context, a, b uint, label emotion.Label) (*models.Match, error) {
	if a == b {
		return nil, ErrSelfMatch
	}

	match := &models.Match{
		User1ID: a,
		User2ID: b,
		Label:   label,
		Active:  true,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(match).Error; err != nil {
			return err
		}

		var claimed int64
		for _, uid := range slotOrder(a, b) {
			slot := models.MatchSlot{UserID: uid, MatchID: match.ID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&slot)
			if res.Error != nil {
				return res.Error
			}
			claimed += res.RowsAffected
		}
		if claimed != 2 {
			return ErrAlreadyMatched
		}
		return nil
	})
	if isLockConflict(err) {
		err = ErrAlreadyMatched
	}
	if err != nil {
		if !errors.Is(err, ErrAlreadyMatched) {
			logger.Get().Error().Err(err).Uint("user1_id", a).Uint("user2_id", b).Msg("failed to create match")
		}
		return nil, err
	}
	return match, nil
}

// slotOrder returns both user ids lowest first. Two transactions pairing the
// same users in opposite directions then lock the slot keys in the same
// order, so the second one waits and sees the conflict instead of deadlocking.
func slotOrder(a, b uint) []uint {
	return []uint{min(a, b), max(a, b)}
}

// isLockConflict reports whether the database aborted the transaction
// because a concurrent one held the slots it needed.
func isLockConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgDeadlockDetected || pgErr.Code == pgSerializationFailure
}

// GetMatch returns nil, nil for an unknown id.
func (s *Service) GetMatch(ctx context.Context, matchID uint) (*models.Match, error) {
	var match models.Match
	err := s.DB.WithContext(ctx).First(&match, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetActiveMatch returns the user's most recently created active match, or nil, nil.
func (s *Service) GetActiveMatch(ctx context.Context, userID uint) (*models.Match, error) {
	var match models.Match
	err := s.DB.WithContext(ctx).
		Where("active = ?", true).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at desc").
		Order("id desc").
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Get().Error().Err(err).Uint("user_id", userID).Msg("failed to find active match")
		return nil, err
	}
	return &match, nil
}

// ListActiveMatches returns every active match, oldest first.
func (s *Service) ListActiveMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := s.DB.WithContext(ctx).
		Where("active = ?", true).
		Order("id asc").
		Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// EndMatch deactivates the match and releases both slots. It reports whether
// this call performed the transition; ending an inactive or unknown match is
// a no-op.
func (s *Service) EndMatch(ctx context.Context, matchID uint) (bool, error) {
	var ended bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Match{}).
			Where("id = ? AND active = ?", matchID, true).
			Updates(map[string]interface{}{
				"active":   false,
				"ended_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		ended = res.RowsAffected > 0

		return tx.Where("match_id = ?", matchID).Delete(&models.MatchSlot{}).Error
	})
	if err != nil {
		logger.Get().Error().Err(err).Uint("match_id", matchID).Msg("failed to end match")
		return false, err
	}
	return ended, nil
}
