package models

import (
	"moodmatch/backend/internal/emotion"
	"time"
)

// Match pairs two users who reported the same emotion.
// Active only ever goes from true to false.
type Match struct {
	// ID is the match identifier used by chat routes.
	ID uint `gorm:"primaryKey" json:"id"`
	// User1ID is the user whose submission created the match.
	User1ID uint `gorm:"not null;index" json:"user1_id"`
	// User2ID is the waiting peer that was picked.
	User2ID uint `gorm:"not null;index" json:"user2_id"`
	// Label is the emotion both users shared at pairing time.
	Label emotion.Label `gorm:"column:emotion;type:varchar(16);not null" json:"emotion"`
	// Active is cleared when either participant ends the chat.
	Active    bool       `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// HasParticipant reports whether userID is either side of the match.
func (m *Match) HasParticipant(userID uint) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// PeerOf returns the other participant as seen by userID.
func (m *Match) PeerOf(userID uint) uint {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// MatchSlot marks a user as holding an active match. The primary key on
// UserID is what keeps a user in at most one active match; slots are written
// together with their Match and removed when it ends.
type MatchSlot struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	MatchID   uint `gorm:"not null;index"`
	CreatedAt time.Time
}
