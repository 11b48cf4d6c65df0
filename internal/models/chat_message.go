package models

import "time"

// ChatMessage is a saved message of a match transcript. Rows outlive the
// match they belong to.
type ChatMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// MatchID scopes the message to its chat.
	MatchID uint `gorm:"not null;index:idx_match_msg,priority:1" json:"match_id"`
	// SenderID is the participant who wrote the message.
	SenderID uint `gorm:"not null" json:"sender_id"`
	// Message is the text as sent, already trimmed by the handler.
	Message string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `gorm:"index:idx_match_msg,priority:2" json:"created_at"`
}

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&EmotionRecord{},
		&Match{},
		&MatchSlot{},
		&ChatMessage{},
	}
}
