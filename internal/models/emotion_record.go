package models

import (
	"moodmatch/backend/internal/emotion"
	"time"

	"gorm.io/datatypes"
)

// Sources of an EmotionRecord.
const (
	SourceManual = "manual"
	SourceCamera = "camera"
)

// EmotionRecord is one immutable entry of the emotion log. A user's current
// emotion is the record with the highest ID for that user.
type EmotionRecord struct {
	ID     uint          `gorm:"primaryKey" json:"id"`
	UserID uint          `gorm:"not null;index" json:"user_id"`
	Label  emotion.Label `gorm:"column:emotion;type:varchar(16);not null;index" json:"emotion"`
	// Confidence is in [0,100].
	Confidence float64 `gorm:"not null" json:"confidence"`
	Source     string  `gorm:"type:varchar(16);not null;default:manual" json:"source"`
	// Scores holds the classifier's per-label probabilities; empty for manual entries.
	Scores    datatypes.JSON `json:"scores,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
