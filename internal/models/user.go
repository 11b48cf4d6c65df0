package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account that can record emotions and be matched.
// Credentials are opaque to the matching core.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName is the name shown to a matched peer.
func (u *User) DisplayName() string {
	return u.Username
}

// BeforeCreate normalizes the email so lookups are case-insensitive.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	return
}
