package models

import "time"

// Per-user preferences, one row per user, created lazily on first write.
// A user without a row is treated as having email notifications enabled.
type UserSettings struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"-"`
	EmailNotifications bool      `gorm:"not null" json:"emailNotifications"`
	UpdatedAt          time.Time `json:"-"`
}
