package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	SupabaseID *string `gorm:"uniqueIndex"` // nil until the account is linked to the identity provider
	Email      string  `gorm:"uniqueIndex;not null"`

	Subscriptions []Subscription
	Settings      *UserSettings
}
