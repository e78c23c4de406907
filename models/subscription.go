package models

import "time"

// A user's standing interest in a food. FoodName is denormalized on
// purpose: it preserves the label the user subscribed to even if the
// menu source renames the food later.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscriptions_user_food" json:"-"`
	FoodID    string    `gorm:"size:64;not null;uniqueIndex:idx_subscriptions_user_food" json:"foodId"`
	FoodName  string    `gorm:"not null" json:"foodName"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
