package models

import "time"

// One appearance of one food at one dining hall, for one meal, on one
// calendar date. Date is a plain YYYY-MM-DD string so comparisons and
// ordering are pure calendar operations.
type MenuItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FoodID     string    `gorm:"size:64;not null;uniqueIndex:idx_menu_items_identity" json:"foodId"`
	Name       string    `gorm:"not null" json:"name"`
	Date       string    `gorm:"size:10;not null;uniqueIndex:idx_menu_items_identity" json:"date"`
	DiningHall string    `gorm:"size:64;not null;uniqueIndex:idx_menu_items_identity" json:"diningHall"`
	Meal       string    `gorm:"size:16;not null;uniqueIndex:idx_menu_items_identity" json:"meal"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Dining hall slugs as issued by the menu provider.
var DiningHalls = []string{
	"gordon-avenue-market",
	"four-lakes-market",
	"lizs-market",
	"lowell-market",
	"rhetas-market",
	"carsons-market",
}

var Meals = []string{"breakfast", "lunch", "dinner"}
