package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

func TestFindMatchesForTargetDate(t *testing.T) {
	db := newTestDB(t)
	menu := NewMenuService(db)
	subs := NewSubscriptionService(db)
	matcher := NewMatcherService(subs, menu)

	// The subscription label differs from the current menu name on
	// purpose: the notification must carry the subscribed label.
	_, err := subs.CreateSubscription("alice@wisc.edu", "42", "Cheese Pizza")
	require.NoError(t, err)

	today := utils.Today()
	mustUpsert(t, menu,
		menuItem("42", "Pizza Slice", today, "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza Slice", today, "four-lakes-market", "dinner"),
		menuItem("99", "Burger", today, "gordon-avenue-market", "lunch"),
	)

	notifications, err := matcher.FindMatches("")
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, "alice@wisc.edu", n.Email)
	require.Len(t, n.Matches, 2)
	for _, m := range n.Matches {
		assert.Equal(t, "42", m.FoodID)
		assert.Equal(t, "Cheese Pizza", m.FoodName)
		assert.Equal(t, today, m.Date)
	}
}

func TestFindMatchesOtherDateIsEmpty(t *testing.T) {
	db := newTestDB(t)
	menu := NewMenuService(db)
	subs := NewSubscriptionService(db)
	matcher := NewMatcherService(subs, menu)

	_, err := subs.CreateSubscription("alice@wisc.edu", "42", "Pizza")
	require.NoError(t, err)
	mustUpsert(t, menu, menuItem("42", "Pizza", utils.Today(), "gordon-avenue-market", "lunch"))

	notifications, err := matcher.FindMatches("1999-12-31")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestFindMatchesIgnoresInactiveSubscriptions(t *testing.T) {
	db := newTestDB(t)
	menu := NewMenuService(db)
	subs := NewSubscriptionService(db)
	matcher := NewMatcherService(subs, menu)

	_, err := subs.CreateSubscription("alice@wisc.edu", "42", "Pizza")
	require.NoError(t, err)
	_, err = subs.Deactivate("alice@wisc.edu", "42")
	require.NoError(t, err)

	mustUpsert(t, menu, menuItem("42", "Pizza", utils.Today(), "gordon-avenue-market", "lunch"))

	notifications, err := matcher.FindMatches("")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
