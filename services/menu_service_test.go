package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

func menuItem(foodID, name, date, hall, meal string) models.MenuItem {
	return models.MenuItem{FoodID: foodID, Name: name, Date: date, DiningHall: hall, Meal: meal}
}

func TestUpsertMenuItemsSkipsDuplicates(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	inserted, err := menu.UpsertMenuItems([]models.MenuItem{
		menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"),
		menuItem("43", "Burger", "2025-01-10", "gordon-avenue-market", "lunch"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// Re-run with one duplicate and one new key.
	inserted, err = menu.UpsertMenuItems([]models.MenuItem{
		menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza", "2025-01-11", "gordon-avenue-market", "lunch"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	var total int64
	require.NoError(t, menu.db.Model(&models.MenuItem{}).Count(&total).Error)
	assert.Equal(t, int64(3), total)
}

func TestUpsertMenuItemsEmptyBatch(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	inserted, err := menu.UpsertMenuItems(nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestIngestSameItemTwice(t *testing.T) {
	menu := NewMenuService(newTestDB(t))
	item := menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch")

	mustUpsert(t, menu, item)
	mustUpsert(t, menu, item)

	var total int64
	require.NoError(t, menu.db.Model(&models.MenuItem{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	// An old date never shows up in today's menu.
	today, err := menu.QueryToday("", "")
	require.NoError(t, err)
	assert.Empty(t, today)

	// With today past 2025-01-10, the appearance is history.
	history, err := menu.GetHistory("42", 10, 0)
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, "Pizza", history.FoodName)
	assert.Nil(t, history.NextAppearance)
}

func TestQueryTodayFiltersAndOrder(t *testing.T) {
	menu := NewMenuService(newTestDB(t))
	today := utils.Today()

	mustUpsert(t, menu,
		menuItem("1", "Waffles", today, "rhetas-market", "breakfast"),
		menuItem("2", "Pizza", today, "gordon-avenue-market", "lunch"),
		menuItem("3", "Apple Crisp", today, "gordon-avenue-market", "lunch"),
		menuItem("4", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"),
	)

	items, err := menu.QueryToday("", "")
	require.NoError(t, err)
	require.Len(t, items, 3)
	// (diningHall, meal, name) ascending
	assert.Equal(t, "Apple Crisp", items[0].Name)
	assert.Equal(t, "Pizza", items[1].Name)
	assert.Equal(t, "Waffles", items[2].Name)

	items, err = menu.QueryToday("gordon-avenue-market", "")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = menu.QueryToday("gordon-avenue-market", "breakfast")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchByNameShortQuery(t *testing.T) {
	menu := NewMenuService(newTestDB(t))
	mustUpsert(t, menu, menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"))

	results, err := menu.SearchByName("p", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = menu.SearchByName("  ", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByNameGroupsAndRanks(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	mustUpsert(t, menu,
		menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza", "2025-01-11", "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza", "2025-01-12", "gordon-avenue-market", "lunch"),
		menuItem("77", "Pineapple Pizza", "2025-01-10", "four-lakes-market", "dinner"),
		menuItem("99", "Burger", "2025-01-10", "gordon-avenue-market", "lunch"),
	)

	results, err := menu.SearchByName("PIZZA", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "42", results[0].FoodID)
	assert.Equal(t, int64(3), results[0].TotalAppearances)
	assert.Equal(t, "77", results[1].FoodID)
	assert.Equal(t, int64(1), results[1].TotalAppearances)
}

func TestSearchByNameTreatsWildcardsLiterally(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	mustUpsert(t, menu,
		menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"),
		menuItem("77", "100% Juice", "2025-01-10", "four-lakes-market", "breakfast"),
	)

	// "_" and "%" are not pattern characters here.
	results, err := menu.SearchByName("i__a", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = menu.SearchByName("%z%", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	// A literal percent sign in the name is still findable.
	results, err = menu.SearchByName("0% j", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "77", results[0].FoodID)
}

func TestSearchByNameCountsAllAppearances(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	// Food 42 was listed under an older name before being renamed; the
	// appearance count still covers its whole history.
	mustUpsert(t, menu,
		menuItem("42", "Cheese Flatbread", "2025-01-08", "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza", "2025-01-09", "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza", "2025-01-10", "gordon-avenue-market", "lunch"),
	)

	results, err := menu.SearchByName("pizza", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "42", results[0].FoodID)
	assert.Equal(t, int64(3), results[0].TotalAppearances)
}

func TestGetHistoryPagination(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	// 25 strictly-past appearances.
	items := make([]models.MenuItem, 0, 25)
	for i := 1; i <= 25; i++ {
		date := fmt.Sprintf("2020-01-%02d", i)
		items = append(items, menuItem("42", "Pizza", date, "gordon-avenue-market", "lunch"))
	}
	mustUpsert(t, menu, items...)

	history, err := menu.GetHistory("42", 10, 20)
	require.NoError(t, err)
	assert.Len(t, history.History, 5)
	assert.Equal(t, int64(25), history.Pagination.Total)
	assert.False(t, history.Pagination.HasMore)

	history, err = menu.GetHistory("42", 10, 10)
	require.NoError(t, err)
	assert.Len(t, history.History, 10)
	assert.True(t, history.Pagination.HasMore)

	// Newest first.
	assert.Equal(t, "2020-01-15", history.History[0].Date)
}

func TestGetHistoryUpcoming(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	tomorrow := utils.DateString(time.Now().AddDate(0, 0, 1))
	nextWeek := utils.DateString(time.Now().AddDate(0, 0, 7))

	mustUpsert(t, menu,
		menuItem("42", "Pizza", "2020-01-01", "gordon-avenue-market", "lunch"),
		menuItem("42", "Pizza", nextWeek, "four-lakes-market", "dinner"),
		menuItem("42", "Pizza", tomorrow, "gordon-avenue-market", "lunch"),
	)

	history, err := menu.GetHistory("42", 10, 0)
	require.NoError(t, err)

	require.NotNil(t, history.NextAppearance)
	assert.Equal(t, tomorrow, history.NextAppearance.Date)
	assert.Equal(t, "gordon-avenue-market", history.NextAppearance.DiningHall)

	require.Len(t, history.UpcomingAppearances, 2)
	assert.Equal(t, tomorrow, history.UpcomingAppearances[0].Date)
	assert.Equal(t, nextWeek, history.UpcomingAppearances[1].Date)

	require.Len(t, history.History, 1)
	assert.Equal(t, int64(1), history.Pagination.Total)
}

func TestGetHistoryUnknownFood(t *testing.T) {
	menu := NewMenuService(newTestDB(t))

	history, err := menu.GetHistory("nope", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Food", history.FoodName)
	assert.Empty(t, history.History)
	assert.Nil(t, history.NextAppearance)

	_, err = menu.GetHistory("", 10, 0)
	assert.ErrorIs(t, err, ErrValidation)
}
