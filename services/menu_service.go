package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

const (
	searchMinQueryLen   = 2
	searchResultLimit   = 20
	upcomingLimit       = 20
	defaultHistoryLimit = 30
	insertBatchSize     = 500
)

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// FoodSummary is one distinct food in a search result, with how often it
// has ever appeared on any menu.
type FoodSummary struct {
	FoodID           string `json:"foodId"`
	Name             string `json:"name"`
	TotalAppearances int64  `json:"totalAppearances"`
}

type Appearance struct {
	Date       string `json:"date"`
	DiningHall string `json:"diningHall"`
	Meal       string `json:"meal"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

type FoodHistory struct {
	FoodID              string            `json:"foodId"`
	FoodName            string            `json:"foodName"`
	History             []models.MenuItem `json:"history"`
	NextAppearance      *Appearance       `json:"nextAppearance"`
	UpcomingAppearances []models.MenuItem `json:"upcomingAppearances"`
	Pagination          Pagination        `json:"pagination"`
}

// UpsertMenuItems bulk-inserts menu items, silently skipping any row whose
// (foodId, date, diningHall, meal) key already exists. Returns the number
// of rows actually inserted, so re-ingesting a date reports zero.
func (s *MenuService) UpsertMenuItems(items []models.MenuItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "food_id"},
			{Name: "date"},
			{Name: "dining_hall"},
			{Name: "meal"},
		},
		DoNothing: true,
	}).CreateInBatches(&items, insertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to insert menu items: %w", res.Error)
	}

	return res.RowsAffected, nil
}

// QueryToday returns the current date's menu, optionally filtered by
// dining hall and meal, ordered by (diningHall, meal, name).
func (s *MenuService) QueryToday(diningHall, meal string) ([]models.MenuItem, error) {
	q := s.db.Where("date = ?", utils.Today())
	if diningHall != "" {
		q = q.Where("dining_hall = ?", diningHall)
	}
	if meal != "" {
		q = q.Where("meal = ?", meal)
	}

	items := []models.MenuItem{}
	if err := q.Order("dining_hall asc, meal asc, name asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query today's menu: %w", err)
	}
	return items, nil
}

// QueryByFoodAndDate is the point lookup used by the matching engine.
func (s *MenuService) QueryByFoodAndDate(foodID, date string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if err := s.db.Where("food_id = ? AND date = ?", foodID, date).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query menu items for food %s: %w", foodID, err)
	}
	return items, nil
}

// escapeLike escapes LIKE metacharacters so user input matches
// literally. Pair with an ESCAPE '\' clause.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchByName does a case-insensitive substring search over food names,
// grouped by foodId and ordered by how often the food has appeared.
// Wildcard characters in the query match themselves, not patterns.
// Appearance counts cover every row for a matched foodId, including ones
// recorded under an earlier name. Queries shorter than two characters
// return nothing without touching storage, matching the autocomplete
// contract.
func (s *MenuService) SearchByName(query string, limit int) ([]FoodSummary, error) {
	query = strings.TrimSpace(query)
	if len(query) < searchMinQueryLen {
		return []FoodSummary{}, nil
	}
	if limit <= 0 || limit > searchResultLimit {
		limit = searchResultLimit
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	matched := s.db.Model(&models.MenuItem{}).
		Select("DISTINCT food_id").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)

	results := []FoodSummary{}
	err := s.db.Model(&models.MenuItem{}).
		Select("food_id, MIN(name) AS name, COUNT(*) AS total_appearances").
		Where("food_id IN (?)", matched).
		Group("food_id").
		Order("total_appearances DESC, name ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return results, nil
}

// GetHistory partitions a food's appearances into strictly-past records
// (paginated, newest first) and today-or-future records (capped, earliest
// first), and reports the earliest upcoming appearance separately.
func (s *MenuService) GetHistory(foodID string, limit, offset int) (*FoodHistory, error) {
	if foodID == "" {
		return nil, fmt.Errorf("%w: foodId is required", ErrValidation)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	today := utils.Today()

	history := []models.MenuItem{}
	if err := s.db.Where("food_id = ? AND date < ?", foodID, today).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to query food history: %w", err)
	}

	upcoming := []models.MenuItem{}
	if err := s.db.Where("food_id = ? AND date >= ?", foodID, today).
		Order("date ASC").
		Limit(upcomingLimit).
		Find(&upcoming).Error; err != nil {
		return nil, fmt.Errorf("failed to query upcoming appearances: %w", err)
	}

	var total int64
	if err := s.db.Model(&models.MenuItem{}).
		Where("food_id = ? AND date < ?", foodID, today).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count food history: %w", err)
	}

	var next *Appearance
	if len(upcoming) > 0 {
		next = &Appearance{
			Date:       upcoming[0].Date,
			DiningHall: upcoming[0].DiningHall,
			Meal:       upcoming[0].Meal,
		}
	}

	foodName := "Unknown Food"
	if len(history) > 0 {
		foodName = history[0].Name
	} else if len(upcoming) > 0 {
		foodName = upcoming[0].Name
	}

	return &FoodHistory{
		FoodID:              foodID,
		FoodName:            foodName,
		History:             history,
		NextAppearance:      next,
		UpcomingAppearances: upcoming,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: total > int64(offset+limit),
		},
	}, nil
}
