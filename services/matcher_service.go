package services

import (
	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

// MatcherService joins active subscriptions against one day's menu. It
// deliberately does a point lookup per subscription instead of a single
// joined query: subscription counts per user and menu rows per day are
// both small, and the per-pair loop keeps the result auditable.
type MatcherService struct {
	subs *SubscriptionService
	menu *MenuService
}

func NewMatcherService(subs *SubscriptionService, menu *MenuService) *MatcherService {
	return &MatcherService{subs: subs, menu: menu}
}

// FindMatches returns one notification batch per user that has at least
// one subscribed food on the target date's menu. An empty date means
// today. Users with zero matches produce no batch.
func (m *MatcherService) FindMatches(date string) ([]UserNotification, error) {
	if date == "" {
		date = utils.Today()
	}

	users, err := m.subs.ListAllActiveGroupedByUser()
	if err != nil {
		return nil, err
	}

	notifications := []UserNotification{}
	for _, user := range users {
		matches := []MenuMatch{}
		for _, sub := range user.Subscriptions {
			items, err := m.menu.QueryByFoodAndDate(sub.FoodID, date)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				matches = append(matches, MenuMatch{
					FoodID: item.FoodID,
					// Keep the display label from the subscription, not
					// the menu row.
					FoodName:   sub.FoodName,
					DiningHall: item.DiningHall,
					Meal:       item.Meal,
					Date:       item.Date,
				})
			}
		}

		if len(matches) > 0 {
			notifications = append(notifications, UserNotification{
				UserID:  user.UserID,
				Email:   user.Email,
				Matches: matches,
			})
		}
	}

	return notifications, nil
}
