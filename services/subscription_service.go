package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// UserSubscriptions groups one user's active subscriptions for the
// matching engine.
type UserSubscriptions struct {
	UserID        uint                  `json:"-"`
	Email         string                `json:"email"`
	Subscriptions []models.Subscription `json:"subscriptions"`
}

// getOrCreateUser resolves a user by email, creating the row on first
// contact. A concurrent create that loses the race on the unique email
// index is re-fetched instead of failing.
func (s *SubscriptionService) getOrCreateUser(email string) (*models.User, error) {
	user := models.User{Email: email}
	err := s.db.Create(&user).Error
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing models.User
		if err := s.db.First(&existing, "email = ?", email).Error; err != nil {
			return nil, fmt.Errorf("failed to load existing user: %w", err)
		}
		return &existing, nil
	}
	return nil, fmt.Errorf("failed to create user: %w", err)
}

// CreateSubscription subscribes a user to a food. An inactive row for the
// same pair is reactivated (with the freshly supplied display name); an
// active one yields ErrSubscriptionExists so callers can report the
// conflict distinctly.
func (s *SubscriptionService) CreateSubscription(email, foodID, foodName string) (*models.Subscription, error) {
	email = strings.TrimSpace(email)
	if email == "" || foodID == "" || foodName == "" {
		return nil, fmt.Errorf("%w: email, foodId and foodName are required", ErrValidation)
	}

	user, err := s.getOrCreateUser(email)
	if err != nil {
		return nil, err
	}

	var sub models.Subscription
	err = s.db.Where("user_id = ? AND food_id = ?", user.ID, foodID).First(&sub).Error
	switch {
	case err == nil:
		if sub.IsActive {
			return nil, ErrSubscriptionExists
		}
		sub.IsActive = true
		sub.FoodName = foodName
		if err := s.db.Save(&sub).Error; err != nil {
			return nil, fmt.Errorf("failed to reactivate subscription: %w", err)
		}
		return &sub, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Subscription{
			UserID:   user.ID,
			FoodID:   foodID,
			FoodName: foodName,
			IsActive: true,
		}
		if err := s.db.Create(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrSubscriptionExists
			}
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
		return &sub, nil

	default:
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}
}

// ListActive returns the user's active subscriptions. An unknown email is
// an empty list, not an error.
func (s *SubscriptionService) ListActive(email string) ([]models.Subscription, error) {
	email = strings.TrimSpace(email)

	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Subscription{}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	subs := []models.Subscription{}
	if err := s.db.Where("user_id = ? AND is_active = ?", user.ID, true).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// Deactivate soft-deletes the active subscription for (email, foodID).
// Returns whether an active row was actually flipped; absent user or
// subscription is a no-op false.
func (s *SubscriptionService) Deactivate(email, foodID string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || foodID == "" {
		return false, fmt.Errorf("%w: email and foodId are required", ErrValidation)
	}

	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load user: %w", err)
	}

	res := s.db.Model(&models.Subscription{}).
		Where("user_id = ? AND food_id = ? AND is_active = ?", user.ID, foodID, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("failed to deactivate subscription: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListAllActiveGroupedByUser returns every user that has at least one
// active subscription, with those subscriptions attached.
func (s *SubscriptionService) ListAllActiveGroupedByUser() ([]UserSubscriptions, error) {
	var users []models.User
	if err := s.db.Preload("Subscriptions", "is_active = ?", true).
		Order("id asc").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users with subscriptions: %w", err)
	}

	grouped := []UserSubscriptions{}
	for _, u := range users {
		if len(u.Subscriptions) == 0 {
			continue
		}
		grouped = append(grouped, UserSubscriptions{
			UserID:        u.ID,
			Email:         u.Email,
			Subscriptions: u.Subscriptions,
		})
	}
	return grouped, nil
}
