package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the user's settings, defaulting to email notifications
// enabled when no row has been written yet. The default is not persisted
// on read.
func (s *SettingsService) Get(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.First(&settings, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserSettings{UserID: userID, EmailNotifications: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// Update writes the user's settings, creating the row on first write.
func (s *SettingsService) Update(userID uint, emailNotifications bool) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.First(&settings, "user_id = ?", userID).Error
	switch {
	case err == nil:
		settings.EmailNotifications = emailNotifications
		if err := s.db.Save(&settings).Error; err != nil {
			return nil, fmt.Errorf("failed to update settings: %w", err)
		}
		return &settings, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = models.UserSettings{UserID: userID, EmailNotifications: emailNotifications}
		if err := s.db.Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
		return &settings, nil

	default:
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
}
