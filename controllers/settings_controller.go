package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Thomas-lee31/Bucky-s-Menu/services"
)

type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

// GET /api/settings
func (sc *SettingsController) Get(c *gin.Context) {
	settings, err := sc.settings.Get(c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type settingsReq struct {
	EmailNotifications *bool `json:"emailNotifications" binding:"required"`
}

// PUT /api/settings
func (sc *SettingsController) Update(c *gin.Context) {
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: emailNotifications"})
		return
	}

	settings, err := sc.settings.Update(c.GetUint("userID"), *req.EmailNotifications)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
