package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Thomas-lee31/Bucky-s-Menu/services"
)

type SubscriptionController struct {
	subs *services.SubscriptionService
}

func NewSubscriptionController(subs *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subs: subs}
}

type subscribeReq struct {
	FoodID   string `json:"foodId" binding:"required"`
	FoodName string `json:"foodName" binding:"required"`
}

// POST /api/subscribe
func (sc *SubscriptionController) Create(c *gin.Context) {
	var req subscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: foodId, foodName"})
		return
	}

	sub, err := sc.subs.CreateSubscription(c.GetString("email"), req.FoodID, req.FoodName)
	switch {
	case errors.Is(err, services.ErrSubscriptionExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Subscription already exists for this food"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	default:
		c.JSON(http.StatusCreated, sub)
	}
}

// GET /api/subscriptions
func (sc *SubscriptionController) List(c *gin.Context) {
	subs, err := sc.subs.ListActive(c.GetString("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

type unsubscribeReq struct {
	FoodID string `json:"foodId" binding:"required"`
}

// DELETE /api/unsubscribe
func (sc *SubscriptionController) Remove(c *gin.Context) {
	var req unsubscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: foodId"})
		return
	}

	removed, err := sc.subs.Deactivate(c.GetString("email"), req.FoodID)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription removed successfully"})
}
