package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Thomas-lee31/Bucky-s-Menu/services"
)

type MenuController struct {
	menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{menu: menu}
}

// GET /api/foods/search?q=apple
func (mc *MenuController) SearchFoods(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Query parameter "q" is required`})
		return
	}

	foods, err := mc.menu.SearchByName(q, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, foods)
}

// GET /api/menu/today?diningHall=&meal=
func (mc *MenuController) TodayMenu(c *gin.Context) {
	items, err := mc.menu.QueryToday(c.Query("diningHall"), c.Query("meal"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/food/:foodId/history?limit=30&offset=0
func (mc *MenuController) FoodHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	history, err := mc.menu.GetHistory(c.Param("foodId"), limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, history)
}
