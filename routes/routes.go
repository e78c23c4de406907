package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thomas-lee31/Bucky-s-Menu/controllers"
	"github.com/Thomas-lee31/Bucky-s-Menu/middlewares"
	"github.com/Thomas-lee31/Bucky-s-Menu/services"
)

// Deps carries the constructed services into the router so handlers
// never reach for globals.
type Deps struct {
	Auth          *services.AuthService
	Menu          *services.MenuService
	Subscriptions *services.SubscriptionService
	Settings      *services.SettingsService
	Jobs          *services.JobService
	Backup        *services.BackupService
	AdminToken    string
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	authCtl := controllers.NewAuthController(deps.Auth)
	menuCtl := controllers.NewMenuController(deps.Menu)
	subCtl := controllers.NewSubscriptionController(deps.Subscriptions)
	settingsCtl := controllers.NewSettingsController(deps.Settings)
	jobCtl := controllers.NewJobController(deps.Jobs, deps.Backup)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/signup", authCtl.SignUp)
		api.POST("/auth/signin", authCtl.SignIn)

		api.GET("/foods/search", menuCtl.SearchFoods)
		api.GET("/menu/today", menuCtl.TodayMenu)
		api.GET("/food/:foodId/history", menuCtl.FoodHistory)
	}

	// Routes requiring an authenticated user
	authed := api.Group("")
	authed.Use(middlewares.AuthMiddleware(deps.Auth))
	{
		authed.GET("/auth/me", authCtl.Me)

		authed.POST("/subscribe", subCtl.Create)
		authed.GET("/subscriptions", subCtl.List)
		authed.DELETE("/unsubscribe", subCtl.Remove)

		authed.GET("/settings", settingsCtl.Get)
		authed.PUT("/settings", settingsCtl.Update)
	}

	// Operational routes
	admin := api.Group("")
	admin.Use(middlewares.AdminMiddleware(deps.AdminToken))
	{
		admin.POST("/jobs/ingest", jobCtl.TriggerIngestion)
		admin.POST("/jobs/notify", jobCtl.TriggerNotifications)
		admin.POST("/backup/export", jobCtl.ExportBackup)
		admin.POST("/backup/import", jobCtl.ImportBackup)
	}

	return r
}
