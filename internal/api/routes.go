package api

import (
	"net/http"

	"gymbros/fitness-tracker/internal/metrics"
	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth      service.AuthService
	Setup     service.SetupService
	Workouts  service.WorkoutService
	Stats     service.StatsService
	Rehab     service.RehabService
	Habits    service.HabitService
	Friends   service.FriendService
	Feed      service.FeedService
	Privacy   service.PrivacyService
	Plans     service.GymPlanService
	Wallpaper service.WallpaperService
}

type RouterConfig struct {
	CookieName   string
	CookieSecure bool
	// LoginRateLimiter is optional. Login is not rate limited when nil.
	LoginRateLimiter RequestRateLimiter
	LoginPerMinute   int
	Metrics          *metrics.Manager
	// Gatherer backs /metrics. The endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, services Services, cfg RouterConfig) {
	useJSONFieldNames()

	router.Use(PanicRecovery(cfg.Metrics))
	if cfg.Metrics != nil {
		router.Use(RequestMetrics(cfg.Metrics))
	}
	router.Use(LogRequest())

	authHandler := NewAuthHandler(services.Auth, services.Setup, cfg.CookieName, cfg.CookieSecure)
	setupHandler := NewSetupHandler(services.Setup)
	workoutHandler := NewWorkoutHandler(services.Workouts, services.Stats, cfg.Metrics)
	rehabHandler := NewRehabHandler(services.Rehab)
	habitHandler := NewHabitHandler(services.Habits)
	friendHandler := NewFriendHandler(services.Friends, services.Feed)
	privacyHandler := NewPrivacyHandler(services.Privacy)
	planHandler := NewPlanHandler(services.Plans)
	wallpaperHandler := NewWallpaperHandler(services.Wallpaper)

	authMiddleware := AuthMiddleware(services.Auth, cfg.CookieName)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			if cfg.LoginRateLimiter != nil {
				authGroup.POST("/login", RateLimit(cfg.LoginRateLimiter, "login", cfg.LoginPerMinute, cfg.Metrics), authHandler.Login)
			} else {
				authGroup.POST("/login", authHandler.Login)
			}
			authGroup.POST("/logout", authHandler.Logout)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		protected.POST("/setup", setupHandler.StartSetup)
		protected.GET("/setup/jobs/:jobId", setupHandler.JobStatus)

		workouts := protected.Group("/workouts")
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.GET("/today", workoutHandler.Today)
			workouts.POST("/import", workoutHandler.ImportWorkouts)
			workouts.GET("/:workoutId", workoutHandler.GetWorkout)
			workouts.PATCH("/:workoutId/sets/:setId", workoutHandler.ToggleSet)
			workouts.PUT("/:workoutId/sets/:setId", workoutHandler.UpdateSet)
			workouts.POST("/:workoutId/finish", workoutHandler.FinishWorkout)
		}
		protected.GET("/stats", workoutHandler.GetStats)

		// enable is the only rehab route open to users without rehab
		protected.POST("/rehab/enable", rehabHandler.EnableRehab)
		rehab := protected.Group("/rehab")
		rehab.Use(RequireRehab())
		{
			rehab.GET("", rehabHandler.ListRehab)
			rehab.POST("", rehabHandler.CreateRehab)
			rehab.POST("/reorder", rehabHandler.ReorderRehab)
			rehab.POST("/fix", rehabHandler.FixRehab)
			rehab.PUT("/:id", rehabHandler.UpdateRehab)
			rehab.DELETE("/:id", rehabHandler.DeleteRehab)
			rehab.PATCH("/:id/complete", rehabHandler.CompleteRehab)
		}

		habits := protected.Group("/habits")
		{
			habits.POST("", habitHandler.LogHabit)
			habits.POST("/undo", habitHandler.UndoHabit)
			habits.GET("/today", habitHandler.TodayHabits)
			habits.GET("/history", habitHandler.HabitHistory)
		}

		friends := protected.Group("/friends")
		{
			friends.GET("", friendHandler.ListFriends)
			friends.GET("/pending", friendHandler.PendingRequests)
			friends.GET("/search", friendHandler.SearchUsers)
			friends.POST("/requests", friendHandler.SendRequest)
			friends.POST("/requests/:id/accept", friendHandler.AcceptRequest)
			friends.POST("/requests/:id/decline", friendHandler.DeclineRequest)
			friends.POST("/block", friendHandler.BlockUser)
			friends.DELETE("/:id", friendHandler.RemoveFriendship)
			friends.GET("/:userId/stats", friendHandler.FriendStats)
			friends.GET("/:userId/activity", friendHandler.FriendActivity)
		}
		protected.GET("/feed", friendHandler.Feed)

		protected.GET("/privacy", privacyHandler.GetPrivacy)
		protected.PUT("/privacy", privacyHandler.UpdatePrivacy)

		plans := protected.Group("/plans")
		{
			plans.POST("/generate", planHandler.GeneratePlan)
			plans.GET("", planHandler.ListPlans)
			plans.GET("/active", planHandler.ActivePlan)
			plans.PATCH("/:id/status", planHandler.UpdatePlanStatus)
		}

		wallpaper := protected.Group("/me/wallpaper")
		{
			wallpaper.POST("/upload-url", wallpaperHandler.RequestUploadURL)
			wallpaper.POST("/confirm", wallpaperHandler.ConfirmUpload)
			wallpaper.GET("", wallpaperHandler.GetWallpaper)
			wallpaper.DELETE("", wallpaperHandler.DeleteWallpaper)
		}
	}
}
