package routes

import (
	"net/http"

	"faculty-management-api/controllers"
	"faculty-management-api/middleware"
	"faculty-management-api/models"

	"github.com/gin-gonic/gin"
)

// Handlers carries the controllers the API is built from.
type Handlers struct {
	Users middleware.UserLookup

	Auth                *controllers.AuthController
	UserAdmin           *controllers.UserController
	Leaves              *controllers.LeaveController
	ScheduleChanges     *controllers.ScheduleChangeController
	FacultyApplications *controllers.FacultyApplicationController
	Publications        *controllers.PublicationController
	Subjects            *controllers.SubjectController
	Gallery             *controllers.GalleryController
	Notifications       *controllers.NotificationController
	Events              *controllers.EventStream

	// RateLimit runs after authentication on protected routes, when set.
	RateLimit gin.HandlerFunc
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	admin := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", h.Auth.Login)
			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Faculty Management API is running",
				})
			})
			public.GET("/gallery", h.Gallery.List)
			public.POST("/faculty-applications/apply", h.FacultyApplications.Apply)
			public.GET("/faculty-applications/track/:id", h.FacultyApplications.Track)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(h.Users))
		if h.RateLimit != nil {
			protected.Use(h.RateLimit)
		}
		{
			protected.GET("/profile", h.Auth.GetProfile)
			protected.PUT("/profile", h.Auth.UpdateProfile)
			protected.PUT("/change-password", h.Auth.ChangePassword)

			users := protected.Group("/users", admin)
			{
				users.GET("", h.UserAdmin.List)
				users.GET("/:id", h.UserAdmin.Get)
				users.POST("", h.UserAdmin.Create)
				users.PUT("/:id", h.UserAdmin.Update)
				users.DELETE("/:id", h.UserAdmin.Delete)
			}

			leaves := protected.Group("/leaves")
			{
				leaves.POST("/apply", h.Leaves.Apply)
				leaves.GET("/my-applications", h.Leaves.Mine)
				leaves.GET("/all", h.Leaves.All)
				leaves.GET("/:id", h.Leaves.Get)
				leaves.PUT("/:id", h.Leaves.Update)
				leaves.DELETE("/:id", h.Leaves.Withdraw)
				leaves.PUT("/:id/review", h.Leaves.Review)
			}

			schedules := protected.Group("/schedule-changes")
			{
				schedules.POST("/apply", h.ScheduleChanges.Apply)
				schedules.GET("/my-applications", h.ScheduleChanges.Mine)
				schedules.GET("/all", h.ScheduleChanges.All)
				schedules.GET("/:id", h.ScheduleChanges.Get)
				schedules.PUT("/:id", h.ScheduleChanges.Update)
				schedules.DELETE("/:id", h.ScheduleChanges.Withdraw)
				schedules.PUT("/:id/review", h.ScheduleChanges.Review)
			}

			applications := protected.Group("/faculty-applications")
			{
				applications.GET("/all", h.FacultyApplications.All)
				applications.GET("/:id", h.FacultyApplications.Get)
				applications.PUT("/:id/review", h.FacultyApplications.Review)
			}

			// Administrative overrides, outside the workflow
			overrides := protected.Group("/admin", admin)
			{
				overrides.DELETE("/leaves/:id", h.Leaves.AdminDelete)
				overrides.DELETE("/schedule-changes/:id", h.ScheduleChanges.AdminDelete)
				overrides.DELETE("/faculty-applications/:id", h.FacultyApplications.AdminDelete)
			}

			publications := protected.Group("/publications")
			{
				publications.POST("", h.Publications.Create)
				publications.GET("/mine", h.Publications.Mine)
				publications.GET("/all", h.Publications.All)
				publications.GET("/:id", h.Publications.Get)
				publications.PUT("/:id", h.Publications.Update)
				publications.PUT("/:id/status", h.Publications.ChangeStatus)
				publications.PUT("/:id/verify", middleware.RequireRole(models.RoleResearcher, models.RoleAdmin), h.Publications.Verify)
				publications.DELETE("/:id", h.Publications.Delete)
			}

			subjects := protected.Group("/subjects")
			{
				subjects.GET("", h.Subjects.List)
				subjects.GET("/:id", h.Subjects.Get)
				subjects.POST("", admin, h.Subjects.Create)
				subjects.PUT("/:id", admin, h.Subjects.Update)
				subjects.DELETE("/:id", admin, h.Subjects.Delete)
			}

			gallery := protected.Group("/gallery", admin)
			{
				gallery.POST("", h.Gallery.Create)
				gallery.DELETE("/:id", h.Gallery.Delete)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notifications.List)
				notifications.PUT("/read-all", h.Notifications.MarkAllRead)
				notifications.PUT("/:id/read", h.Notifications.MarkRead)
			}

			protected.GET("/events/ws", h.Events.Serve)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Endpoint not found", "code": "NOT_FOUND"})
	})
}
