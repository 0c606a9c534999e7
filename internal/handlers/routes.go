package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Kavas-89/Task-Management-System/internal/app"
	"github.com/Kavas-89/Task-Management-System/internal/middleware"
	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API on r. A sessions middleware must already be
// installed.
func RegisterRoutes(r *gin.Engine, a *app.App, logger *slog.Logger) {
	authHandler := NewAuthHandler(a.Users, a.Sessions)
	userHandler := NewUserHandler(a.Users)
	taskHandler := NewTaskHandler(a.Tasks)
	commentHandler := NewCommentHandler(a.Comments)
	dashboardHandler := NewDashboardHandler(a.Views())

	r.Use(middleware.RequestLogger(logger))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Management API is running",
		})
	})

	api := r.Group("/api")
	api.Use(middleware.ClientProfile())

	requireSession := middleware.RequireSession(a.Sessions)
	requireTask := middleware.RequireTaskAccess(a.Tasks)
	can := middleware.RequireCapability

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireSession, authHandler.Me)
	}

	users := api.Group("/users")
	users.Use(requireSession, can(models.CapManageUsers))
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	tasks := api.Group("/tasks")
	tasks.Use(requireSession)
	{
		tasks.GET("", can(models.CapViewAllTasks), taskHandler.ListTasks)
		tasks.GET("/assigned", taskHandler.ListAssignedTasks)
		tasks.POST("", can(models.CapCreateTask), taskHandler.CreateTask)
		tasks.POST("/sync", can(models.CapSyncProgress), taskHandler.SyncProgress)
		tasks.POST("/generate", can(models.CapCreateTask), taskHandler.GenerateTasks)
		tasks.GET("/:id", requireTask, taskHandler.GetTask)
		tasks.PATCH("/:id", can(models.CapEditTasks), requireTask, taskHandler.UpdateTask)
		tasks.PATCH("/:id/status", can(models.CapUpdateOwnTasks), requireTask, taskHandler.UpdateStatus)
		tasks.POST("/:id/perform", can(models.CapUpdateOwnTasks), requireTask, taskHandler.PerformTask)
		tasks.DELETE("/:id", can(models.CapDeleteTasks), requireTask, taskHandler.DeleteTask)
		tasks.GET("/:id/comments", can(models.CapViewComments), requireTask, commentHandler.ListTaskComments)
		tasks.POST("/:id/comments", can(models.CapComment), requireTask, commentHandler.AddComment)
	}

	api.GET("/comments/visible", requireSession, can(models.CapViewComments), commentHandler.ListVisibleComments)
	api.GET("/dashboard/:section", requireSession, dashboardHandler.ShowSection)
}
