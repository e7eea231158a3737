package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/aoyagi/tasktracker/internal/config"
	"github.com/aoyagi/tasktracker/internal/constants"
	"github.com/aoyagi/tasktracker/internal/database"
	"github.com/aoyagi/tasktracker/internal/handlers"
	"github.com/aoyagi/tasktracker/internal/middleware"
	"github.com/aoyagi/tasktracker/internal/repository"
	"github.com/aoyagi/tasktracker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Schema bootstrap runs before any store is used. A migration fault is
	// fatal: the process must not serve with an inconsistent schema.
	if err := database.Initialize(database.GetDB()); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Session middleware (cookie store); the session object replaces any
	// process-wide current-user state.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo)
	statsService := services.NewStatsService(taskRepo)
	reportService := services.NewReportService(taskRepo, attendanceRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, statsService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	reportHandler := handlers.NewReportHandler(taskService, statsService, reportService, authService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stats", taskHandler.GetStats)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.SetStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Attendance routes (protected)
		attendance := api.Group("/attendance")
		attendance.Use(middleware.RequireAuth())
		{
			attendance.GET("", attendanceHandler.List)
			attendance.PUT("", attendanceHandler.Upsert)
			attendance.DELETE("", attendanceHandler.Delete)
		}

		// Report routes (protected)
		reports := api.Group("/reports")
		reports.Use(middleware.RequireAuth())
		{
			reports.GET("/tasks/export", reportHandler.ExportTasks)
			reports.GET("/attendance/export", reportHandler.ExportAttendance)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
