package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/nattawatc/study-planner-api/internal/config"
	"github.com/nattawatc/study-planner-api/internal/database"
	"github.com/nattawatc/study-planner-api/internal/handlers"
	"github.com/nattawatc/study-planner-api/internal/line"
	"github.com/nattawatc/study-planner-api/internal/middleware"
	"github.com/nattawatc/study-planner-api/internal/repository"
	"github.com/nattawatc/study-planner-api/internal/scheduler"
	"github.com/nattawatc/study-planner-api/internal/services"
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

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("planner_session", store))

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// LINE push delivery is optional
	var lineClient *line.Client
	if cfg.LineChannelToken != "" {
		lineClient = line.NewClient(cfg.LineChannelToken)
	}

	// Services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, statusRepo, taskRepo)
	statusService := services.NewStatusService(statusRepo, projectRepo)
	taskService := services.NewTaskService(taskRepo, statusRepo, projectRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	sender := services.NewNotificationSender(notificationRepo, userRepo, lineClient)
	notifierService := services.NewNotifierService(taskRepo, assignmentRepo, projectRepo, courseRepo, sender)

	// Background deadline scans
	sched := scheduler.New(
		notifierService,
		notificationService,
		time.Duration(cfg.TaskScanIntervalSeconds)*time.Second,
		cfg.DailyScanHour,
		cfg.Timezone,
	)
	sched.Start()
	defer sched.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	statusHandler := handlers.NewStatusHandler(statusService)
	taskHandler := handlers.NewTaskHandler(taskService)
	courseHandler := handlers.NewCourseHandler()
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Study Planner API is running",
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
			auth.POST("/line-link", middleware.RequireAuth(), authHandler.LinkLineAccount)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetBoard)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.POST("/:id/roles", projectHandler.AddRole)
			projects.PATCH("/:id/roles/:roleId", projectHandler.UpdateRole)
			projects.DELETE("/:id/roles/:roleId", projectHandler.DeleteRole)
		}

		// Board column routes (protected)
		statuses := api.Group("/statuses")
		statuses.Use(middleware.RequireAuth())
		{
			statuses.POST("", statusHandler.CreateStatus)
			statuses.PATCH("/:id", statusHandler.UpdateStatus)
			statuses.DELETE("/:id", statusHandler.DeleteStatus)
			statuses.PUT("/:id/position", statusHandler.MoveStatus)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/unassign", taskHandler.UnassignTask)
		}

		// Course and assignment routes (protected)
		courses := api.Group("/courses")
		courses.Use(middleware.RequireAuth())
		{
			courses.GET("", courseHandler.ListCourses)
			courses.POST("", courseHandler.CreateCourse)
			courses.PATCH("/:id", courseHandler.UpdateCourse)
			courses.DELETE("/:id", courseHandler.DeleteCourse)
		}

		assignments := api.Group("/assignments")
		assignments.Use(middleware.RequireAuth())
		{
			assignments.GET("", courseHandler.ListAssignments)
			assignments.POST("", courseHandler.CreateAssignment)
			assignments.PATCH("/:id", courseHandler.UpdateAssignment)
			assignments.DELETE("/:id", courseHandler.DeleteAssignment)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/read", notificationHandler.DeleteReadNotifications)
			notifications.DELETE("/all", notificationHandler.DeleteAllNotifications)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
