package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/hamgam/worklog-api/internal/config"
	"github.com/hamgam/worklog-api/internal/constants"
	"github.com/hamgam/worklog-api/internal/database"
	"github.com/hamgam/worklog-api/internal/handlers"
	"github.com/hamgam/worklog-api/internal/logger"
	"github.com/hamgam/worklog-api/internal/middleware"
	"github.com/hamgam/worklog-api/internal/repository"
	"github.com/hamgam/worklog-api/internal/services"
	"github.com/hamgam/worklog-api/internal/utils"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg := config.Load(*configFile)
	if err := cfg.ApplyTimezone(); err != nil {
		log.Fatalf("Failed to apply timezone: %v", err)
	}
	logger.Init(cfg.Log)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

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

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup session middleware with Redis
	redisAddr := cfg.Redis.Host + ":" + cfg.Redis.Port
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.Session.Secret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.Server.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	planRepo := repository.NewPlanRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, utils.GenerateInviteCode)
	planService := services.NewPlanService(planRepo)
	reportService := services.NewReportService(reportRepo, planRepo, projectRepo)
	statusService := services.NewStatusService(projectRepo, planRepo, reportRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, statusService)
	planHandler := handlers.NewPlanHandler(planService, projectService, statusService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Worklog API is running",
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

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.POST("/join", projectHandler.JoinProject)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.POST("/:id/regenerate-code", middleware.RequireProjectAccess(), middleware.RequireManager(), projectHandler.RegenerateInviteCode)
			projects.DELETE("/:id/members/:user_id", middleware.RequireProjectAccess(), middleware.RequireManager(), projectHandler.RemoveMember)
			projects.GET("/:id/overview", middleware.RequireProjectAccess(), middleware.RequireManager(), projectHandler.GetOverview)
		}

		// Plan routes (protected)
		plans := api.Group("/plans")
		plans.Use(middleware.RequireAuth())
		{
			plans.GET("", planHandler.ListPlans)
			plans.POST("", planHandler.CreatePlan)
			plans.GET("/:id", middleware.RequirePlanAccess(), planHandler.GetPlan)
			plans.PATCH("/:id", middleware.RequirePlanAccess(), planHandler.UpdatePlan)
			plans.DELETE("/:id", middleware.RequirePlanAccess(), planHandler.DeletePlan)
			plans.GET("/:id/report", middleware.RequirePlanAccess(), reportHandler.GetReport)
			plans.POST("/:id/report", middleware.RequirePlanAccess(), reportHandler.SubmitReport)
		}

		// Report history (protected)
		api.GET("/reports", middleware.RequireAuth(), reportHandler.ListReports)
	}

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server starting", "addr", addr, "timezone", cfg.Timezone)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
