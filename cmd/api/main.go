package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/sysovo-official/clockify-backend/internal/api/handlers"
	"github.com/sysovo-official/clockify-backend/internal/api/middleware"
	"github.com/sysovo-official/clockify-backend/internal/api/routes"
	"github.com/sysovo-official/clockify-backend/internal/domain/activity"
	"github.com/sysovo-official/clockify-backend/internal/domain/analytics"
	"github.com/sysovo-official/clockify-backend/internal/domain/attendance"
	"github.com/sysovo-official/clockify-backend/internal/domain/kanban"
	"github.com/sysovo-official/clockify-backend/internal/domain/task"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/cache"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/sysovo-official/clockify-backend/internal/infrastructure/persistence/postgres/migrations"
	"github.com/sysovo-official/clockify-backend/pkg/config"
	"github.com/sysovo-official/clockify-backend/pkg/logger"
	"github.com/sysovo-official/clockify-backend/pkg/security/auth"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("") // Empty string will make it search in default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	// Set up Gin
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	corsConfig := cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
		),
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	router.Use(cors.New(corsConfig))

	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis
	redisConfig := cache.NewConfigFromEnv(cfg)
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Rate limiter shares the Redis connection
	rateLimiter := auth.NewRedisRateLimiter(redisClient.GetClient(), 1*time.Minute, 1000)
	router.Use(middleware.NewRateLimitMiddleware(rateLimiter))

	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "clockify", 5*time.Minute)

	// Logrus logger for the activity trail
	activityLogger := logrus.New()
	activityLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		activityLogger.SetLevel(logrus.InfoLevel)
	} else {
		activityLogger.SetLevel(logrus.DebugLevel)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	kanbanRepo := kanban.NewRepository(db)
	activityRepo := activity.NewRepository(db)

	// Bootstrap CEO account
	user.SeedCEO(context.Background(), userRepo, cfg.Admin.Email, cfg.Admin.Password, log.Logger)

	// Initialize services
	userService := user.NewService(userRepo)
	taskService := task.NewService(taskRepo, userRepo)
	attendanceService := attendance.NewService(attendanceRepo)
	activityService := activity.NewService(activityRepo, userRepo, activityLogger)
	kanbanService := kanban.NewService(kanbanRepo, activityService)
	analyticsService := analytics.NewService(userRepo, taskRepo, kanbanRepo, attendanceRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiryHours)
	taskHandler := handlers.NewTaskHandler(taskService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	kanbanHandler := handlers.NewKanbanHandler(kanbanService)
	activityHandler := handlers.NewActivityHandler(activityService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Health check routes (no /api prefix as these are system endpoints)
	routes.SetupHealthRoutes(router, redisClient)
	log.Info("Registered health check routes at /health and /health/cache")

	// Auth routes
	authRoutes := routes.NewAuthRoutes(authHandler, cfg.Auth.JWTSecret)
	authRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered auth routes at /api/auth")

	// Task routes (protected)
	taskRoutes := routes.NewTaskRoutes(taskHandler, cfg.Auth.JWTSecret)
	taskRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered task routes at /api/tasks")

	// Attendance routes (protected)
	attendanceRoutes := routes.NewAttendanceRoutes(attendanceHandler, cfg.Auth.JWTSecret)
	attendanceRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered attendance routes at /api/attendance")

	// Board, list and card routes (protected)
	kanbanRoutes := routes.NewKanbanRoutes(kanbanHandler, cfg.Auth.JWTSecret)
	kanbanRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered kanban routes at /api/boards, /api/lists and /api/cards")

	// Activity trail routes (protected)
	activityRoutes := routes.NewActivityRoutes(activityHandler, cfg.Auth.JWTSecret)
	activityRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered activity routes at /api/activities")

	// Analytics routes (CEO only)
	analyticsRoutes := routes.NewAnalyticsRoutes(analyticsHandler, cfg.Auth.JWTSecret)
	analyticsRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered analytics routes at /api/analytics")

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
