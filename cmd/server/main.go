package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gearbox-rentals/service-rental/internal/application"
	"github.com/gearbox-rentals/service-rental/internal/auth"
	"github.com/gearbox-rentals/service-rental/internal/cache"
	"github.com/gearbox-rentals/service-rental/internal/config"
	"github.com/gearbox-rentals/service-rental/internal/database"
	bookingDomain "github.com/gearbox-rentals/service-rental/internal/domain/booking"
	"github.com/gearbox-rentals/service-rental/internal/events"
	"github.com/gearbox-rentals/service-rental/internal/handler"
	"github.com/gearbox-rentals/service-rental/internal/health"
	"github.com/gearbox-rentals/service-rental/internal/kafka"
	"github.com/gearbox-rentals/service-rental/internal/logger"
	"github.com/gearbox-rentals/service-rental/internal/middleware"
	"github.com/gearbox-rentals/service-rental/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.UserModel{}, &repository.CarModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize Redis cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer func() { _ = redisClient.Close() }()
	dashboardCache := cache.NewRedisCache(redisClient)

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	carRepo := repository.NewGormCarRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	// Initialize pricing strategy
	pricingStrategy := bookingDomain.NewPerDayPricingStrategy()

	// Initialize application services
	validate := validator.New()
	userService := application.NewUserService(userRepo, jwtManager, log)
	carService := application.NewCarService(carRepo, validate, log)
	bookingService := application.NewBookingService(
		bookingRepo,
		carRepo,
		userRepo,
		pricingStrategy,
		kafkaProducer,
		log,
	)
	dashboardService := application.NewDashboardService(
		bookingRepo,
		carRepo,
		userRepo,
		dashboardCache,
		cfg.Redis.DashboardTTL,
		log,
	)

	// Start the dashboard cache invalidation consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "dashboard-cache"
	cacheConsumer := events.NewDashboardCacheConsumer(
		cfg.Kafka.Brokers,
		groupID,
		dashboardCache,
		log,
	)
	defer func() { _ = cacheConsumer.Close() }()

	go func() {
		log.Info("starting dashboard cache consumer")
		if err := cacheConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("dashboard cache consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	userHandler := handler.NewUserHandler(userService)
	carHandler := handler.NewCarHandler(carService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Register health and metrics routes
	healthHandler := health.NewHandler(db, "service-rental")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register API routes
	userHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	carHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	dashboardHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
