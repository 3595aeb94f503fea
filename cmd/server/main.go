package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"skillbridge/docs" // swagger docs
	"skillbridge/internal/auth"
	"skillbridge/internal/cache"
	"skillbridge/internal/config"
	"skillbridge/internal/db"
	"skillbridge/internal/handler"
	"skillbridge/internal/ratelimit"
	"skillbridge/internal/repository"
	"skillbridge/internal/router"
	"skillbridge/internal/service"
	"skillbridge/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// @title SkillBridge API
// @version 1.0
// @description Tutoring marketplace API: tutor profiles, bookings, reviews and availability with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unavailable, continuing without cache: %v", err)
	}

	store := repository.NewStore(gormDB)
	validator := validation.New()

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(store, validator, jwtService, tokenStore)
	tutorService := service.NewTutorService(store, validator, cacheClient)
	categoryService := service.NewCategoryService(store, validator)
	bookingService := service.NewBookingService(store, validator)
	reviewService := service.NewReviewService(store, validator, cacheClient)
	availabilityService := service.NewAvailabilityService(store, validator)
	adminService := service.NewAdminService(store, cacheClient)

	// Rate limiting
	scheduler := cron.New()
	var limitStore ratelimit.Store
	switch cfg.RateLimitStore {
	case "redis":
		limitStore = ratelimit.NewRedisStore(cacheClient, "ratelimit:")
	default:
		memStore := ratelimit.NewMemoryStore()
		if err := ratelimit.ScheduleSweep(scheduler, memStore, "@every 5m"); err != nil {
			log.Fatalf("schedule rate limit sweep: %v", err)
		}
		limitStore = memStore
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true

	router.Register(
		e,
		cfg,
		router.Handlers{
			Auth:         handler.NewAuthHandler(authService),
			Tutor:        handler.NewTutorHandler(tutorService, bookingService),
			Category:     handler.NewCategoryHandler(categoryService),
			Booking:      handler.NewBookingHandler(bookingService),
			Review:       handler.NewReviewHandler(reviewService),
			Availability: handler.NewAvailabilityHandler(availabilityService),
			Admin:        handler.NewAdminHandler(adminService),
		},
		router.Limiters{
			API:  ratelimit.API(limitStore),
			Auth: ratelimit.Auth(limitStore),
		},
		jwtService,
		tokenStore,
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
