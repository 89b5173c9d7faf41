package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/config"
	"github.com/mawahib/portal/internal/database"
	"github.com/mawahib/portal/internal/handler"
	"github.com/mawahib/portal/internal/logger"
	"github.com/mawahib/portal/internal/middleware"
	"github.com/mawahib/portal/internal/notify"
	"github.com/mawahib/portal/internal/page"
	"github.com/mawahib/portal/internal/router"
	"github.com/mawahib/portal/internal/service"
	"github.com/mawahib/portal/internal/session"
	"github.com/mawahib/portal/internal/validator"
	"github.com/mawahib/portal/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("api", cfg.APIBaseURL).
		Str("session_store", cfg.SessionStore).
		Msg("Starting Mawahib portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Session Store ─────────────────────────────────────────────────
	var (
		store  session.Store
		pinger handler.Pinger
	)
	switch cfg.SessionStore {
	case "memory":
		log.Warn().Msg("Using in-memory sessions; they are lost on restart")
		store = session.NewMemoryStore()
	default:
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		redisStore := session.NewRedisStore(rdb, cfg.SessionTTL)
		store, pinger = redisStore, redisStore
	}

	// ─── API Client ────────────────────────────────────────────────────
	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger.Component(log, "apiclient")),
	)

	// ─── Initialize Services ──────────────────────────────────────────
	hub := notify.NewHub(notify.DefaultBuffer, log)
	registry := page.NewRegistry()

	authService := service.NewAuthService(api, registry, hub, log)
	adminService := service.NewAdminService(api, log)
	profileService := service.NewProfileService(api)
	pageService := service.NewPageService(api, registry, hub, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, log),
		View:          handler.NewViewHandler(),
		Page:          handler.NewPageHandler(pageService, cfg.MaxUploadBytes, log),
		Scholarship:   handler.NewScholarshipHandler(pageService, log),
		Report:        handler.NewReportHandler(pageService, log),
		Admin:         handler.NewAdminHandler(adminService, log),
		Profile:       handler.NewProfileHandler(profileService, log),
		Notifications: handler.NewNotificationHandler(hub, log, cfg.AllowedOrigins),
		Health:        handler.NewHealthHandler(pinger),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	reaper := worker.NewSessionReaper(store, registry, hub, worker.DefaultReapInterval, log)
	go reaper.Start(workerCtx)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, time.Minute)
	defer loginLimiter.Stop()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(store, loginLimiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers.
	workerCancel()

	// 3. Close every mounted page so in-flight API calls are abandoned.
	log.Info().Int("pages", registry.Len()).Msg("Closing mounted pages")
	registry.CloseAll()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
