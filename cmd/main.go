package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/finsmart/internal/ai"
	"github.com/bilgisen/finsmart/internal/api"
	"github.com/bilgisen/finsmart/internal/article"
	"github.com/bilgisen/finsmart/internal/cache"
	"github.com/bilgisen/finsmart/internal/catalog"
	"github.com/bilgisen/finsmart/internal/config"
	"github.com/bilgisen/finsmart/internal/location"
	"github.com/bilgisen/finsmart/internal/logger"
	"github.com/bilgisen/finsmart/internal/middleware"
	"github.com/bilgisen/finsmart/internal/newsletter"
	"github.com/bilgisen/finsmart/internal/pages"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func main() {
	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.LogPretty,
	}); err != nil {
		logger.Get().Warn().Err(err).Msg("Falling back to stdout logging")
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	ctx := context.Background()

	// Location is detected in the background; requests see Global until it finishes
	detector := location.NewDetector(location.SystemTimeZone)
	detector.Start()

	counter := newQuotaCounter(cfg, log)
	defer func() {
		if err := counter.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing quota counter")
		}
	}()

	store, err := newNewsletterStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.NewsletterStore).Msg("Failed to initialize newsletter store")
	}

	lib, err := pages.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load pages")
	}

	client := ai.New(ctx, cfg)
	cat := catalog.Default()

	handlers := api.NewHandlers(api.Deps{
		Config:     cfg,
		Catalog:    cat,
		Trending:   client,
		Sessions:   article.NewSessions(article.NewResolver(cat, client), cfg.SessionTTL),
		Location:   detector,
		Newsletter: newsletter.NewService(store),
		Pages:      lib,
		Quota:      counter,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})
	api.SetupRoutes(app, handlers)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	go func() {
		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		state, err := detector.Wait(waitCtx)
		if err != nil {
			log.Warn().Err(err).Msg("Location detection still running")
			return
		}
		log.Info().Str("region", state.Region.String()).Str("time_zone", state.TimeZone).Msg("Location detected")
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newQuotaCounter uses Redis when configured and reachable, memory otherwise
func newQuotaCounter(cfg *config.Config, log *zerolog.Logger) cache.Counter {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL is not set, counting AI quota in memory")
		return cache.NewMemoryCounter()
	}

	counter, err := cache.NewRedisCounter(cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		log.Error().Err(err).Msg("Redis unavailable, counting AI quota in memory")
		return cache.NewMemoryCounter()
	}
	return counter
}

func newNewsletterStore(ctx context.Context, cfg *config.Config) (newsletter.Store, error) {
	if cfg.NewsletterStore == config.StoreS3 {
		return newsletter.NewS3Store(ctx, cfg.R2Endpoint, cfg.R2AccessKey, cfg.R2SecretKey, cfg.R2Bucket)
	}
	return newsletter.NewFileStore(cfg.StoragePath)
}
