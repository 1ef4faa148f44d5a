package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/DExploit123/skyview-blend/internal/api/http"
	"github.com/DExploit123/skyview-blend/internal/config"
	"github.com/DExploit123/skyview-blend/internal/scheduler"
	"github.com/DExploit123/skyview-blend/internal/store"
	"github.com/DExploit123/skyview-blend/internal/weather"
	"github.com/DExploit123/skyview-blend/internal/weather/providers"
)

func main() {
	// Load configuration (.env, optional YAML file, environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	prefStore, closeStore, err := openPreferenceStore(cfg)
	if err != nil {
		log.Fatalf("failed to open preference store: %v", err)
	}
	defer closeStore()

	// OpenWeather with resilience (backoff + circuit breaker). A missing key
	// surfaces per request as a configuration error.
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)

	service := weather.NewService(prefStore, provider,
		weather.WithHourlyWindow(cfg.HourlyWindow),
		weather.WithMaxDays(cfg.MaxDays),
		weather.WithDisplayLocation(cfg.DisplayTimezone),
	)

	// Alert sweep over stored preferences.
	sched := scheduler.New(cfg.AlertSweepInterval, cfg.DisplayTimezone, service, nil)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "skyview",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skyview",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func openPreferenceStore(cfg *config.AppConfig) (weather.PreferenceStore, func(), error) {
	if cfg.PreferencesDriver == "memory" {
		return store.NewMemoryStore(cfg.MaxMemoryUsers), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := store.NewSQLStore(ctx, cfg.PreferencesDriver, cfg.PreferencesDSN)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("INFO: alert preferences stored in %s", cfg.PreferencesDriver)
	return s, func() {
		if err := s.Close(); err != nil {
			log.Printf("error closing preference store: %v", err)
		}
	}, nil
}
