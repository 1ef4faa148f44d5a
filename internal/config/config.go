package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// Forecast shape.
	HourlyWindow    int
	MaxDays         int
	DisplayTimezone *time.Location

	// Alert preferences storage: memory, sqlite or postgres.
	PreferencesDriver string
	PreferencesDSN    string
	MaxMemoryUsers    int // memory driver only (0 = unlimited)

	// AlertSweepInterval controls how often stored preferences are checked for due alerts.
	AlertSweepInterval time.Duration

	Port string
}

// fileConfig mirrors the environment keys for WEATHER_CONFIG_FILE.
type fileConfig struct {
	OpenWeatherAPIKey  string `yaml:"openweather_api_key"`
	HTTPTimeout        string `yaml:"http_timeout"`
	HourlyWindow       int    `yaml:"hourly_window"`
	MaxDays            int    `yaml:"max_days"`
	DisplayTimezone    string `yaml:"display_timezone"`
	PreferencesDriver  string `yaml:"preferences_driver"`
	PreferencesDSN     string `yaml:"preferences_dsn"`
	MaxMemoryUsers     int    `yaml:"max_memory_users"`
	AlertSweepInterval string `yaml:"alert_sweep_interval"`
	Port               string `yaml:"port"`
}

// Load reads configuration from environment with sensible defaults.
// Values from WEATHER_CONFIG_FILE act as defaults that the environment overrides.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	var file fileConfig
	if path := os.Getenv("WEATHER_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read WEATHER_CONFIG_FILE: %w", err)
		}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse WEATHER_CONFIG_FILE: %w", err)
		}
	}

	cfg := &AppConfig{}

	// A missing key is not fatal here; requests fail with a configuration error instead.
	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", file.OpenWeatherAPIKey)
	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("ERROR: OPENWEATHER_API_KEY is not set; weather requests will fail")
	}

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", orDefault(file.HTTPTimeout, "10s")))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.HourlyWindow = getenvInt("HOURLY_WINDOW", orDefaultInt(file.HourlyWindow, 8))
	cfg.MaxDays = getenvInt("MAX_DAYS", orDefaultInt(file.MaxDays, 7))
	if cfg.HourlyWindow <= 0 || cfg.MaxDays <= 0 {
		return nil, fmt.Errorf("HOURLY_WINDOW and MAX_DAYS must be positive")
	}

	tz, err := time.LoadLocation(getenvDefault("DISPLAY_TIMEZONE", orDefault(file.DisplayTimezone, "UTC")))
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	cfg.DisplayTimezone = tz

	cfg.PreferencesDriver = getenvDefault("PREFERENCES_DRIVER", orDefault(file.PreferencesDriver, "memory"))
	cfg.PreferencesDSN = getenvDefault("PREFERENCES_DSN", file.PreferencesDSN)
	switch cfg.PreferencesDriver {
	case "memory":
	case "sqlite", "postgres":
		if cfg.PreferencesDSN == "" {
			return nil, fmt.Errorf("PREFERENCES_DSN is required for driver %q", cfg.PreferencesDriver)
		}
	default:
		return nil, fmt.Errorf("invalid PREFERENCES_DRIVER %q", cfg.PreferencesDriver)
	}
	cfg.MaxMemoryUsers = getenvInt("MAX_MEMORY_USERS", orDefaultInt(file.MaxMemoryUsers, 10000))

	sweep, err := time.ParseDuration(getenvDefault("ALERT_SWEEP_INTERVAL", orDefault(file.AlertSweepInterval, "15m")))
	if err != nil {
		return nil, fmt.Errorf("invalid ALERT_SWEEP_INTERVAL: %w", err)
	}
	cfg.AlertSweepInterval = sweep

	cfg.Port = getenvDefault("PORT", orDefault(file.Port, "8080"))

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
