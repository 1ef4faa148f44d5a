package weather

import (
	"context"
)

// Provider abstracts the upstream weather API (e.g. OpenWeatherMap).
//
// Implementations report failures by wrapping ErrLocationNotFound,
// ErrUpstreamUnavailable or ErrConfiguration.
type Provider interface {
	Name() string
	// Current resolves q and returns the current conditions there.
	Current(ctx context.Context, q Query, units Units) (CurrentConditions, error)
	// Forecast returns the 3-hour series for a coordinate pair, ascending in time.
	Forecast(ctx context.Context, lat, lon float64, units Units) ([]RawSample, error)
}

// PreferenceStore is the contract the alert-preference stores must satisfy.
type PreferenceStore interface {
	SavePreferences(ctx context.Context, p Preferences) error
	GetPreferences(ctx context.Context, userID string) (Preferences, error)
	ListPreferences(ctx context.Context) ([]Preferences, error)
}
