package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service resolves a query into a NormalizedWeather and evaluates alerts
// for stored preferences.
type Service struct {
	store    PreferenceStore
	provider Provider

	hourlyWindow int
	maxDays      int
	displayLoc   *time.Location
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithHourlyWindow sets how many samples go into the hourly forecast.
func WithHourlyWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hourlyWindow = n
		}
	}
}

// WithMaxDays sets how many days go into the daily forecast.
func WithMaxDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDays = n
		}
	}
}

// WithDisplayLocation sets the zone used for hour, day and date labels.
func WithDisplayLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.displayLoc = loc
		}
	}
}

// WithClock overrides time.Now, used for the formatted date and alert scheduling.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service. A nil provider is accepted; requests
// then fail with ErrConfiguration.
func NewService(store PreferenceStore, provider Provider, opts ...Option) *Service {
	s := &Service{
		store:        store,
		provider:     provider,
		hourlyWindow: DefaultHourlyWindow,
		maxDays:      DefaultMaxDays,
		displayLoc:   time.UTC,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// FetchNormalized looks up current conditions for q, then the forecast at the
// resolved coordinates, and assembles the display record. A not-found on the
// current lookup short-circuits before the forecast call.
func (s *Service) FetchNormalized(ctx context.Context, q Query, units Units) (NormalizedWeather, error) {
	if s.provider == nil {
		return NormalizedWeather{}, fmt.Errorf("%w: no weather provider configured", ErrConfiguration)
	}
	if units == "" {
		units = UnitsMetric
	}

	log.Printf("DEBUG: FetchNormalized called for %s (%s) via %s", q.Key(), units, s.provider.Name())

	current, err := s.provider.Current(ctx, q, units)
	if err != nil {
		return NormalizedWeather{}, upstreamError("current conditions", err)
	}

	// Anchor on what the provider resolved, not on the raw query.
	samples, err := s.provider.Forecast(ctx, current.Coordinates.Lat, current.Coordinates.Lon, units)
	if err != nil {
		return NormalizedWeather{}, upstreamError("forecast", err)
	}

	hourly, daily := s.aggregate(samples)

	return NormalizedWeather{
		Location:      current.Name,
		Coordinates:   current.Coordinates,
		Date:          s.now().In(s.displayLoc).Format(dateLayout),
		Units:         units,
		Temperature:   current.Temperature,
		Icon:          Classify(current.ConditionCode),
		FeelsLike:     current.FeelsLike,
		Humidity:      current.Humidity,
		Wind:          current.WindSpeed,
		Precipitation: current.Precipitation(),
		Hourly:        hourly,
		Daily:         daily,
	}, nil
}

// aggregate runs both rollups over the same series and waits for both.
func (s *Service) aggregate(samples []RawSample) ([]HourlyEntry, []DailyEntry) {
	var (
		wg     sync.WaitGroup
		hourly []HourlyEntry
		daily  []DailyEntry
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		hourly = BuildHourlyIn(samples, s.hourlyWindow, s.displayLoc)
	}()
	go func() {
		defer wg.Done()
		daily = BuildDailyIn(samples, s.maxDays, s.displayLoc)
	}()
	wg.Wait()

	return hourly, daily
}

func upstreamError(stage string, err error) error {
	if IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, stage, err)
}

// CheckAlerts loads the user's preferences and evaluates them with CheckAlertsFor.
func (s *Service) CheckAlerts(ctx context.Context, userID string) ([]Alert, NormalizedWeather, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, NormalizedWeather{}, err
	}
	return s.CheckAlertsFor(ctx, prefs)
}

// CheckAlertsFor fetches the weather at the saved location in prefs and
// evaluates the enabled alert rules against it.
func (s *Service) CheckAlertsFor(ctx context.Context, prefs Preferences) ([]Alert, NormalizedWeather, error) {
	if prefs.Location == "" {
		return nil, NormalizedWeather{}, ErrNoAlertLocation
	}

	w, err := s.FetchNormalized(ctx, Query{Location: prefs.Location}, prefs.Units)
	if err != nil {
		return nil, NormalizedWeather{}, err
	}
	return EvaluateAlerts(prefs, w), w, nil
}

// GetPreferences delegates to the underlying store.
func (s *Service) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	if s.store == nil {
		return Preferences{}, fmt.Errorf("%w: no preference store configured", ErrConfiguration)
	}
	return s.store.GetPreferences(ctx, userID)
}

// SavePreferences fills defaults and delegates to the underlying store.
func (s *Service) SavePreferences(ctx context.Context, p Preferences) (Preferences, error) {
	if s.store == nil {
		return Preferences{}, fmt.Errorf("%w: no preference store configured", ErrConfiguration)
	}
	if p.Units == "" {
		p.Units = UnitsMetric
	}
	if p.PreferredAlertTime == "" {
		p.PreferredAlertTime = DefaultAlertTime
	}
	p.UpdatedAt = s.now().UTC().Truncate(time.Second)

	if err := s.store.SavePreferences(ctx, p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

// ListPreferences delegates to the underlying store.
func (s *Service) ListPreferences(ctx context.Context) ([]Preferences, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no preference store configured", ErrConfiguration)
	}
	return s.store.ListPreferences(ctx)
}
