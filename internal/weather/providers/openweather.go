package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"github.com/DExploit123/skyview-blend/internal/weather"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// OpenWeatherOption customises an OpenWeatherProvider.
type OpenWeatherOption func(*OpenWeatherProvider)

// WithBaseURL points the provider at another API root (tests, proxies).
func WithBaseURL(u string) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		p.baseURL = strings.TrimRight(u, "/")
	}
}

// WithBackoff overrides the retry schedule.
func WithBackoff(b BackoffConfig) OpenWeatherOption {
	return func(p *OpenWeatherProvider) {
		p.httpCfg.Backoff = b
	}
}

func NewOpenWeatherProvider(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherProvider {
	p := &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: defaultOpenWeatherURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("openweather"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	ID int `json:"id"`
}

type owmCurrent struct {
	Name  string `json:"name"`
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain *struct {
		OneH *float64 `json:"1h"`
	} `json:"rain"`
	Snow *struct {
		OneH *float64 `json:"1h"`
	} `json:"snow"`
	Weather []owmCondition `json:"weather"`
}

type owmForecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []owmCondition `json:"weather"`
}

type owmForecast struct {
	// nil when the payload has no list key at all
	List *[]owmForecastItem `json:"list"`
}

// Current resolves the query by name or coordinates against /weather.
func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query, units weather.Units) (weather.CurrentConditions, error) {
	if p.apiKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrConfiguration)
	}

	values := url.Values{}
	if q.HasCoordinates() {
		values.Set("lat", strconv.FormatFloat(*q.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(*q.Lon, 'f', -1, 64))
	} else {
		values.Set("q", q.Location)
	}

	var payload owmCurrent
	if err := p.get(ctx, "/weather", values, units, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	if payload.Coord == nil || len(payload.Weather) == 0 {
		return weather.CurrentConditions{}, fmt.Errorf("%w: current conditions payload is missing coord or weather", weather.ErrUpstreamUnavailable)
	}

	cur := weather.CurrentConditions{
		Name:          payload.Name,
		Coordinates:   weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		Temperature:   payload.Main.Temp,
		FeelsLike:     payload.Main.FeelsLike,
		Humidity:      payload.Main.Humidity,
		WindSpeed:     payload.Wind.Speed,
		ConditionCode: payload.Weather[0].ID,
	}
	if payload.Rain != nil {
		cur.Rain1h = payload.Rain.OneH
	}
	if payload.Snow != nil {
		cur.Snow1h = payload.Snow.OneH
	}
	return cur, nil
}

// Forecast fetches the 5 day / 3 hour series from /forecast.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, lat, lon float64, units weather.Units) ([]weather.RawSample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrConfiguration)
	}

	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var payload owmForecast
	if err := p.get(ctx, "/forecast", values, units, &payload); err != nil {
		// Coordinates came from a successful current lookup, so a 404 here is an upstream fault.
		if errors.Is(err, weather.ErrLocationNotFound) {
			return nil, fmt.Errorf("%w: forecast not found for %s,%s", weather.ErrUpstreamUnavailable, values.Get("lat"), values.Get("lon"))
		}
		return nil, err
	}

	if payload.List == nil {
		return nil, fmt.Errorf("%w: forecast payload has no list", weather.ErrUpstreamUnavailable)
	}

	samples := make([]weather.RawSample, 0, len(*payload.List))
	for i, item := range *payload.List {
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: forecast entry %d has no weather condition", weather.ErrUpstreamUnavailable, i)
		}
		samples = append(samples, weather.RawSample{
			Timestamp:      item.Dt,
			ConditionCode:  item.Weather[0].ID,
			Temperature:    item.Main.Temp,
			TemperatureMax: item.Main.TempMax,
			TemperatureMin: item.Main.TempMin,
		})
	}
	return samples, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, values url.Values, units weather.Units, out any) error {
	values.Set("appid", p.apiKey)
	if units == "" {
		units = weather.UnitsMetric
	}
	values.Set("units", string(units))

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return mapOpenWeatherError(path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", weather.ErrUpstreamUnavailable, path, err)
	}
	return nil
}

func mapOpenWeatherError(path string, err error) error {
	switch {
	case errors.Is(err, errNotFound):
		return fmt.Errorf("%w: openweather %s", weather.ErrLocationNotFound, path)
	case errors.Is(err, errUnauthorized):
		return fmt.Errorf("%w: openweather rejected the api key", weather.ErrConfiguration)
	case errors.Is(err, errNoHTTPClient), errors.Is(err, errInvalidConfig):
		return fmt.Errorf("%w: %v", weather.ErrConfiguration, err)
	default:
		return fmt.Errorf("%w: openweather %s: %w", weather.ErrUpstreamUnavailable, path, err)
	}
}
