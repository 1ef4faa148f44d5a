package weather

import (
	"strconv"
	"strings"
)

// Units is the unit system requested from the provider and echoed in results.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits returns the units for s. An empty string means metric.
func ParseUnits(s string) (Units, bool) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitsMetric:
		return UnitsMetric, true
	case UnitsImperial:
		return UnitsImperial, true
	default:
		return "", false
	}
}

// IconCategory is the semantic icon a condition code renders as.
type IconCategory string

const (
	IconSun          IconCategory = "sun"
	IconCloud        IconCategory = "cloud"
	IconRain         IconCategory = "rain"
	IconSnow         IconCategory = "snow"
	IconDrizzle      IconCategory = "drizzle"
	IconWind         IconCategory = "wind"
	IconPartlyCloudy IconCategory = "partly-cloudy"
)

// Query identifies the place to look up: either Location or both Lat and Lon.
type Query struct {
	Location string   `json:"location,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether the query is a coordinate lookup.
func (q Query) HasCoordinates() bool {
	return q.Lat != nil && q.Lon != nil
}

// Key returns a printable form of the query for logs.
func (q Query) Key() string {
	if q.HasCoordinates() {
		return formatCoord(*q.Lat) + "," + formatCoord(*q.Lon)
	}
	return q.Location
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RawSample is one 3-hour forecast entry as returned by the provider.
type RawSample struct {
	Timestamp      int64 // epoch seconds, UTC
	ConditionCode  int
	Temperature    float64
	TemperatureMax float64
	TemperatureMin float64
}

// CurrentConditions is the provider's answer for the current-weather lookup.
type CurrentConditions struct {
	Name          string
	Coordinates   Coordinates
	Temperature   float64
	FeelsLike     float64
	Humidity      float64
	WindSpeed     float64
	ConditionCode int

	// Last-hour volumes; nil when the payload carries no such block.
	Rain1h *float64
	Snow1h *float64
}

// Precipitation returns the rain volume, falling back to snow, then 0.
func (c CurrentConditions) Precipitation() float64 {
	if c.Rain1h != nil && *c.Rain1h != 0 {
		return *c.Rain1h
	}
	if c.Snow1h != nil && *c.Snow1h != 0 {
		return *c.Snow1h
	}
	return 0
}

// HourlyEntry is one sample of the hourly rollup.
type HourlyEntry struct {
	Time        string       `json:"time"`
	Icon        IconCategory `json:"icon"`
	Temperature float64      `json:"temperature"`
}

// DailyEntry summarises one calendar day of samples.
type DailyEntry struct {
	Day  string       `json:"day"`
	Icon IconCategory `json:"icon"`
	High float64      `json:"high"`
	Low  float64      `json:"low"`
}

// NormalizedWeather is the display-ready record handed to clients.
// It is built once per request and never mutated afterwards.
type NormalizedWeather struct {
	Location      string        `json:"location"`
	Coordinates   Coordinates   `json:"coordinates"`
	Date          string        `json:"date"`
	Units         Units         `json:"units"`
	Temperature   float64       `json:"temperature"`
	Icon          IconCategory  `json:"icon"`
	FeelsLike     float64       `json:"feelsLike"`
	Humidity      float64       `json:"humidity"`
	Wind          float64       `json:"wind"`
	Precipitation float64       `json:"precipitation"`
	Hourly        []HourlyEntry `json:"hourlyForecast"`
	Daily         []DailyEntry  `json:"dailyForecast"`
}
