package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultAlertTime is the time of day alerts are delivered when the user has not chosen one.
const DefaultAlertTime = "08:00:00"

const alertTimeLayout = "15:04:05"

// Preferences are a user's alert toggles plus the place they want checked.
type Preferences struct {
	UserID             string    `json:"userId" validate:"required,max=128"`
	Location           string    `json:"location" validate:"max=200"`
	Units              Units     `json:"units" validate:"omitempty,oneof=metric imperial"`
	AlertRain          bool      `json:"alertRain"`
	AlertSnow          bool      `json:"alertSnow"`
	AlertExtremeTemp   bool      `json:"alertExtremeTemp"`
	AlertWind          bool      `json:"alertWind"`
	PreferredAlertTime string    `json:"preferredAlertTime" validate:"omitempty,datetime=15:04:05"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// DefaultPreferences returns the toggles a new user starts with.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:             userID,
		Units:              UnitsMetric,
		AlertRain:          true,
		AlertSnow:          true,
		AlertExtremeTemp:   true,
		AlertWind:          false,
		PreferredAlertTime: DefaultAlertTime,
	}
}

// DueWithin reports whether the preferred alert time-of-day fell in the
// window (now-interval, now], evaluated in loc.
func (p Preferences) DueWithin(now time.Time, interval time.Duration, loc *time.Location) bool {
	if interval <= 0 {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	raw := p.PreferredAlertTime
	if raw == "" {
		raw = DefaultAlertTime
	}
	tod, err := time.Parse(alertTimeLayout, raw)
	if err != nil {
		return false
	}

	now = now.In(loc)
	start := now.Add(-interval)
	// Check today's and yesterday's slot so windows that cross midnight work.
	for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
		at := time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
		if at.After(start) && !at.After(now) {
			return true
		}
	}
	return false
}

// AlertType names the condition an alert was raised for.
type AlertType string

const (
	AlertRain AlertType = "rain"
	AlertSnow AlertType = "snow"
	AlertHeat AlertType = "heat"
	AlertCold AlertType = "cold"
	AlertWind AlertType = "wind"
)

// Severity controls how prominently an alert is shown.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Alert is one message produced by EvaluateAlerts.
type Alert struct {
	ID       string    `json:"id"`
	Type     AlertType `json:"type"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// thresholds are the per-unit limits alerts and travel advice compare against.
type thresholds struct {
	heat, cold, wind float64
	windUnit         string

	travelHot, travelCold float64
}

var unitThresholds = map[Units]thresholds{
	UnitsMetric:   {heat: 35, cold: 0, wind: 30, windUnit: "m/s", travelHot: 30, travelCold: 10},
	UnitsImperial: {heat: 95, cold: 32, wind: 30, windUnit: "mph", travelHot: 86, travelCold: 50},
}

func thresholdsFor(u Units) thresholds {
	if th, ok := unitThresholds[u]; ok {
		return th
	}
	return unitThresholds[UnitsMetric]
}

// roundHalfUp rounds halves toward +Inf so -2.5 renders as -2, as browsers do.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

var newAlertID = uuid.NewString

// EvaluateAlerts returns the alerts the user's toggles enable for w.
// Results are in a fixed order: rain, snow, heat/cold, wind.
func EvaluateAlerts(p Preferences, w NormalizedWeather) []Alert {
	th := thresholdsFor(w.Units)

	alerts := make([]Alert, 0, 4)
	add := func(t AlertType, sev Severity, msg string) {
		alerts = append(alerts, Alert{ID: newAlertID(), Type: t, Message: msg, Severity: sev})
	}

	if p.AlertRain && w.Precipitation > 0 {
		add(AlertRain, SeverityWarning,
			fmt.Sprintf("Rain expected today (%.1fmm). Don't forget your umbrella!", w.Precipitation))
	}
	if p.AlertSnow && w.Icon == IconSnow {
		add(AlertSnow, SeverityWarning, "Snow conditions detected. Drive carefully and dress warmly.")
	}
	if p.AlertExtremeTemp {
		switch {
		case w.Temperature > th.heat:
			add(AlertHeat, SeverityWarning,
				fmt.Sprintf("High temperature alert: %.0f°. Stay hydrated and avoid prolonged sun exposure.", roundHalfUp(w.Temperature)))
		case w.Temperature < th.cold:
			add(AlertCold, SeverityWarning,
				fmt.Sprintf("Freezing temperature alert: %.0f°. Dress in warm layers.", roundHalfUp(w.Temperature)))
		}
	}
	if p.AlertWind && w.Wind > th.wind {
		add(AlertWind, SeverityInfo,
			fmt.Sprintf("Strong winds detected: %.0f %s. Secure loose objects outdoors.", roundHalfUp(w.Wind), th.windUnit))
	}

	return alerts
}
