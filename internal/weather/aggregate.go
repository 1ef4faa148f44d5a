package weather

import "time"

const (
	hourLayout = "3 PM"
	dayLayout  = "Mon"
	dateKey    = "2006-01-02"
	dateLayout = "Monday, January 2, 2006"

	DefaultHourlyWindow = 8
	DefaultMaxDays      = 7
)

// BuildHourly returns the first window samples as hourly entries, rendered in UTC.
func BuildHourly(samples []RawSample, window int) []HourlyEntry {
	return BuildHourlyIn(samples, window, time.UTC)
}

// BuildHourlyIn is BuildHourly with an explicit display zone.
// Samples are taken in the order given; the provider already returns them ascending.
func BuildHourlyIn(samples []RawSample, window int, loc *time.Location) []HourlyEntry {
	if window <= 0 {
		return []HourlyEntry{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if len(samples) < window {
		window = len(samples)
	}

	out := make([]HourlyEntry, 0, window)
	for _, s := range samples[:window] {
		out = append(out, HourlyEntry{
			Time:        time.Unix(s.Timestamp, 0).In(loc).Format(hourLayout),
			Icon:        Classify(s.ConditionCode),
			Temperature: s.Temperature,
		})
	}
	return out
}

// BuildDaily folds samples into one entry per calendar day, rendered in UTC.
func BuildDaily(samples []RawSample, maxDays int) []DailyEntry {
	return BuildDailyIn(samples, maxDays, time.UTC)
}

// BuildDailyIn buckets samples by calendar date in loc and folds each bucket
// into a running high/low. The bucket icon is taken from the first sample
// of the day and is never revisited. Buckets keep first-seen order.
func BuildDailyIn(samples []RawSample, maxDays int, loc *time.Location) []DailyEntry {
	if maxDays <= 0 || len(samples) == 0 {
		return []DailyEntry{}
	}
	if loc == nil {
		loc = time.UTC
	}

	// Keyed by full date so that identical weekday names a week apart
	// stay in separate buckets.
	index := make(map[string]int)
	days := make([]DailyEntry, 0, maxDays)

	for _, s := range samples {
		ts := time.Unix(s.Timestamp, 0).In(loc)
		key := ts.Format(dateKey)

		i, ok := index[key]
		if !ok {
			index[key] = len(days)
			days = append(days, DailyEntry{
				Day:  ts.Format(dayLayout),
				Icon: Classify(s.ConditionCode),
				High: s.TemperatureMax,
				Low:  s.TemperatureMin,
			})
			continue
		}

		d := &days[i]
		if s.TemperatureMax > d.High {
			d.High = s.TemperatureMax
		}
		if s.TemperatureMin < d.Low {
			d.Low = s.TemperatureMin
		}
	}

	if len(days) > maxDays {
		days = days[:maxDays]
	}
	return days
}
