package weather

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series returns n samples at 3-hour steps from start, cycling through codes.
func series(start time.Time, n int, codes ...int) []RawSample {
	out := make([]RawSample, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		out = append(out, RawSample{
			Timestamp:      ts.Unix(),
			ConditionCode:  codes[i%len(codes)],
			Temperature:    float64(10 + i),
			TemperatureMax: float64(12 + i),
			TemperatureMin: float64(8 + i),
		})
	}
	return out
}

var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func TestBuildHourlyWindow(t *testing.T) {
	samples := series(monday, 40, 800, 801, 500)

	hourly := BuildHourly(samples, 8)
	require.Len(t, hourly, 8)
	for i, h := range hourly {
		assert.Equal(t, samples[i].Temperature, h.Temperature)
		assert.Equal(t, Classify(samples[i].ConditionCode), h.Icon)
	}
	assert.Equal(t, "12 AM", hourly[0].Time)
	assert.Equal(t, "3 AM", hourly[1].Time)
	assert.Equal(t, "3 PM", hourly[5].Time)
	assert.Equal(t, "9 PM", hourly[7].Time)
}

func TestBuildHourlyShortInput(t *testing.T) {
	hourly := BuildHourly(series(monday, 3, 800), 8)
	assert.Len(t, hourly, 3)

	assert.Empty(t, BuildHourly(nil, 8))
	assert.Empty(t, BuildHourly(series(monday, 3, 800), 0))
}

func TestBuildHourlyDoesNotSort(t *testing.T) {
	samples := series(monday, 3, 800)
	samples[0], samples[2] = samples[2], samples[0]

	hourly := BuildHourly(samples, 8)
	require.Len(t, hourly, 3)
	assert.Equal(t, "6 AM", hourly[0].Time)
	assert.Equal(t, "12 AM", hourly[2].Time)
}

func TestBuildHourlyInZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	hourly := BuildHourlyIn(series(monday, 1, 800), 8, zone)
	require.Len(t, hourly, 1)
	assert.Equal(t, "2 AM", hourly[0].Time)
}

func TestBuildDailyBucketsByDay(t *testing.T) {
	// 18:00 Monday onwards: 2 samples Monday, 8 Tuesday, 6 Wednesday.
	samples := series(monday.Add(18*time.Hour), 16, 800)

	daily := BuildDaily(samples, 7)
	require.Len(t, daily, 3)
	assert.Equal(t, "Mon", daily[0].Day)
	assert.Equal(t, "Tue", daily[1].Day)
	assert.Equal(t, "Wed", daily[2].Day)
}

func TestBuildDailyFoldsHighLowAndKeepsFirstIcon(t *testing.T) {
	base := monday.Add(6 * time.Hour)
	samples := []RawSample{
		{Timestamp: base.Unix(), ConditionCode: 800, TemperatureMax: 18, TemperatureMin: 10},
		{Timestamp: base.Add(3 * time.Hour).Unix(), ConditionCode: 502, TemperatureMax: 22, TemperatureMin: 5},
		{Timestamp: base.Add(6 * time.Hour).Unix(), ConditionCode: 611, TemperatureMax: 15, TemperatureMin: 8},
	}

	daily := BuildDaily(samples, 7)
	require.Len(t, daily, 1)
	assert.Equal(t, 22.0, daily[0].High)
	assert.Equal(t, 5.0, daily[0].Low)
	assert.Equal(t, IconSun, daily[0].Icon)
}

func TestBuildDailyTruncatesToMaxDays(t *testing.T) {
	samples := series(monday, 80, 800) // 10 days

	daily := BuildDaily(samples, 7)
	require.Len(t, daily, 7)
	assert.Equal(t, "Mon", daily[0].Day)
	assert.Equal(t, "Sun", daily[6].Day)

	assert.Empty(t, BuildDaily(samples, 0))
	assert.Empty(t, BuildDaily(nil, 7))
}

func TestBuildDailySameWeekdayDifferentWeeks(t *testing.T) {
	samples := []RawSample{
		{Timestamp: monday.Unix(), ConditionCode: 800, TemperatureMax: 10, TemperatureMin: 1},
		{Timestamp: monday.AddDate(0, 0, 7).Unix(), ConditionCode: 600, TemperatureMax: 30, TemperatureMin: -5},
	}

	daily := BuildDaily(samples, 7)
	require.Len(t, daily, 2)
	assert.Equal(t, "Mon", daily[0].Day)
	assert.Equal(t, "Mon", daily[1].Day)
	assert.Equal(t, 10.0, daily[0].High)
	assert.Equal(t, IconSnow, daily[1].Icon)
}

func TestBuildDailyInZone(t *testing.T) {
	// 23:00 UTC Monday is already Tuesday two hours east.
	zone := time.FixedZone("UTC+2", 2*60*60)
	samples := []RawSample{{Timestamp: monday.Add(23 * time.Hour).Unix(), ConditionCode: 800}}

	assert.Equal(t, "Mon", BuildDaily(samples, 7)[0].Day)
	assert.Equal(t, "Tue", BuildDailyIn(samples, 7, zone)[0].Day)
}

func TestAggregationIsIdempotent(t *testing.T) {
	samples := series(monday.Add(9*time.Hour), 40, 800, 801, 500, 600, 311)

	encode := func() []byte {
		b, err := json.Marshal(struct {
			H []HourlyEntry
			D []DailyEntry
		}{BuildHourly(samples, 8), BuildDaily(samples, 7)})
		require.NoError(t, err)
		return b
	}

	assert.Equal(t, encode(), encode())
}
