package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DExploit123/skyview-blend/internal/store"
	"github.com/DExploit123/skyview-blend/internal/weather"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Current(_ context.Context, q weather.Query, _ weather.Units) (weather.CurrentConditions, error) {
	f.mu.Lock()
	f.calls[q.Location]++
	f.mu.Unlock()
	if q.Location == "Nowhere" {
		return weather.CurrentConditions{}, weather.ErrLocationNotFound
	}
	rain := 3.0
	return weather.CurrentConditions{Name: q.Location, ConditionCode: 501, Temperature: 12, Rain1h: &rain}, nil
}

func (f *fakeProvider) Forecast(context.Context, float64, float64, weather.Units) ([]weather.RawSample, error) {
	return nil, nil
}

func TestRunOnceChecksDueUsers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 8, 5, 0, 0, time.UTC)

	prov := &fakeProvider{calls: map[string]int{}}
	svc := weather.NewService(store.NewMemoryStore(0), prov, weather.WithClock(func() time.Time { return now }))

	due := weather.DefaultPreferences("due")
	due.Location = "Accra"
	later := weather.DefaultPreferences("later")
	later.Location = "Lagos"
	later.PreferredAlertTime = "18:00:00"
	noLoc := weather.DefaultPreferences("no-location")
	gone := weather.DefaultPreferences("gone")
	gone.Location = "Nowhere"

	for _, p := range []weather.Preferences{due, later, noLoc, gone} {
		_, err := svc.SavePreferences(ctx, p)
		require.NoError(t, err)
	}

	var got []weather.Alert
	sched := New(15*time.Minute, time.UTC, svc, func(p weather.Preferences, w weather.NormalizedWeather, alerts []weather.Alert) {
		assert.Equal(t, "due", p.UserID)
		assert.Equal(t, "Accra", w.Location)
		got = alerts
	})

	n := sched.RunOnce(ctx, now)
	assert.Equal(t, 1, n)
	require.Len(t, got, 1)
	assert.Equal(t, weather.AlertRain, got[0].Type)

	assert.Equal(t, 1, prov.calls["Accra"])
	assert.Equal(t, 1, prov.calls["Nowhere"])
	assert.Zero(t, prov.calls["Lagos"])
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, time.Minute, sweepInterval(90*time.Second))
	assert.Equal(t, 15*time.Minute, sweepInterval(0))
	assert.Equal(t, 15*time.Minute, sweepInterval(30*time.Second))
	assert.Equal(t, 5*time.Minute, sweepInterval(5*time.Minute))
}

func TestConsecutiveSweepsReportUserOnce(t *testing.T) {
	ctx := context.Background()
	prov := &fakeProvider{calls: map[string]int{}}
	svc := weather.NewService(store.NewMemoryStore(0), prov)

	p := weather.DefaultPreferences("u1")
	p.Location = "Accra"
	_, err := svc.SavePreferences(ctx, p)
	require.NoError(t, err)

	reported := 0
	sched := New(90*time.Second, time.UTC, svc, func(weather.Preferences, weather.NormalizedWeather, []weather.Alert) {
		reported++
	})

	first := time.Date(2024, 3, 4, 8, 0, 10, 0, time.UTC)
	assert.Equal(t, 1, sched.RunOnce(ctx, first))
	assert.Equal(t, 0, sched.RunOnce(ctx, first.Add(time.Minute)))
	assert.Equal(t, 1, reported)
	assert.Equal(t, 1, prov.calls["Accra"])
}

func TestStartAndStop(t *testing.T) {
	svc := weather.NewService(store.NewMemoryStore(0), nil)
	sched := New(0, nil, svc, nil)

	require.NoError(t, sched.Start())
	sched.Stop()
}
