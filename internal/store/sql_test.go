package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DExploit123/skyview-blend/internal/weather"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "prefs.db")

	s, err := NewSQLStore(context.Background(), DriverSQLite, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteSaveGetAndUpsert(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, err := s.GetPreferences(ctx, "u1")
	require.ErrorIs(t, err, weather.ErrPreferencesNotFound)

	p := weather.DefaultPreferences("u1")
	p.Location = "Lagos"
	p.UpdatedAt = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.SavePreferences(ctx, p))

	got, err := s.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Lagos", got.Location)
	assert.Equal(t, weather.UnitsMetric, got.Units)
	assert.True(t, got.AlertRain)
	assert.False(t, got.AlertWind)
	assert.Equal(t, "08:00:00", got.PreferredAlertTime)
	assert.True(t, got.UpdatedAt.Equal(p.UpdatedAt))

	p.Units = weather.UnitsImperial
	p.AlertWind = true
	require.NoError(t, s.SavePreferences(ctx, p))

	got, err = s.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, weather.UnitsImperial, got.Units)
	assert.True(t, got.AlertWind)
}

func TestSQLiteList(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	for _, id := range []string{"b", "a"} {
		require.NoError(t, s.SavePreferences(ctx, weather.DefaultPreferences(id)))
	}

	list, err := s.ListPreferences(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].UserID)
	assert.Equal(t, "b", list[1].UserID)
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driver: DriverPostgres}
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", pg.rebind("SELECT 1 WHERE a = ? AND b = ?"))

	lite := &SQLStore{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestNewSQLStoreRejectsUnknownDriver(t *testing.T) {
	_, err := NewSQLStore(context.Background(), "mysql", "")
	require.Error(t, err)
}
