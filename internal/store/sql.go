package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/DExploit123/skyview-blend/internal/weather"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `CREATE TABLE IF NOT EXISTS weather_preferences (
    user_id TEXT PRIMARY KEY,
    location TEXT NOT NULL DEFAULT '',
    units TEXT NOT NULL DEFAULT 'metric',
    alert_rain BOOLEAN NOT NULL DEFAULT TRUE,
    alert_snow BOOLEAN NOT NULL DEFAULT TRUE,
    alert_extreme_temp BOOLEAN NOT NULL DEFAULT TRUE,
    alert_wind BOOLEAN NOT NULL DEFAULT FALSE,
    preferred_alert_time TEXT NOT NULL DEFAULT '08:00:00',
    updated_at TEXT NOT NULL
)`

// SQLStore persists preferences in SQLite (modernc.org/sqlite) or PostgreSQL (lib/pq).
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore opens the database and applies the schema.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported preferences driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) SavePreferences(ctx context.Context, p weather.Preferences) error {
	q := s.rebind(`INSERT INTO weather_preferences
        (user_id, location, units, alert_rain, alert_snow, alert_extreme_temp, alert_wind, preferred_alert_time, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)
        ON CONFLICT (user_id) DO UPDATE SET
            location = excluded.location,
            units = excluded.units,
            alert_rain = excluded.alert_rain,
            alert_snow = excluded.alert_snow,
            alert_extreme_temp = excluded.alert_extreme_temp,
            alert_wind = excluded.alert_wind,
            preferred_alert_time = excluded.preferred_alert_time,
            updated_at = excluded.updated_at`)

	_, err := s.db.ExecContext(ctx, q,
		p.UserID, p.Location, string(p.Units),
		p.AlertRain, p.AlertSnow, p.AlertExtremeTemp, p.AlertWind,
		p.PreferredAlertTime, p.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

const selectColumns = `SELECT user_id, location, units, alert_rain, alert_snow, alert_extreme_temp, alert_wind, preferred_alert_time, updated_at FROM weather_preferences`

func (s *SQLStore) GetPreferences(ctx context.Context, userID string) (weather.Preferences, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectColumns+` WHERE user_id = ?`), userID)
	p, err := scanPreferences(row)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.Preferences{}, ErrNotFound
	}
	return p, err
}

func (s *SQLStore) ListPreferences(ctx context.Context) ([]weather.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weather.Preferences, 0)
	for rows.Next() {
		p, err := scanPreferences(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreferences(r scanner) (weather.Preferences, error) {
	var (
		p     weather.Preferences
		units string
		ts    string
	)
	if err := r.Scan(&p.UserID, &p.Location, &units, &p.AlertRain, &p.AlertSnow,
		&p.AlertExtremeTemp, &p.AlertWind, &p.PreferredAlertTime, &ts); err != nil {
		return weather.Preferences{}, err
	}
	p.Units = weather.Units(units)
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		p.UpdatedAt = t
	}
	return p, nil
}
