package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/DExploit123/skyview-blend/internal/weather"
)

// AlertSink receives the alerts produced by a sweep.
type AlertSink func(prefs weather.Preferences, w weather.NormalizedWeather, alerts []weather.Alert)

// Scheduler periodically evaluates weather alerts for users whose preferred
// alert time has come round.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
	location  *time.Location
	sink      AlertSink
}

const defaultInterval = 15 * time.Minute

// sweepInterval rounds d down to whole minutes, the granularity gocron runs
// the job at. Due windows use the same value.
func sweepInterval(d time.Duration) time.Duration {
	d = d.Truncate(time.Minute)
	if d <= 0 {
		return defaultInterval
	}
	return d
}

// New creates a new Scheduler. The interval is truncated to whole minutes
// (15 when shorter than one). A nil sink logs alerts.
func New(interval time.Duration, loc *time.Location, service *weather.Service, sink AlertSink) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if sink == nil {
		sink = logAlerts
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		service:   service,
		interval:  sweepInterval(interval),
		location:  loc,
		sink:      sink,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(int(s.interval / time.Minute)).Minutes().Do(func() {
		log.Println("scheduler: running alert sweep")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n := s.RunOnce(ctx, s.service.Now())
		log.Printf("scheduler: completed alert sweep (%d users checked)", n)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce checks every stored user whose alert time fell in the interval
// ending at now and returns how many were checked.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) int {
	prefs, err := s.service.ListPreferences(ctx)
	if err != nil {
		log.Printf("ERROR: scheduler: list preferences: %v", err)
		return 0
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		checked int
	)
	for _, p := range prefs {
		if p.Location == "" || !p.DueWithin(now, s.interval, s.location) {
			continue
		}
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			alerts, w, err := s.service.CheckAlertsFor(ctx, p)
			if err != nil {
				if errors.Is(err, weather.ErrLocationNotFound) {
					log.Printf("scheduler: saved location %q for %s no longer resolves", p.Location, p.UserID)
				} else {
					log.Printf("scheduler: alert check failed for %s: %v", p.UserID, err)
				}
				return
			}

			mu.Lock()
			checked++
			s.sink(p, w, alerts)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return checked
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func logAlerts(p weather.Preferences, w weather.NormalizedWeather, alerts []weather.Alert) {
	for _, a := range alerts {
		log.Printf("INFO: alert for %s at %s [%s/%s]: %s", p.UserID, w.Location, a.Type, a.Severity, a.Message)
	}
}
