package store

import (
	"context"
	"sort"
	"sync"

	"github.com/DExploit123/skyview-blend/internal/weather"
)

var (
	// ErrNotFound is returned when no preferences are stored for a user.
	ErrNotFound = weather.ErrPreferencesNotFound
)

// MemoryStore is a concurrency-safe in-memory implementation of a preference store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: user ID
	data map[string]weather.Preferences

	// maxUsers caps the number of stored users (0 = unlimited); the least
	// recently updated entry is evicted first.
	maxUsers int
}

// NewMemoryStore creates a new MemoryStore. If maxUsers is <= 0, it is treated as unlimited.
func NewMemoryStore(maxUsers int) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]weather.Preferences),
		maxUsers: maxUsers,
	}
}

// SavePreferences inserts or replaces the user's preferences and enforces the cap.
func (s *MemoryStore) SavePreferences(_ context.Context, p weather.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[p.UserID] = p

	if s.maxUsers > 0 && len(s.data) > s.maxUsers {
		oldest := ""
		for id, existing := range s.data {
			if id == p.UserID {
				continue
			}
			if oldest == "" || existing.UpdatedAt.Before(s.data[oldest].UpdatedAt) {
				oldest = id
			}
		}
		delete(s.data, oldest)
	}
	return nil
}

// GetPreferences returns the stored preferences for userID.
func (s *MemoryStore) GetPreferences(_ context.Context, userID string) (weather.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[userID]
	if !ok {
		return weather.Preferences{}, ErrNotFound
	}
	return p, nil
}

// ListPreferences returns every stored entry ordered by user ID.
func (s *MemoryStore) ListPreferences(_ context.Context) ([]weather.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Preferences, 0, len(s.data))
	for _, p := range s.data {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
