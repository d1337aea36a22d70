package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store keeps one cart per session.
type Store interface {
	// Load returns the session's cart, or an empty cart if none exists.
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Update applies fn to the session's cart and saves the result unless fn
	// returns an error. Updates of one session are serialised.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error)

	// Delete drops the session's cart.
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	snapshot Snapshot
	expires  time.Time
}

// MemoryStore is a process-local Store with a sliding TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// NewMemoryStore creates an in-memory cart store.
func NewMemoryStore(ttl time.Duration, logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With().Str("component", "cart-memory-store").Logger(),
	}
}

// Load returns the session's cart.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(sessionID), nil
}

// Update applies fn to the session's cart under the store lock.
func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.loadLocked(sessionID)
	if err := fn(c); err != nil {
		return nil, err
	}

	s.entries[sessionID] = &memoryEntry{
		snapshot: c.Snapshot(),
		expires:  s.now().Add(s.ttl),
	}
	return c, nil
}

// Delete drops the session's cart.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Sweep removes expired carts and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired carts every interval until ctx is done.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("expired carts swept")
			}
		}
	}
}

func (s *MemoryStore) loadLocked(sessionID string) *Cart {
	e, ok := s.entries[sessionID]
	if !ok || s.now().After(e.expires) {
		delete(s.entries, sessionID)
		return New()
	}
	e.expires = s.now().Add(s.ttl)
	return FromSnapshot(e.snapshot)
}
